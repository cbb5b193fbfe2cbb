package tsql

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/format"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// corpus mixes valid and invalid scripts across every version.
var corpus = []string{
	"select a,b from t where x=1",
	"selct * from t",
	"select a, b, c from t",
	"update t set a=1, b=2",
	"select * from where x=1; update set a=1",
	"declare @a int set @a = 1 print @a",
	"declare @a int = 1",
	"set @a += 1",
	"begin try select 1 end try begin catch select 2 end catch",
	"with c as (select 1 as x) select x from c",
	"merge t using s on t.id = s.id when matched then delete;",
	"select row_number() over (order by a) from t",
	"select a from t union select a from u except select a from v",
	"create table t (id int identity(1,1) primary key, name varchar(20) not null)",
	"create view v as select a from t",
	"if exists (select 1 from t) begin update t set a = 0 end else print 'none'",
	"select 1\ngo\nselect 2\ngo 3",
	"select 'unterminated",
	"select [x from t",
	"/* open comment",
	"insert into t values (1), (2)",
	"drop table if exists t",
	"select merge, try, pivot from t",
	"select over(1), pivot(1), unpivot(1), except(1), intersect(1) from t where over(a) = 1",
	"select * from over(1)",
	"select * from t x, over(1) y",
	"exec dbo.p @a = 1, @b = @c output",
	"",
}

func TestFormat_Scenarios(t *testing.T) {
	t.Run("A uppercase with semicolons", func(t *testing.T) {
		opts := format.DefaultOptions()
		opts.IncludeSemicolons = true
		out, err := Format("select a,b from t where x=1", dialect.V3, false, opts)
		require.NoError(t, err)
		assert.Equal(t, "SELECT a, b FROM t WHERE x = 1;", out)
	})

	t.Run("C multiline select list", func(t *testing.T) {
		opts := format.DefaultOptions()
		opts.MultilineSelectElementsList = true
		opts.IndentationSize = 2
		out, err := Format("select a, b, c from t", dialect.V3, false, opts)
		require.NoError(t, err)
		assert.Equal(t, "SELECT\n  a,\n  b,\n  c\nFROM t", out)
	})

	t.Run("D aligned set items", func(t *testing.T) {
		opts := format.DefaultOptions()
		opts.AlignSetClauseItem = true
		out, err := Format("update t set a=1, b=2", dialect.V3, false, opts)
		require.NoError(t, err)

		var columns []int
		for _, line := range strings.Split(out, "\n") {
			if i := strings.Index(line, "="); i >= 0 {
				columns = append(columns, i)
			}
		}
		require.Len(t, columns, 2)
		assert.Equal(t, columns[0], columns[1])
	})
}

func TestValidate_Scenarios(t *testing.T) {
	t.Run("B misspelled keyword", func(t *testing.T) {
		ok, diags, err := Validate("selct * from t", dialect.V3, false)
		require.NoError(t, err)
		assert.False(t, ok)
		require.Len(t, diags, 1)
		assert.Equal(t, 0, diags[0].Offset)
		assert.Contains(t, diags[0].Message, "selct")
	})

	t.Run("E independent errors", func(t *testing.T) {
		ok, diags, err := Validate("select * from where x=1; update set a=1", dialect.V3, false)
		require.NoError(t, err)
		assert.False(t, ok)
		require.Len(t, diags, 2)
		assert.Equal(t, 14, diags[0].Offset)
		assert.Contains(t, diags[0].Message, "where")
		assert.Equal(t, 32, diags[1].Offset)
		assert.Contains(t, diags[1].Message, "set")
	})
}

func TestFormat_DiagnosticError(t *testing.T) {
	out, err := Format("selct * from t", dialect.V3, false, format.DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, out)

	var diagErr *core.DiagnosticError
	require.True(t, errors.As(err, &diagErr))
	require.Len(t, diagErr.Diagnostics, 1)
	assert.Equal(t, "Incorrect syntax near 'selct'.\noffset 0", err.Error())
}

func TestUnknownVersion(t *testing.T) {
	_, err := Format("select 1", dialect.Version(9), false, format.DefaultOptions())
	require.ErrorIs(t, err, dialect.ErrUnknownVersion)

	_, _, err = Validate("select 1", dialect.Version(0), false)
	require.ErrorIs(t, err, dialect.ErrUnknownVersion)

	_, _, err = Tokenize("select 1", dialect.Version(4), false)
	require.ErrorIs(t, err, dialect.ErrUnknownVersion)
}

func TestParse(t *testing.T) {
	script, diags, err := Parse("select * from a join b on a.id = b.id where exists (select 1 from c)", dialect.V3, false)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"a", "b", "c"}, core.TableNames(script))

	script, diags, err = Parse("selct * from t", dialect.V3, false)
	require.NoError(t, err)
	require.NotNil(t, script)
	require.Len(t, diags, 1)
	assert.Equal(t, 0, diags[0].Offset)

	_, _, err = Parse("select 1", dialect.Version(7), false)
	require.ErrorIs(t, err, dialect.ErrUnknownVersion)
}

func TestDeterminismAndIdempotence(t *testing.T) {
	styles := []format.Options{format.DefaultOptions()}
	multiline := format.DefaultOptions()
	multiline.MultilineSelectElementsList = true
	multiline.MultilineWherePredicatesList = true
	multiline.NewLineBeforeFromClause = true
	multiline.NewLineBeforeWhereClause = true
	multiline.AlignClauseBodies = true
	multiline.AlignSetClauseItem = true
	multiline.IncludeSemicolons = true
	multiline.KeywordCasing = format.CasingLowercase
	styles = append(styles, multiline)

	for _, input := range corpus {
		for _, v := range dialect.Versions() {
			for _, opts := range styles {
				first, err := Format(input, v, false, opts)
				if err != nil {
					continue
				}
				again, err := Format(input, v, false, opts)
				require.NoError(t, err)
				assert.Equal(t, first, again, "not deterministic: %q", input)

				twice, err := Format(first, v, false, opts)
				require.NoError(t, err, "formatted output does not parse: %q", first)
				assert.Equal(t, first, twice, "not idempotent: %q", input)
			}
		}
	}
}

func TestValidateFormatConsistency(t *testing.T) {
	for _, input := range corpus {
		for _, v := range dialect.Versions() {
			for _, quotedOff := range []bool{false, true} {
				ok, _, err := Validate(input, v, quotedOff)
				require.NoError(t, err)
				_, fmtErr := Format(input, v, quotedOff, format.DefaultOptions())
				assert.Equal(t, ok, fmtErr == nil, "%s quotedOff=%v: %q", v, quotedOff, input)
			}
		}
	}
}

func TestMonotonicDialectAcceptance(t *testing.T) {
	versions := dialect.Versions()
	for _, input := range corpus {
		for i, v := range versions {
			ok, _, err := Validate(input, v, false)
			require.NoError(t, err)
			if !ok {
				continue
			}
			for _, later := range versions[i+1:] {
				laterOK, diags, err := Validate(input, later, false)
				require.NoError(t, err)
				assert.True(t, laterOK, "%q valid under %s but not %s: %s", input, v, later, diags)
			}
		}
	}
}

func TestVersionGating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid []bool // v1, v2, v3
	}{
		{"plain select", "select a from t", []bool{true, true, true}},
		{"try catch", "begin try select 1 end try begin catch select 2 end catch", []bool{false, true, true}},
		{"common table expression", "with c as (select 1 as x) select x from c", []bool{false, true, true}},
		{"merge", "merge t using s on t.id = s.id when matched then delete;", []bool{false, false, true}},
		{"declare initializer", "declare @a int = 1", []bool{false, false, true}},
		{"soft keywords as names", "select merge, try, pivot from t", []bool{true, true, true}},
		{"soft keywords as functions", "select over(1), pivot(1), unpivot(1), except(1), intersect(1)", []bool{true, true, true}},
		{"soft keyword in a predicate", "select a from t where over(a) = 1", []bool{true, true, true}},
		{"soft keyword as table function", "select * from over(1)", []bool{true, true, true}},
		{"soft keyword after comma join", "select * from t x, over(1) y", []bool{true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, v := range dialect.Versions() {
				ok, diags, err := Validate(tt.input, v, false)
				require.NoError(t, err)
				assert.Equal(t, tt.valid[i], ok, "%s: %s", v, diags)
			}
		})
	}
}

func TestDiagnosticOrdering(t *testing.T) {
	for _, input := range append(corpus, "select * from where x = 1; select 1 /* open") {
		_, diags, err := Validate(input, dialect.V3, false)
		require.NoError(t, err)
		assert.True(t, sort.SliceIsSorted(diags, func(i, j int) bool {
			return diags[i].Offset < diags[j].Offset
		}), "unsorted diagnostics for %q", input)
	}

	_, diags, err := Validate("select * from where x = 1; select 1 /* open", dialect.V3, false)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, core.KindSyntax, diags[0].Kind)
	assert.Equal(t, core.KindLexical, diags[1].Kind)
}

func TestTokenize(t *testing.T) {
	tokens, diags, err := Tokenize("select [a] -- c\nfrom t", dialect.V3, false)
	require.NoError(t, err)
	assert.Empty(t, diags)

	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Type.Kind())
	}
	assert.Equal(t, []token.Kind{
		token.KindKeyword, token.KindWhitespace, token.KindIdentifier, token.KindWhitespace,
		token.KindComment, token.KindWhitespace, token.KindKeyword, token.KindWhitespace,
		token.KindIdentifier, token.KindSpecial,
	}, kinds)
}

func TestQuotedIdentifierOff(t *testing.T) {
	out, err := Format(`select "a" from t`, dialect.V3, false, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `SELECT "a" FROM t`, out)

	out, err = Format(`select "a" from t`, dialect.V3, true, format.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, `SELECT "a" FROM t`, out)

	ok, _, err := Validate(`select * from "t"`, dialect.V3, true)
	require.NoError(t, err)
	assert.False(t, ok, "a string is not a table name")
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Format("select a,b from t where x=1", dialect.V3, false, format.DefaultOptions())
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, "SELECT a, b FROM t WHERE x = 1", r)
	}
}
