package parser_test

import (
	"testing"

	"github.com/leapstack-labs/tsqlscript/pkg/core"
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	_ "github.com/leapstack-labs/tsqlscript/pkg/dialects/all" // register dialects
	"github.com/leapstack-labs/tsqlscript/pkg/dialects/sql100"
	"github.com/leapstack-labs/tsqlscript/pkg/dialects/sql80"
	"github.com/leapstack-labs/tsqlscript/pkg/parser"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDialect(t *testing.T, v dialect.Version) *dialect.Dialect {
	t.Helper()
	d, err := dialect.ForVersion(v)
	require.NoError(t, err)
	return d
}

// parseValid parses sql under the newest dialect and requires a clean parse.
func parseValid(t *testing.T, sql string) *core.Script {
	t.Helper()
	res := parser.Parse(sql, sql100.Sql100, false)
	require.True(t, res.Valid(), "unexpected diagnostics:\n%s", res.Diagnostics)
	return res.Script
}

func onlyStmt(t *testing.T, script *core.Script) core.Stmt {
	t.Helper()
	require.Len(t, script.Batches, 1)
	require.Len(t, script.Batches[0].Stmts, 1)
	return script.Batches[0].Stmts[0]
}

// ---------- Grammar coverage and version gating ----------

func TestParseAcceptedByVersion(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		since dialect.Version
	}{
		// Queries
		{"simple select", "select a, b from t where x = 1", dialect.V1},
		{"top percent", "select distinct top 10 percent a from t order by a desc", dialect.V1},
		{"top with ties", "select top 5 with ties a from t order by a", dialect.V1},
		{"joins", "select a from t1 inner join t2 on t1.id = t2.id left outer join t3 on t3.id = t2.id", dialect.V1},
		{"cross join", "select * from a cross join b", dialect.V1},
		{"derived table", "select * from (select a from t) as d", dialect.V1},
		{"paren join", "select * from (a join b on a.id = b.id)", dialect.V1},
		{"aggregates", "select count(*), sum(distinct x) from t group by y having count(*) > 1", dialect.V1},
		{"group by rollup", "select a, count(*) from t group by a with rollup", dialect.V1},
		{"union all", "select a from t1 union all select a from t2", dialect.V1},
		{"case", "select case when a = 1 then 'x' else 'y' end from t", dialect.V1},
		{"simple case", "select case a when 1 then 'x' end as c from t", dialect.V1},
		{"cast and convert", "select cast(a as varchar(10)), convert(int, b, 1) from t", dialect.V1},
		{"predicates", "select * from t where a in (1, 2) and b not like 'x%' and c between 1 and 2 and d is not null", dialect.V1},
		{"exists", "select * from t where exists (select 1 from u where u.id = t.id)", dialect.V1},
		{"in subquery", "select * from t where a not in (select a from u)", dialect.V1},
		{"quantified subquery", "select * from t where a > all (select a from u)", dialect.V1},
		{"unary operators", "select a from t where a = -1 and b = ~c", dialect.V1},
		{"qualified star", "select x.* from t x", dialect.V1},
		{"select into", "select a into #tmp from t", dialect.V1},
		{"string alias", "select a 'first' from t", dialect.V1},
		{"table hints", "select * from t with (nolock) where a = 1", dialect.V1},
		{"bracketed names", "select [a b] from [my table] as [x]", dialect.V1},
		{"four part name", "select * from srv.db..t", dialect.V1},
		{"collate", "select a collate Latin1_General_CI_AS from t", dialect.V1},
		{"left function", "select left(a, 2), right(a, 1) from t", dialect.V1},
		{"variables", "select @a = @@rowcount", dialect.V1},
		{"later keywords as identifiers", "select pivot, merge, try, over from t", dialect.V1},
		{"later keywords as functions", "select over(1), pivot(1), unpivot(a), except(1), intersect(1), merge(1) from t where over(a) = 1", dialect.V1},
		{"later keywords as table functions", "select * from over(1)", dialect.V1},
		{"table function after comma", "select * from t x, over(1) y, dbo.pivot(2) z", dialect.V1},
		{"later keyword as insert target", "insert into over (a) values (1)", dialect.V1},

		// Data modification
		{"insert values", "insert into t (a, b) values (1, 'x')", dialect.V1},
		{"insert select", "insert t select a, b from u", dialect.V1},
		{"insert exec", "insert into t exec dbo.p 1", dialect.V1},
		{"insert default values", "insert into t default values", dialect.V1},
		{"update", "update t set a = 1, b = b + 1 where c = 2", dialect.V1},
		{"update from", "update t set a = u.a from t inner join u on u.id = t.id", dialect.V1},
		{"update variable", "update t set @x = a = 1", dialect.V1},
		{"delete", "delete from t where a = 1", dialect.V1},
		{"delete join", "delete t from t inner join u on u.id = t.id", dialect.V1},

		// Definitions
		{"create table", "create table dbo.t (id int identity(1, 1) not null primary key, name nvarchar(50) null default 'x', constraint ck check (id > 0))", dialect.V1},
		{"table constraints", "create table t (a int, b int, constraint pk primary key clustered (a, b desc), foreign key (b) references u (id) on delete cascade)", dialect.V1},
		{"computed column", "create table t (a int, b as a * 2, c varchar(max) collate Latin1_General_CI_AS)", dialect.V1},
		{"create view", "create view v (a) with schemabinding as select a from dbo.t with check option", dialect.V1},
		{"alter view", "alter view v as select 1 as one", dialect.V1},
		{"create procedure", "create procedure dbo.p @a int = 0, @b int output as select @a", dialect.V1},
		{"procedure with parens", "create proc p (@a int) with recompile as begin return @a end", dialect.V1},
		{"drop list", "drop table a, b", dialect.V1},
		{"drop procedure", "drop proc p", dialect.V1},
		{"truncate", "truncate table t", dialect.V1},

		// Variables and control flow
		{"declare", "declare @a int, @b varchar(max)", dialect.V1},
		{"declare table", "declare @t table (id int primary key)", dialect.V1},
		{"set variable", "set @a = 1", dialect.V1},
		{"set option", "set nocount on", dialect.V1},
		{"set options list", "set ansi_nulls, quoted_identifier off", dialect.V1},
		{"set isolation", "set transaction isolation level read committed", dialect.V1},
		{"set identity insert", "set identity_insert dbo.t on", dialect.V1},
		{"set rowcount", "set rowcount 10", dialect.V1},
		{"print", "print 'hello'", dialect.V1},
		{"use", "use master", dialect.V1},
		{"if else", "if @a = 1 begin select 1 end else select 2", dialect.V1},
		{"while", "while @i < 10 begin set @i = @i + 1; if @i = 5 break; continue end", dialect.V1},
		{"exec named args", "exec dbo.p @a = 1, @b = @c output", dialect.V1},
		{"exec return value", "execute @rc = p default", dialect.V1},
		{"exec dynamic", "exec ('select 1')", dialect.V1},
		{"transactions", "begin tran; commit tran", dialect.V1},
		{"named transaction", "begin transaction t1\nsave transaction sp1\nrollback transaction sp1\ncommit", dialect.V1},
		{"raiserror", "raiserror ('oops', 16, 1) with nowait", dialect.V1},
		{"waitfor", "waitfor delay '00:00:01'", dialect.V1},
		{"batches", "select 1\ngo\nselect 2", dialect.V1},

		// Sql90
		{"cte", "with c (x) as (select 1) select x from c", dialect.V2},
		{"cte update", "with c as (select a from t) update c set a = 1", dialect.V2},
		{"except", "select a from t1 x except select a from t2", dialect.V2},
		{"intersect", "(select a from t1) intersect (select a from t2)", dialect.V2},
		{"cross apply", "select * from t cross apply dbo.f(t.id) as x", dialect.V2},
		{"outer apply", "select * from t outer apply dbo.f(t.id) x", dialect.V2},
		{"window", "select row_number() over (partition by a order by b) from t", dialect.V2},
		{"pivot", "select * from s pivot (sum(v) for k in ([a], [b])) as p", dialect.V2},
		{"unpivot", "select * from s unpivot (v for k in (a, b)) as u", dialect.V2},
		{"output", "insert into t output inserted.id values (1)", dialect.V2},
		{"output into", "delete from t output deleted.a into @log (a) where a = 1", dialect.V2},
		{"try catch", "begin try select 1 end try begin catch select 2 end catch", dialect.V2},
		{"top expression", "select top (10) a from t", dialect.V2},
		{"dml top", "delete top (5) from t", dialect.V2},

		// Sql100
		{"row constructors", "insert into t values (1), (2)", dialect.V3},
		{"declare initializer", "declare @a int = 1", dialect.V3},
		{"compound assignment", "set @a += 1", dialect.V3},
		{"drop if exists", "drop table if exists t", dialect.V3},
		{"merge", "merge into t using s on t.id = s.id when matched then update set t.a = s.a when not matched then insert (id, a) values (s.id, s.a);", dialect.V3},
		{"merge by source", "merge t as tgt using (select id from s) as src on tgt.id = src.id when not matched by source and tgt.a > 0 then delete;", dialect.V3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range dialect.Versions() {
				res := parser.Parse(tt.sql, mustDialect(t, v), false)
				if v >= tt.since {
					assert.True(t, res.Valid(), "%s should accept:\n%s", v.Name(), res.Diagnostics)
				} else {
					assert.False(t, res.Valid(), "%s should reject", v.Name())
				}
			}
		})
	}
}

// ---------- Diagnostics and recovery ----------

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		messages []string
		offsets  []int
	}{
		{
			name:     "misspelled keyword",
			sql:      "selct * from t",
			messages: []string{"Incorrect syntax near 'selct'."},
			offsets:  []int{0},
		},
		{
			name:     "end of input",
			sql:      "select a from",
			messages: []string{"Incorrect syntax near end of input."},
			offsets:  []int{13},
		},
		{
			name:     "two statements two errors",
			sql:      "select a from t where;\nselect b from where x = 1",
			messages: []string{"Incorrect syntax near ';'.", "Incorrect syntax near 'where'."},
			offsets:  []int{21, 37},
		},
		{
			name:     "one diagnostic per statement",
			sql:      "select a from t where ) and ) or )",
			messages: []string{"Incorrect syntax near ')'."},
			offsets:  []int{22},
		},
		{
			name:     "lexical error is not reported twice",
			sql:      "select 'abc",
			messages: []string{"Unclosed quotation mark after the character string 'abc'."},
			offsets:  []int{7},
		},
		{
			name:     "sorted by offset",
			sql:      "selct 1\nselect 'abc",
			messages: []string{"Incorrect syntax near 'selct'.", "Unclosed quotation mark after the character string 'abc'."},
			offsets:  []int{0, 15},
		},
		{
			name:     "unterminated block",
			sql:      "begin select 1",
			messages: []string{"Incorrect syntax near end of input."},
			offsets:  []int{14},
		},
		{
			name:     "dml top requires parentheses",
			sql:      "delete top 5 from t",
			messages: []string{"Incorrect syntax near '5'."},
			offsets:  []int{11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parser.Parse(tt.sql, sql100.Sql100, false)
			require.False(t, res.Valid())
			require.NotNil(t, res.Script)

			var messages []string
			var offsets []int
			for _, d := range res.Diagnostics {
				messages = append(messages, d.Message)
				offsets = append(offsets, d.Offset)
			}
			assert.Equal(t, tt.messages, messages)
			assert.Equal(t, tt.offsets, offsets)
		})
	}
}

func TestParseRecovery(t *testing.T) {
	t.Run("skips to the next statement", func(t *testing.T) {
		res := parser.Parse("selct 1; select 2", sql100.Sql100, false)
		require.Len(t, res.Diagnostics, 1)
		require.Len(t, res.Script.Batches, 1)
		assert.Len(t, res.Script.Batches[0].Stmts, 1)
	})

	t.Run("stops at a batch separator", func(t *testing.T) {
		res := parser.Parse("select 1;\nselct\ngo\nselect 2", sql100.Sql100, false)
		require.Len(t, res.Diagnostics, 1)
		require.Len(t, res.Script.Batches, 2)
		assert.Len(t, res.Script.Batches[0].Stmts, 1)
		assert.Len(t, res.Script.Batches[1].Stmts, 1)
	})

	t.Run("recovers inside a block", func(t *testing.T) {
		res := parser.Parse("begin\nselect from t\nselect 1\nend\nselect 2", sql100.Sql100, false)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, "Incorrect syntax near 'from'.", res.Diagnostics[0].Message)

		stmts := res.Script.Batches[0].Stmts
		require.Len(t, stmts, 2)
		block, ok := stmts[0].(*core.BlockStmt)
		require.True(t, ok)
		assert.Len(t, block.Stmts, 1)
	})

	t.Run("terminates on garbage", func(t *testing.T) {
		res := parser.Parse(") ) , . ; ( end else", sql100.Sql100, false)
		assert.False(t, res.Valid())
	})
}

// ---------- Tree shape ----------

func TestParseBatches(t *testing.T) {
	script := parseValid(t, "select 1\nGO 2\nselect 2; select 3;")
	require.Len(t, script.Batches, 2)

	require.NotNil(t, script.Batches[0].Go)
	assert.Equal(t, "2", script.Batches[0].Go.Count)
	assert.Nil(t, script.Batches[1].Go)

	stmts := script.Batches[1].Stmts
	require.Len(t, stmts, 2)
	assert.True(t, stmts[0].IsTerminated())
	assert.True(t, stmts[1].IsTerminated())
	assert.False(t, script.Batches[0].Stmts[0].IsTerminated())
}

func TestParseSpellingsAndComments(t *testing.T) {
	script := parseValid(t, "-- lead\nSelect top 5 Percent a From t /* tail */")

	spelling, ok := script.Spelling("SELECT")
	require.True(t, ok)
	assert.Equal(t, "Select", spelling)
	spelling, ok = script.Spelling("PERCENT")
	require.True(t, ok)
	assert.Equal(t, "Percent", spelling)

	require.Len(t, script.Comments, 2)
	assert.Equal(t, "-- lead", script.Comments[0].Text)
	assert.Equal(t, token.BlockComment, script.Comments[1].Kind)
}

func TestParseSetOperatorPrecedence(t *testing.T) {
	stmt := onlyStmt(t, parseValid(t, "select 1 union select 2 intersect select 3"))
	sel, ok := stmt.(*core.SelectStmt)
	require.True(t, ok)

	union, ok := sel.Body.(*core.SetOpExpr)
	require.True(t, ok)
	assert.Equal(t, core.SetOpUnion, union.Op)

	intersect, ok := union.Right.(*core.SetOpExpr)
	require.True(t, ok)
	assert.Equal(t, core.SetOpIntersect, intersect.Op)
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		topOp token.TokenType
	}{
		{"multiply binds tighter", "select 1 + 2 * 3", token.PLUS},
		{"left associative", "select 1 - 2 - 3", token.MINUS},
		{"and binds tighter than or", "select 1 where a = 1 or b = 2 and c = 3", token.OR},
		{"comparison below addition", "select 1 where a + 1 = b", token.EQ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := onlyStmt(t, parseValid(t, tt.sql)).(*core.SelectStmt)
			spec := sel.Body.(*core.QuerySpec)

			var expr core.Expr
			if spec.Where != nil {
				expr = spec.Where.Cond
			} else {
				expr = spec.Items[0].Expr
			}
			bin, ok := expr.(*core.BinaryExpr)
			require.True(t, ok, "got %T", expr)
			assert.Equal(t, tt.topOp, bin.Op)
		})
	}

	t.Run("left associative shape", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select 1 - 2 - 3")).(*core.SelectStmt)
		bin := sel.Body.(*core.QuerySpec).Items[0].Expr.(*core.BinaryExpr)
		_, leftIsBinary := bin.Left.(*core.BinaryExpr)
		assert.True(t, leftIsBinary)
	})
}

func TestParseObjectNames(t *testing.T) {
	sel := onlyStmt(t, parseValid(t, "select * from srv.db..t")).(*core.SelectStmt)
	ref := sel.Body.(*core.QuerySpec).From.Sources[0].(*core.TableRef)
	assert.Equal(t, []string{"srv", "db", "", "t"}, ref.Name.Parts)
	assert.Equal(t, "t", ref.Name.Base())
}

func TestParseSpans(t *testing.T) {
	stmt := onlyStmt(t, parseValid(t, "  select a from t;"))
	assert.Equal(t, 2, stmt.Pos().Offset)
	assert.Equal(t, 18, stmt.End().Offset)
}

func TestParseSoftKeywords(t *testing.T) {
	t.Run("merge as a column", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select merge from t")).(*core.SelectStmt)
		col, ok := sel.Body.(*core.QuerySpec).Items[0].Expr.(*core.ColumnRef)
		require.True(t, ok)
		assert.Equal(t, []string{"merge"}, col.Parts)
	})

	t.Run("pivot as an alias", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select * from t pivot")).(*core.SelectStmt)
		ref := sel.Body.(*core.QuerySpec).From.Sources[0].(*core.TableRef)
		assert.Equal(t, "pivot", ref.Alias)
	})

	t.Run("over as a function", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select over(1) from t")).(*core.SelectStmt)
		fn, ok := sel.Body.(*core.QuerySpec).Items[0].Expr.(*core.FuncCall)
		require.True(t, ok)
		assert.Equal(t, []string{"over"}, fn.Name.Parts)
		assert.Nil(t, fn.Over)
	})

	t.Run("over after a call", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select over(1) over (order by a) from t")).(*core.SelectStmt)
		fn := sel.Body.(*core.QuerySpec).Items[0].Expr.(*core.FuncCall)
		assert.Equal(t, []string{"over"}, fn.Name.Parts)
		assert.NotNil(t, fn.Over)
	})

	t.Run("pivot as a table function", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select * from t x, pivot(1) p")).(*core.SelectStmt)
		sources := sel.Body.(*core.QuerySpec).From.Sources
		require.Len(t, sources, 2)
		fn, ok := sources[1].(*core.TableFuncRef)
		require.True(t, ok)
		assert.Equal(t, []string{"pivot"}, fn.Call.Name.Parts)
		assert.Equal(t, "p", fn.Alias)
	})

	t.Run("except after a query term", func(t *testing.T) {
		sel := onlyStmt(t, parseValid(t, "select a from t except (select a from u)")).(*core.SelectStmt)
		op, ok := sel.Body.(*core.SetOpExpr)
		require.True(t, ok)
		assert.Equal(t, core.SetOpExcept, op.Op)
	})

	t.Run("output word in sql80", func(t *testing.T) {
		res := parser.Parse("exec p @x output", sql80.Sql80, false)
		require.True(t, res.Valid(), res.Diagnostics.String())
		exec := onlyStmt(t, res.Script).(*core.ExecStmt)
		require.Len(t, exec.Args, 1)
		assert.True(t, exec.Args[0].Output)
	})
}

func TestParseStatements(t *testing.T) {
	t.Run("merge clauses", func(t *testing.T) {
		stmt := onlyStmt(t, parseValid(t,
			"merge t using s on t.id = s.id "+
				"when matched and s.a is null then delete "+
				"when not matched by target then insert default values "+
				"when not matched by source then update set a = 0;"))
		merge := stmt.(*core.MergeStmt)
		assert.Empty(t, merge.Target.Alias)
		require.Len(t, merge.Clauses, 3)
		assert.Equal(t, core.MergeMatched, merge.Clauses[0].Match)
		assert.Equal(t, core.MergeDelete, merge.Clauses[0].Action)
		assert.NotNil(t, merge.Clauses[0].Cond)
		assert.True(t, merge.Clauses[1].ByTarget)
		assert.Nil(t, merge.Clauses[1].Values)
		assert.Equal(t, core.MergeNotMatchedBySource, merge.Clauses[2].Match)
		assert.True(t, merge.IsTerminated())
	})

	t.Run("create table columns", func(t *testing.T) {
		stmt := onlyStmt(t, parseValid(t,
			"create table t (id int identity(-1, 1) not null, b as id * 2, constraint pk primary key (id))"))
		ct := stmt.(*core.CreateTableStmt)
		require.Len(t, ct.Table.Columns, 2)
		require.Len(t, ct.Table.Constraints, 1)

		id := ct.Table.Columns[0]
		require.Len(t, id.Constraints, 2)
		assert.Equal(t, core.ConstraintIdentity, id.Constraints[0].Kind)
		assert.Equal(t, "-1", id.Constraints[0].Seed)
		assert.Equal(t, core.ConstraintNotNull, id.Constraints[1].Kind)

		assert.NotNil(t, ct.Table.Columns[1].Computed)
		assert.Equal(t, "pk", ct.Table.Constraints[0].Name)
	})

	t.Run("procedure body runs to the batch end", func(t *testing.T) {
		script := parseValid(t, "create procedure p as\nselect 1\nselect 2\ngo\nselect 3")
		require.Len(t, script.Batches, 2)
		proc := script.Batches[0].Stmts[0].(*core.CreateProcedureStmt)
		assert.Len(t, proc.Body, 2)
	})

	t.Run("set option shapes", func(t *testing.T) {
		script := parseValid(t, "set nocount on\nset rowcount 10\nset identity_insert t off")
		stmts := script.Batches[0].Stmts
		require.Len(t, stmts, 3)

		nocount := stmts[0].(*core.SetOptionStmt)
		assert.Equal(t, []string{"nocount"}, nocount.Options)
		assert.Equal(t, token.ON, nocount.State)

		rowcount := stmts[1].(*core.SetOptionStmt)
		assert.NotNil(t, rowcount.Value)
		assert.Equal(t, token.EOF, rowcount.State)

		identity := stmts[2].(*core.SetOptionStmt)
		assert.NotNil(t, identity.Value)
		assert.Equal(t, token.OFF, identity.State)
	})

	t.Run("if keeps the inner terminator", func(t *testing.T) {
		stmt := onlyStmt(t, parseValid(t, "if 1 = 1 select 1; else select 2;"))
		ifStmt := stmt.(*core.IfStmt)
		assert.True(t, ifStmt.Then.IsTerminated())
		assert.True(t, ifStmt.Else.IsTerminated())
	})

	t.Run("drop if exists", func(t *testing.T) {
		drop := onlyStmt(t, parseValid(t, "drop view if exists a, b")).(*core.DropStmt)
		assert.True(t, drop.IfExists)
		assert.Equal(t, core.ObjectView, drop.Kind)
		assert.Len(t, drop.Names, 2)
	})

	t.Run("transaction without keyword", func(t *testing.T) {
		tx := onlyStmt(t, parseValid(t, "commit")).(*core.TransactionStmt)
		assert.Equal(t, core.TransactionCommit, tx.Kind)
		assert.Equal(t, token.EOF, tx.Tran)
	})
}

func TestParseQuotedIdentifierOff(t *testing.T) {
	res := parser.Parse(`select "abc"`, sql100.Sql100, true)
	require.True(t, res.Valid())
	sel := onlyStmt(t, res.Script).(*core.SelectStmt)
	lit, ok := sel.Body.(*core.QuerySpec).Items[0].Expr.(*core.Literal)
	require.True(t, ok)
	assert.Equal(t, core.LiteralString, lit.Kind)
}
