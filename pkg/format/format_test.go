package format

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/tsqlscript/pkg/dialects/sql100"
	"github.com/leapstack-labs/tsqlscript/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, input string, opts Options) string {
	t.Helper()
	res := parser.Parse(input, sql100.Sql100, false)
	require.Empty(t, res.Diagnostics, "parse %q", input)
	return Generate(res.Script, opts)
}

func with(edit func(o *Options)) Options {
	o := DefaultOptions()
	edit(&o)
	return o
}

func TestGenerate_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple select",
			input:    "select a,b from t where x=1",
			expected: "SELECT a, b FROM t WHERE x = 1",
		},
		{
			name:     "source terminator kept",
			input:    "select 1;",
			expected: "SELECT 1;",
		},
		{
			name:     "alias gets AS",
			input:    "select a b from t1 t join t2 on t.id=t2.id",
			expected: "SELECT a AS b FROM t1 AS t JOIN t2 ON t.id = t2.id",
		},
		{
			name:     "outer join keeps OUTER only when written",
			input:    "select * from a left outer join b on a.id=b.id right join c on c.id=b.id",
			expected: "SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id RIGHT JOIN c ON c.id = b.id",
		},
		{
			name:     "top percent with ties",
			input:    "select top 5 percent with ties a from t order by a desc",
			expected: "SELECT TOP 5 PERCENT WITH TIES a FROM t ORDER BY a DESC",
		},
		{
			name:     "group by having",
			input:    "select a, count(*) from t group by a having count(*)>1",
			expected: "SELECT a, count(*) FROM t GROUP BY a HAVING count(*) > 1",
		},
		{
			name:     "insert gets INTO",
			input:    "insert t (a,b) values (1,2),(3,4)",
			expected: "INSERT INTO t (a, b) VALUES (1, 2), (3, 4)",
		},
		{
			name:     "delete gets FROM",
			input:    "delete t where a=1",
			expected: "DELETE FROM t WHERE a = 1",
		},
		{
			name:     "update",
			input:    "update t set a=1, b+=2 where c is not null",
			expected: "UPDATE t SET a = 1, b += 2 WHERE c IS NOT NULL",
		},
		{
			name:     "common table expression",
			input:    "with c (x) as (select 1) select x from c",
			expected: "WITH c (x) AS (SELECT 1)\nSELECT x FROM c",
		},
		{
			name:     "set operators",
			input:    "select a from t union all select a from u except select a from v",
			expected: "SELECT a FROM t UNION ALL SELECT a FROM u EXCEPT SELECT a FROM v",
		},
		{
			name:     "predicates",
			input:    "select a from t where a not in (1,2) and b between 1 and 5 and c like 'x%' and exists (select 1 from u)",
			expected: "SELECT a FROM t WHERE a NOT IN (1, 2) AND b BETWEEN 1 AND 5 AND c LIKE 'x%' AND EXISTS (SELECT 1 FROM u)",
		},
		{
			name:     "case and cast",
			input:    "select case when a=1 then 'x' else 'y' end, cast(b as varchar(10)), convert(int, c, 1) from t",
			expected: "SELECT CASE WHEN a = 1 THEN 'x' ELSE 'y' END, CAST(b AS varchar(10)), CONVERT(int, c, 1) FROM t",
		},
		{
			name:     "window function",
			input:    "select row_number() over (partition by a order by b) from t",
			expected: "SELECT row_number() OVER (PARTITION BY a ORDER BY b) FROM t",
		},
		{
			name:     "pivot",
			input:    "select * from t pivot (sum(v) for m in ([1],[2])) as p",
			expected: "SELECT * FROM t PIVOT (sum(v) FOR m IN ([1], [2])) AS p",
		},
		{
			name:     "cross apply",
			input:    "select * from t cross apply f(t.id) x",
			expected: "SELECT * FROM t CROSS APPLY f(t.id) AS x",
		},
		{
			name:     "table hints",
			input:    "select * from t with (nolock, index(ix_a))",
			expected: "SELECT * FROM t WITH (NOLOCK, INDEX(ix_a))",
		},
		{
			name:     "nested unary minus",
			input:    "select - -1",
			expected: "SELECT - -1",
		},
		{
			name:     "drop procedure",
			input:    "drop proc p",
			expected: "DROP PROCEDURE p",
		},
		{
			name:     "drop if exists",
			input:    "drop table if exists a, b",
			expected: "DROP TABLE IF EXISTS a, b",
		},
		{
			name:     "declare",
			input:    "declare @a int = 5, @b varchar(10)",
			expected: "DECLARE @a int = 5, @b varchar(10)",
		},
		{
			name:     "set option",
			input:    "set nocount on",
			expected: "SET NOCOUNT ON",
		},
		{
			name:     "set transaction isolation level",
			input:    "set transaction isolation level read committed",
			expected: "SET TRANSACTION ISOLATION LEVEL READ COMMITTED",
		},
		{
			name:     "exec with output argument",
			input:    "execute dbo.p @a=1, @b=@c output",
			expected: "EXEC dbo.p @a = 1, @b = @c OUTPUT",
		},
		{
			name:     "transactions",
			input:    "begin tran t1; commit",
			expected: "BEGIN TRAN t1;\nCOMMIT",
		},
		{
			name:     "raiserror",
			input:    "raiserror('bad', 16, 1) with nowait",
			expected: "RAISERROR ('bad', 16, 1) WITH NOWAIT",
		},
		{
			name:     "waitfor",
			input:    "waitfor delay '00:00:01'",
			expected: "WAITFOR DELAY '00:00:01'",
		},
		{
			name:     "if else",
			input:    "if @a=1 select 1 else select 2",
			expected: "IF @a = 1\n    SELECT 1\nELSE\n    SELECT 2",
		},
		{
			name:     "else if chain",
			input:    "if @a=1 print 'a' else if @a=2 print 'b'",
			expected: "IF @a = 1\n    PRINT 'a'\nELSE IF @a = 2\n    PRINT 'b'",
		},
		{
			name:     "block",
			input:    "begin select 1; select 2 end",
			expected: "BEGIN\n    SELECT 1;\n    SELECT 2\nEND",
		},
		{
			name:     "while with block",
			input:    "while @i<10 begin set @i+=1 end",
			expected: "WHILE @i < 10\nBEGIN\n    SET @i += 1\nEND",
		},
		{
			name:     "try catch",
			input:    "begin try select 1 end try begin catch select 2 end catch",
			expected: "BEGIN TRY\n    SELECT 1\nEND TRY\nBEGIN CATCH\n    SELECT 2\nEND CATCH",
		},
		{
			name:  "merge",
			input: "merge into t using s on t.id=s.id when matched then update set a=s.a when not matched then insert (id,a) values (s.id,s.a);",
			expected: "MERGE INTO t USING s ON t.id = s.id\n" +
				"WHEN MATCHED THEN UPDATE SET a = s.a\n" +
				"WHEN NOT MATCHED THEN INSERT (id, a) VALUES (s.id, s.a);",
		},
		{
			name:  "create table",
			input: "create table t (id int not null primary key, name varchar(50) null)",
			expected: "CREATE TABLE t (\n" +
				"    id int NOT NULL PRIMARY KEY,\n" +
				"    name varchar(50) NULL)",
		},
		{
			name:  "create table with table constraint",
			input: "create table t (a int identity(1,1), b int, constraint pk primary key clustered (a desc, b))",
			expected: "CREATE TABLE t (\n" +
				"    a int IDENTITY(1, 1),\n" +
				"    b int,\n" +
				"    CONSTRAINT pk PRIMARY KEY CLUSTERED (a DESC, b))",
		},
		{
			name:     "create view",
			input:    "create view v (a, b) as select a, b from t",
			expected: "CREATE VIEW v (a, b) AS SELECT a, b FROM t",
		},
		{
			name:  "create procedure",
			input: "create proc dbo.p @a int, @b int = 0 output as set nocount on; select @a",
			expected: "CREATE PROCEDURE dbo.p @a int, @b int = 0 OUTPUT AS\n" +
				"SET NOCOUNT ON;\n" +
				"SELECT @a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generate(t, tt.input, DefaultOptions()))
		})
	}
}

func TestGenerate_Scenarios(t *testing.T) {
	t.Run("uppercase with semicolons", func(t *testing.T) {
		opts := with(func(o *Options) { o.IncludeSemicolons = true })
		assert.Equal(t, "SELECT a, b FROM t WHERE x = 1;", generate(t, "select a,b from t where x=1", opts))
	})

	t.Run("multiline select list", func(t *testing.T) {
		opts := with(func(o *Options) {
			o.MultilineSelectElementsList = true
			o.IndentationSize = 2
		})
		assert.Equal(t, "SELECT\n  a,\n  b,\n  c\nFROM t", generate(t, "select a, b, c from t", opts))
	})

	t.Run("aligned set clause", func(t *testing.T) {
		opts := with(func(o *Options) { o.AlignSetClauseItem = true })
		out := generate(t, "update t set a=1, bb=2", opts)
		assert.Equal(t, "UPDATE t SET\n    a  = 1,\n    bb = 2", out)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, strings.Index(lines[1], "="), strings.Index(lines[2], "="))
	})
}

func TestGenerate_KeywordCasing(t *testing.T) {
	tests := []struct {
		name     string
		casing   KeywordCasing
		input    string
		expected string
	}{
		{"lowercase", CasingLowercase, "SELECT A FROM T WHERE B IS NULL", "select A from T where B is null"},
		{"pascal", CasingPascal, "select a from t group by a", "Select a From t Group By a"},
		{"none keeps first spelling", CasingNone, "Select a FROM t where x=1 and y=2 AND z=3", "Select a FROM t where x = 1 and y = 2 and z = 3"},
		{"none uppercases added keywords", CasingNone, "select a b from t", "select a AS b from t"},
		{"none applies to words", CasingNone, "set NoCount on", "set NoCount on"},
		{"identifiers and literals untouched", CasingUppercase, "select [Select], 'abc', MyFunc(x) from dbo.MyTable", "SELECT [Select], 'abc', MyFunc(x) FROM dbo.MyTable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := with(func(o *Options) { o.KeywordCasing = tt.casing })
			assert.Equal(t, tt.expected, generate(t, tt.input, opts))
		})
	}
}

func TestGenerate_Options(t *testing.T) {
	tests := []struct {
		name     string
		edit     func(o *Options)
		input    string
		expected string
	}{
		{
			name: "clause line breaks",
			edit: func(o *Options) {
				o.NewLineBeforeFromClause = true
				o.NewLineBeforeWhereClause = true
				o.NewLineBeforeGroupByClause = true
				o.NewLineBeforeHavingClause = true
				o.NewLineBeforeOrderByClause = true
			},
			input:    "select a, count(*) from t where x=1 group by a having count(*)>1 order by a",
			expected: "SELECT a, count(*)\nFROM t\nWHERE x = 1\nGROUP BY a\nHAVING count(*) > 1\nORDER BY a",
		},
		{
			name: "aligned clause bodies",
			edit: func(o *Options) {
				o.NewLineBeforeFromClause = true
				o.NewLineBeforeWhereClause = true
				o.NewLineBeforeGroupByClause = true
				o.NewLineBeforeHavingClause = true
				o.NewLineBeforeOrderByClause = true
				o.AlignClauseBodies = true
			},
			input: "select a, count(*) from t where x=1 group by a having count(*)>1 order by a",
			expected: "SELECT   a, count(*)\n" +
				"FROM     t\n" +
				"WHERE    x = 1\n" +
				"GROUP BY a\n" +
				"HAVING   count(*) > 1\n" +
				"ORDER BY a",
		},
		{
			name: "multiline subquery",
			edit: func(o *Options) {
				o.MultilineSelectElementsList = true
				o.NewLineBeforeFromClause = true
				o.IndentationSize = 2
			},
			input: "select a from t where a in (select a from u)",
			expected: `SELECT
  a
FROM t WHERE a IN (
  SELECT
    a
  FROM u)`,
		},
		{
			name: "aligned multiline subquery",
			edit: func(o *Options) {
				o.MultilineSelectElementsList = true
				o.NewLineBeforeFromClause = true
				o.AlignClauseBodies = true
				o.IndentationSize = 2
			},
			input: "select a from t where a in (select a from u)",
			expected: `SELECT
  a
FROM   t WHERE a IN (
  SELECT
    a
  FROM   u)`,
		},
		{
			name:     "single line subquery stays inline",
			edit:     func(o *Options) { o.NewLineBeforeJoinClause = true },
			input:    "select a from t where exists (select 1 from u)",
			expected: "SELECT a FROM t WHERE EXISTS (SELECT 1 FROM u)",
		},
		{
			name:     "join line breaks",
			edit:     func(o *Options) { o.NewLineBeforeJoinClause = true },
			input:    "select * from a join b on a.id=b.id left outer join c on c.id=b.id",
			expected: "SELECT * FROM a\nJOIN b ON a.id = b.id\nLEFT OUTER JOIN c ON c.id = b.id",
		},
		{
			name:     "output line break",
			edit:     func(o *Options) { o.NewLineBeforeOutputClause = true },
			input:    "delete from t output deleted.id where a=1",
			expected: "DELETE FROM t\nOUTPUT deleted.id WHERE a = 1",
		},
		{
			name:     "multiline where predicates",
			edit:     func(o *Options) { o.MultilineWherePredicatesList = true },
			input:    "select a from t where x=1 and y=2 or z=3 order by a",
			expected: "SELECT a FROM t WHERE\n    x = 1\n    AND y = 2\n    OR z = 3\nORDER BY a",
		},
		{
			name:     "single where predicate stays inline",
			edit:     func(o *Options) { o.MultilineWherePredicatesList = true },
			input:    "select a from t where x=1",
			expected: "SELECT a FROM t WHERE x = 1",
		},
		{
			name:     "multiline insert targets",
			edit:     func(o *Options) { o.MultilineInsertTargetsList = true },
			input:    "insert into t (a, b) values (1, 2)",
			expected: "INSERT INTO t (\n    a,\n    b)\nVALUES (1, 2)",
		},
		{
			name: "parentheses on their own lines",
			edit: func(o *Options) {
				o.MultilineInsertTargetsList = true
				o.NewLineBeforeOpenParenthesisInMultilineList = true
				o.NewLineBeforeCloseParenthesisInMultilineList = true
			},
			input:    "insert into t (a, b) values (1, 2)",
			expected: "INSERT INTO t\n(\n    a,\n    b\n)\nVALUES (1, 2)",
		},
		{
			name:     "parenthesis flags ignore inline lists",
			edit:     func(o *Options) { o.NewLineBeforeOpenParenthesisInMultilineList = true },
			input:    "insert into t (a, b) values (1, 2)",
			expected: "INSERT INTO t (a, b) VALUES (1, 2)",
		},
		{
			name:     "multiline insert sources",
			edit:     func(o *Options) { o.MultilineInsertSourcesList = true },
			input:    "insert into t values (1, 2), (3, 4)",
			expected: "INSERT INTO t VALUES\n    (\n        1,\n        2),\n    (\n        3,\n        4)",
		},
		{
			name:     "multiline set items",
			edit:     func(o *Options) { o.MultilineSetClauseItems = true },
			input:    "update t set a=1, bb=2 where c=3",
			expected: "UPDATE t SET\n    a = 1,\n    bb = 2\nWHERE c = 3",
		},
		{
			name:     "indented set clause",
			edit:     func(o *Options) { o.IndentSetClause = true },
			input:    "update t set a=1 where b=2",
			expected: "UPDATE t\n    SET a = 1\nWHERE b = 2",
		},
		{
			name:     "multiline view columns",
			edit:     func(o *Options) { o.MultilineViewColumnsList = true },
			input:    "create view v (a, b) as select a, b from t",
			expected: "CREATE VIEW v (\n    a,\n    b)\nAS SELECT a, b FROM t",
		},
		{
			name:     "as keyword on own line",
			edit:     func(o *Options) { o.AsKeywordOnOwnLine = true },
			input:    "create view v as select a from t",
			expected: "CREATE VIEW v\nAS\nSELECT a FROM t",
		},
		{
			name: "as keyword on own line with indented body",
			edit: func(o *Options) {
				o.AsKeywordOnOwnLine = true
				o.IndentViewBody = true
			},
			input:    "create view v as select a from t",
			expected: "CREATE VIEW v\nAS\n    SELECT a FROM t",
		},
		{
			name:     "indented view body",
			edit:     func(o *Options) { o.IndentViewBody = true },
			input:    "create view v as select a from t with check option",
			expected: "CREATE VIEW v AS\n    SELECT a FROM t WITH CHECK OPTION",
		},
		{
			name:  "aligned column definitions",
			edit:  func(o *Options) { o.AlignColumnDefinitionFields = true },
			input: "create table t (id int not null, name varchar(50))",
			expected: "CREATE TABLE t (\n" +
				"    id   int         NOT NULL,\n" +
				"    name varchar(50))",
		},
		{
			name: "closing parenthesis of column definitions",
			edit: func(o *Options) {
				o.NewLineBeforeCloseParenthesisInMultilineList = true
				o.IndentationSize = 2
			},
			input:    "create table t (id int)",
			expected: "CREATE TABLE t (\n  id int\n)",
		},
		{
			name:     "zero indentation",
			edit:     func(o *Options) { o.IndentationSize = 0 },
			input:    "if 1=1 select 1",
			expected: "IF 1 = 1\nSELECT 1",
		},
		{
			name:     "negative indentation counts as zero",
			edit:     func(o *Options) { o.IndentationSize = -3 },
			input:    "if 1=1 select 1",
			expected: "IF 1 = 1\nSELECT 1",
		},
		{
			name:     "semicolons skip IF itself",
			edit:     func(o *Options) { o.IncludeSemicolons = true },
			input:    "if 1=1 select 1 else begin print 'x' end",
			expected: "IF 1 = 1\n    SELECT 1;\nELSE\nBEGIN\n    PRINT 'x';\nEND;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generate(t, tt.input, with(tt.edit)))
		})
	}
}

func TestGenerate_BatchesAndComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "batch separators",
			input:    "select 1\ngo 2\nselect 2\nGO",
			expected: "SELECT 1\nGO 2\nSELECT 2\nGO",
		},
		{
			name:     "separator counts keep their digits",
			input:    "select 1\ngo 0\nselect 2\ngo 99999999999999999999\nselect 3\ngo 007",
			expected: "SELECT 1\nGO 0\nSELECT 2\nGO 99999999999999999999\nSELECT 3\nGO 007",
		},
		{
			name:     "comments are hoisted before their statement",
			input:    "-- lead\nselect a /* inner */ from t\nselect 2 -- tail",
			expected: "-- lead\n/* inner */\nSELECT a FROM t\nSELECT 2\n-- tail",
		},
		{
			name:     "comment before separator",
			input:    "select 1 -- one\ngo\nselect 2",
			expected: "SELECT 1\n-- one\nGO\nSELECT 2",
		},
		{
			name:     "comments only",
			input:    "/* nothing */",
			expected: "/* nothing */",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generate(t, tt.input, DefaultOptions()))
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	inputs := []string{
		"select a,b from t where x=1 and y=2 or z=3 order by a",
		"with c as (select a from t) select * from c join d on c.a=d.a",
		"select a from (select a, b from t) as d where a in (select a from u)",
		"insert into t (a, b) values (1, 2), (3, 4)",
		"insert into t (a) select a from u",
		"update t set a=1, bb=2 output inserted.a from t join u on t.id=u.id where c=3",
		"merge into t using s on t.id=s.id when matched and s.x>1 then update set a=s.a when not matched by source then delete;",
		"create table t (id int not null constraint pk primary key, name varchar(50) default '', total as qty*price)",
		"create view v (a, b) with schemabinding as select a, b from dbo.t with check option",
		"-- c1\nselect 1 -- c2\ngo\nif @a=1 begin select 1; end else select 2",
		"Select a FROM t WHERE x = 1 group by a",
	}
	optionSets := map[string]Options{
		"default": DefaultOptions(),
		"everything": with(func(o *Options) {
			o.IncludeSemicolons = true
			o.MultilineSelectElementsList = true
			o.MultilineInsertTargetsList = true
			o.MultilineInsertSourcesList = true
			o.MultilineViewColumnsList = true
			o.MultilineWherePredicatesList = true
			o.NewLineBeforeFromClause = true
			o.NewLineBeforeWhereClause = true
			o.NewLineBeforeGroupByClause = true
			o.NewLineBeforeJoinClause = true
			o.NewLineBeforeOrderByClause = true
			o.NewLineBeforeOutputClause = true
			o.NewLineBeforeOpenParenthesisInMultilineList = true
			o.NewLineBeforeCloseParenthesisInMultilineList = true
			o.AlignClauseBodies = true
			o.AlignColumnDefinitionFields = true
			o.AlignSetClauseItem = true
			o.IndentSetClause = true
			o.IndentViewBody = true
			o.AsKeywordOnOwnLine = true
		}),
		"lowercase": with(func(o *Options) { o.KeywordCasing = CasingLowercase }),
		"none":      with(func(o *Options) { o.KeywordCasing = CasingNone }),
	}

	for name, opts := range optionSets {
		for _, input := range inputs {
			t.Run(name, func(t *testing.T) {
				once := generate(t, input, opts)
				twice := generate(t, once, opts)
				assert.Equal(t, once, twice, "input %q", input)
				assert.Equal(t, once, generate(t, input, opts), "not deterministic")
			})
		}
	}
}
