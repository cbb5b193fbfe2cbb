// Package sql80 provides the base T-SQL dialect (SQL Server 2000).
//
// This dialect serves as the foundation for the later versions, which extend
// it with additional keywords and grammar features.
package sql80

import (
	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

func init() {
	dialect.Register(Sql80)
}

// Sql80 is the base T-SQL dialect.
var Sql80 = dialect.NewDialect("sql80").
	Version(dialect.V1).
	Keywords(
		token.ADD, token.ALL, token.ALTER, token.AND, token.ANY, token.AS,
		token.ASC, token.BEGIN, token.BETWEEN, token.BREAK, token.BY,
		token.CASE, token.CAST, token.CHECK, token.COLLATE, token.COLUMN,
		token.COMMIT, token.CONSTRAINT, token.CONTINUE, token.CONVERT,
		token.CREATE, token.CROSS, token.DECLARE, token.DEFAULT, token.DELETE,
		token.DESC, token.DISTINCT, token.DROP, token.ELSE, token.END,
		token.ESCAPE, token.EXEC, token.EXECUTE, token.EXISTS, token.FOR,
		token.FOREIGN, token.FROM, token.FULL, token.FUNCTION, token.GROUP,
		token.HAVING, token.IDENTITY, token.IF, token.IN, token.INNER,
		token.INSERT, token.INTO, token.IS, token.JOIN, token.KEY, token.LEFT,
		token.LIKE, token.NOT, token.NULL, token.OF, token.OFF, token.ON,
		token.OPTION, token.OR, token.ORDER, token.OUTER, token.PRIMARY,
		token.PRINT, token.PROC, token.PROCEDURE, token.RAISERROR,
		token.REFERENCES, token.RETURN, token.RIGHT, token.ROLLBACK,
		token.SAVE, token.SELECT, token.SET, token.TABLE, token.THEN,
		token.TOP, token.TRAN, token.TRANSACTION, token.TRUNCATE, token.UNION,
		token.UNIQUE, token.UPDATE, token.USE, token.VALUES, token.VIEW,
		token.WAITFOR, token.WHEN, token.WHERE, token.WHILE, token.WITH,
	).
	AddInfix(token.OR, dialect.PrecedenceOr).
	AddInfix(token.AND, dialect.PrecedenceAnd).
	AddInfix(token.EQ, dialect.PrecedenceComparison).
	AddInfix(token.NE, dialect.PrecedenceComparison).
	AddInfix(token.LT, dialect.PrecedenceComparison).
	AddInfix(token.GT, dialect.PrecedenceComparison).
	AddInfix(token.LE, dialect.PrecedenceComparison).
	AddInfix(token.GE, dialect.PrecedenceComparison).
	AddInfix(token.NLT, dialect.PrecedenceComparison).
	AddInfix(token.NGT, dialect.PrecedenceComparison).
	AddInfix(token.LIKE, dialect.PrecedenceComparison).
	AddInfix(token.IN, dialect.PrecedenceComparison).
	AddInfix(token.BETWEEN, dialect.PrecedenceComparison).
	AddInfix(token.IS, dialect.PrecedenceComparison).
	AddInfix(token.NOT, dialect.PrecedenceComparison). // NOT LIKE / NOT IN / NOT BETWEEN
	AddInfix(token.PLUS, dialect.PrecedenceAddition).
	AddInfix(token.MINUS, dialect.PrecedenceAddition).
	AddInfix(token.AMP, dialect.PrecedenceAddition).
	AddInfix(token.PIPE, dialect.PrecedenceAddition).
	AddInfix(token.CARET, dialect.PrecedenceAddition).
	AddInfix(token.STAR, dialect.PrecedenceMultiply).
	AddInfix(token.SLASH, dialect.PrecedenceMultiply).
	AddInfix(token.PERCENT, dialect.PrecedenceMultiply).
	WithDataTypes(
		"bigint", "binary", "bit", "char", "cursor", "datetime", "decimal",
		"float", "image", "int", "money", "nchar", "ntext", "numeric",
		"nvarchar", "real", "smalldatetime", "smallint", "smallmoney",
		"sql_variant", "text", "timestamp", "tinyint", "uniqueidentifier",
		"varbinary", "varchar",
	).
	Build()
