package core

import "strings"

// Visitor is called for each node during Walk. If Visit returns nil the
// children of the node are skipped; otherwise the returned visitor is used
// for them.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node Node) {
	if node == nil {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
}

// Inspect traverses an AST depth-first and calls fn for each node with the
// path of its ancestors, root first. If fn returns false the children of the
// node are skipped. The path slice is reused between calls; copy it to keep it.
func Inspect(node Node, fn func(n Node, path []Node) bool) {
	var path []Node
	var visit func(n Node)
	visit = func(n Node) {
		if !fn(n, path) {
			return
		}
		path = append(path, n)
		for _, c := range Children(n) {
			visit(c)
		}
		path = path[:len(path)-1]
	}
	if node != nil {
		visit(node)
	}
}

// TableNames returns the distinct names referenced as table sources under
// root, in source order. Names differing only in case are the same table.
func TableNames(root Node) []string {
	seen := make(map[string]bool)
	var names []string
	Inspect(root, func(n Node, _ []Node) bool {
		ref, ok := n.(*TableRef)
		if !ok || ref.Name == nil {
			return true
		}
		name := ref.Name.String()
		if key := strings.ToLower(name); !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
		return true
	})
	return names
}

// Parent returns the parent of target within root, or nil.
func Parent(root, target Node) Node {
	var parent Node
	Inspect(root, func(n Node, path []Node) bool {
		if parent != nil {
			return false
		}
		if n == target && len(path) > 0 {
			parent = path[len(path)-1]
			return false
		}
		return true
	})
	return parent
}

// Children returns the direct children of a node in source order.
//
//nolint:gocyclo // one case per node type
func Children(node Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, n := range ns {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	exprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	stmts := func(ss []Stmt) {
		for _, s := range ss {
			add(s)
		}
	}

	switch n := node.(type) {
	case *Script:
		for _, b := range n.Batches {
			add(b)
		}
	case *Batch:
		stmts(n.Stmts)
		if n.Go != nil {
			add(n.Go)
		}
	case *GoSeparator, *ObjectName, *DataType:

	// queries
	case *SelectStmt:
		if n.With != nil {
			add(n.With)
		}
		add(n.Body)
		if n.OrderBy != nil {
			add(n.OrderBy)
		}
	case *WithClause:
		for _, c := range n.CTEs {
			add(c)
		}
	case *CTE:
		if n.Query != nil {
			add(n.Query)
		}
	case *QuerySpec:
		if n.Top != nil {
			add(n.Top)
		}
		for _, it := range n.Items {
			add(it)
		}
		if n.Into != nil {
			add(n.Into)
		}
		if n.From != nil {
			add(n.From)
		}
		if n.Where != nil {
			add(n.Where)
		}
		if n.GroupBy != nil {
			add(n.GroupBy)
		}
		if n.Having != nil {
			add(n.Having)
		}
	case *SetOpExpr:
		add(n.Left, n.Right)
	case *ParenQuery:
		if n.Query != nil {
			add(n.Query)
		}
	case *SelectItem:
		add(n.Expr)
	case *TopClause:
		add(n.Count)
	case *FromClause:
		for _, s := range n.Sources {
			add(s)
		}
	case *WhereClause:
		add(n.Cond)
	case *GroupByClause:
		exprs(n.Items)
	case *HavingClause:
		add(n.Cond)
	case *OrderByClause:
		for _, it := range n.Items {
			add(it)
		}
	case *OrderItem:
		add(n.Expr)
	case *OutputClause:
		for _, it := range n.Items {
			add(it)
		}
		if n.Into != nil {
			add(n.Into)
		}

	// table sources
	case *TableRef:
		if n.Name != nil {
			add(n.Name)
		}
	case *DerivedTable:
		if n.Query != nil {
			add(n.Query)
		}
	case *TableFuncRef:
		if n.Call != nil {
			add(n.Call)
		}
	case *ParenTable:
		add(n.Source)
	case *JoinExpr:
		add(n.Left, n.Right, n.On)
	case *PivotTable:
		add(n.Source)
		if n.Aggregate != nil {
			add(n.Aggregate)
		}
		if n.For != nil {
			add(n.For)
		}

	// DML
	case *InsertStmt:
		if n.With != nil {
			add(n.With)
		}
		if n.Top != nil {
			add(n.Top)
		}
		if n.Target != nil {
			add(n.Target)
		}
		if n.Output != nil {
			add(n.Output)
		}
		add(n.Source)
	case *ValuesSource:
		for _, r := range n.Rows {
			add(r)
		}
	case *ValuesRow:
		exprs(n.Values)
	case *SelectSource:
		if n.Query != nil {
			add(n.Query)
		}
	case *ExecSource:
		if n.Exec != nil {
			add(n.Exec)
		}
	case *DefaultValuesSource:
	case *UpdateStmt:
		if n.With != nil {
			add(n.With)
		}
		if n.Top != nil {
			add(n.Top)
		}
		if n.Target != nil {
			add(n.Target)
		}
		if n.Set != nil {
			add(n.Set)
		}
		if n.Output != nil {
			add(n.Output)
		}
		if n.From != nil {
			add(n.From)
		}
		if n.Where != nil {
			add(n.Where)
		}
	case *SetClause:
		for _, it := range n.Items {
			add(it)
		}
	case *SetItem:
		add(n.Target, n.Value)
	case *DeleteStmt:
		if n.With != nil {
			add(n.With)
		}
		if n.Top != nil {
			add(n.Top)
		}
		if n.Target != nil {
			add(n.Target)
		}
		if n.Output != nil {
			add(n.Output)
		}
		if n.From != nil {
			add(n.From)
		}
		if n.Where != nil {
			add(n.Where)
		}
	case *MergeStmt:
		if n.With != nil {
			add(n.With)
		}
		if n.Top != nil {
			add(n.Top)
		}
		if n.Target != nil {
			add(n.Target)
		}
		add(n.Using, n.On)
		for _, c := range n.Clauses {
			add(c)
		}
		if n.Output != nil {
			add(n.Output)
		}
	case *MergeClause:
		add(n.Cond)
		if n.Set != nil {
			add(n.Set)
		}
		if n.Values != nil {
			add(n.Values)
		}

	// DDL
	case *CreateTableStmt:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Table != nil {
			add(n.Table)
		}
	case *TableDefinition:
		for _, c := range n.Columns {
			add(c)
		}
		for _, c := range n.Constraints {
			add(c)
		}
	case *ColumnDef:
		if n.Type != nil {
			add(n.Type)
		}
		add(n.Computed)
		for _, c := range n.Constraints {
			add(c)
		}
	case *ColumnConstraint:
		add(n.Expr)
		if n.Ref != nil {
			add(n.Ref)
		}
	case *TableConstraint:
		for _, c := range n.Columns {
			add(c)
		}
		add(n.Check)
		if n.Ref != nil {
			add(n.Ref)
		}
	case *ForeignRef:
		if n.Table != nil {
			add(n.Table)
		}
	case *CreateViewStmt:
		if n.Name != nil {
			add(n.Name)
		}
		if n.Query != nil {
			add(n.Query)
		}
	case *DropStmt:
		for _, name := range n.Names {
			add(name)
		}
	case *TruncateStmt:
		if n.Name != nil {
			add(n.Name)
		}
	case *CreateProcedureStmt:
		if n.Name != nil {
			add(n.Name)
		}
		for _, prm := range n.Params {
			add(prm)
		}
		stmts(n.Body)
	case *ProcParam:
		if n.Type != nil {
			add(n.Type)
		}
		add(n.Default)

	// procedural
	case *DeclareStmt:
		for _, v := range n.Vars {
			add(v)
		}
	case *DeclareVar:
		if n.Type != nil {
			add(n.Type)
		}
		if n.Table != nil {
			add(n.Table)
		}
		add(n.Init)
	case *SetVariableStmt:
		add(n.Value)
	case *SetOptionStmt:
		add(n.Value)
	case *PrintStmt:
		add(n.Expr)
	case *UseStmt, *BreakStmt, *ContinueStmt, *TransactionStmt:
	case *BlockStmt:
		stmts(n.Stmts)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *ReturnStmt:
		add(n.Value)
	case *TryCatchStmt:
		stmts(n.Try)
		stmts(n.Catch)
	case *ExecStmt:
		if n.Proc != nil {
			add(n.Proc)
		}
		exprs(n.Dynamic)
		for _, a := range n.Args {
			add(a)
		}
	case *ExecArg:
		add(n.Value)
	case *RaiseErrorStmt:
		exprs(n.Args)
	case *WaitForStmt:
		add(n.Value)

	// expressions
	case *ColumnRef, *StarExpr, *Literal, *VariableRef:
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *UnaryExpr:
		add(n.X)
	case *ParenExpr:
		add(n.X)
	case *FuncCall:
		if n.Name != nil {
			add(n.Name)
		}
		exprs(n.Args)
		if n.Over != nil {
			add(n.Over)
		}
	case *OverClause:
		exprs(n.PartitionBy)
		if n.OrderBy != nil {
			add(n.OrderBy)
		}
	case *CaseExpr:
		add(n.Operand)
		for _, w := range n.Whens {
			add(w)
		}
		add(n.Else)
	case *WhenClause:
		add(n.Cond, n.Result)
	case *CastExpr:
		add(n.X)
		if n.Type != nil {
			add(n.Type)
		}
	case *ConvertExpr:
		if n.Type != nil {
			add(n.Type)
		}
		add(n.X, n.Style)
	case *CollateExpr:
		add(n.X)
	case *SubqueryExpr:
		if n.Query != nil {
			add(n.Query)
		}
	case *ExistsExpr:
		if n.Query != nil {
			add(n.Query)
		}
	case *InExpr:
		add(n.X)
		exprs(n.List)
		if n.Query != nil {
			add(n.Query)
		}
	case *BetweenExpr:
		add(n.X, n.Low, n.High)
	case *LikeExpr:
		add(n.X, n.Pattern, n.Escape)
	case *IsNullExpr:
		add(n.X)
	}
	return out
}
