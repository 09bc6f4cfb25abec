package ast

import "github.com/funvibe/vfsc/internal/typesystem"

// VarDecl declares a local variable. Type is nil when the declaration is
// unannotated (the declared type is then inferred from Init, which must be
// present). Init is nil for a declaration with no initializer.
type VarDecl struct {
	Name string
	Type typesystem.Type
	Init Expression
	// ArraySize is the element-count expression for an array-typed
	// declaration (Type.IsArray() == true); nil otherwise.
	ArraySize Expression
}

func (*VarDecl) node()          {}
func (*VarDecl) statementNode() {}

// Assignment stores the value of Expr into the slot named Variable.
type Assignment struct {
	Variable string
	Expr     Expression
}

func (*Assignment) node()          {}
func (*Assignment) statementNode() {}

// ArrayAssignment stores Expr at Variable[Index].
type ArrayAssignment struct {
	Variable string
	Index    Expression
	Expr     Expression
}

func (*ArrayAssignment) node()          {}
func (*ArrayAssignment) statementNode() {}

// StructAssignment stores Expr into Variable.Member.
type StructAssignment struct {
	Variable string
	Member   string
	Expr     Expression
}

func (*StructAssignment) node()          {}
func (*StructAssignment) statementNode() {}

// Return exits the enclosing function. Expr is nil for a bare "return".
type Return struct {
	Expr Expression
}

func (*Return) node()          {}
func (*Return) statementNode() {}

// If is conditional control flow. Else is nil when there is no else-arm.
type If struct {
	Cond Expression
	Then *Block
	Else *Block
}

func (*If) node()          {}
func (*If) statementNode() {}

// For is a C-style counting loop: Var is declared and bound to Init, Cond
// is tested before every iteration (including the zeroth), and Incr is the
// amount added to Var after each iteration (nil means the default, +1).
type For struct {
	Var  string
	Init Expression
	Cond Expression
	Incr Expression
	Body *Block
}

func (*For) node()          {}
func (*For) statementNode() {}

// Print evaluates Expr and writes it, newline-terminated, to the program's
// standard output via the Print.format intrinsic.
type Print struct {
	Expr Expression
}

func (*Print) node()          {}
func (*Print) statementNode() {}

// ExpressionStatement evaluates Expr and discards the result.
type ExpressionStatement struct {
	Expr Expression
}

func (*ExpressionStatement) node()          {}
func (*ExpressionStatement) statementNode() {}
