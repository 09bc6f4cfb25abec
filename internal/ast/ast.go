// Package ast defines the tagged-variant syntax tree the lowering visitor
// consumes: two node categories, Statement and Expression, plus the
// top-level Function/Struct/Parameter/Block declarations.
//
// Nodes are plain structs implementing a sealed marker interface; dispatch
// over a node's concrete variant is done with a type switch in the lowering
// package rather than a double-dispatch Visitor, per the tree-shape in
// spec.md's design notes.
package ast

import "github.com/funvibe/vfsc/internal/typesystem"

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself being a value.
type Statement interface {
	Node
	statementNode()
}

// --- Top level ---

// Program is the parser's output: an ordered list of struct declarations
// and an ordered list of function declarations.
type Program struct {
	Structs   []*Struct
	Functions []*Function
}

// Parameter is a single named, typed function formal.
type Parameter struct {
	Name string
	Type typesystem.Type
}

func (*Parameter) node() {}

// Function is a top-level function declaration. Version is empty for the
// unversioned (base) definition of a name.
type Function struct {
	Name       string
	Version    string
	Parameters []*Parameter
	ReturnType typesystem.Type
	Body       *Block
}

func (*Function) node() {}

// VirtualName returns the mangled symbol this function lowers to: Name
// when Version is empty, "Name.Version" otherwise, except that the
// reserved name "Main" always mangles to "main" regardless of version.
func (f *Function) VirtualName() string {
	if f.Name == "Main" {
		return "main"
	}
	if f.Version == "" {
		return f.Name
	}
	return f.Name + "." + f.Version
}

// Struct is a top-level aggregate type declaration.
type Struct struct {
	Name    string
	Members []*Parameter
}

func (*Struct) node() {}

// Block is an ordered sequence of statements sharing one scope boundary
// (only function entry and if/for bodies introduce scopes - see scope.go).
type Block struct {
	Statements []Statement
}

func (*Block) node() {}
