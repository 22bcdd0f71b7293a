// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ast defines the AST contract the compiler consumes. The
// lexer/parser that produces these nodes is an external collaborator and is
// not implemented here; this package only fixes the shape its output must
// take so pkg/compiler has something concrete to walk.
package ast

import "github.com/kraklabs/angelgo/pkg/span"

// Unit is one compilation scope: a bundle of source sections compiled
// together against one registry.
type Unit struct {
	Name  string
	Items []Item
}

// Item is a top-level declaration: a class, interface, enum, funcdef,
// global function, or global variable.
type Item interface {
	itemNode()
	Span() span.Span
}

// ClassDecl declares a class type.
type ClassDecl struct {
	SourceSpan  span.Span
	Namespace   []string
	Name        string
	Base        *TypeExpr // nil if no explicit base
	Interfaces  []TypeExpr
	TypeParams  []string // template parameters, empty for non-templates
	IsAbstract  bool
	IsFinal     bool
	Fields      []FieldDecl
	Methods     []FuncDecl
	Behaviors   []BehaviorDecl
}

func (*ClassDecl) itemNode()          {}
func (d *ClassDecl) Span() span.Span  { return d.SourceSpan }

// InterfaceDecl declares an interface type: a bag of abstract method
// signatures.
type InterfaceDecl struct {
	SourceSpan span.Span
	Namespace  []string
	Name       string
	Methods    []FuncDecl
}

func (*InterfaceDecl) itemNode()         {}
func (d *InterfaceDecl) Span() span.Span { return d.SourceSpan }

// EnumDecl declares an enum type: an ordered list of (name, value) pairs.
// Value is nil when the value is implicit (previous + 1, or 0 for the
// first member) and must be filled in by constant evaluation.
type EnumDecl struct {
	SourceSpan span.Span
	Namespace  []string
	Name       string
	Values     []EnumValue
}

func (*EnumDecl) itemNode()         {}
func (d *EnumDecl) Span() span.Span { return d.SourceSpan }

// EnumValue is one member of an EnumDecl.
type EnumValue struct {
	Name       string
	Value      Expr // nil if implicit
	SourceSpan span.Span
}

// FuncdefDecl declares a named function-signature type used for callbacks.
type FuncdefDecl struct {
	SourceSpan span.Span
	Namespace  []string
	Name       string
	Params     []ParamDecl
	ReturnType TypeExpr
	// Parent is set for child funcdefs declared on a template (e.g.
	// array<T>::SortCallback); empty string otherwise.
	Parent string
}

func (*FuncdefDecl) itemNode()         {}
func (d *FuncdefDecl) Span() span.Span { return d.SourceSpan }

// GlobalFuncDecl declares a free function at namespace scope.
type GlobalFuncDecl struct {
	SourceSpan span.Span
	Namespace  []string
	Func       FuncDecl
}

func (*GlobalFuncDecl) itemNode()         {}
func (d *GlobalFuncDecl) Span() span.Span { return d.SourceSpan }

// GlobalVarDecl declares a global variable with an optional initializer.
type GlobalVarDecl struct {
	SourceSpan  span.Span
	Namespace   []string
	Name        string
	Type        TypeExpr
	Initializer Expr // nil if uninitialized
}

func (*GlobalVarDecl) itemNode()         {}
func (d *GlobalVarDecl) Span() span.Span { return d.SourceSpan }

// FieldDecl declares a class field.
type FieldDecl struct {
	SourceSpan span.Span
	Name       string
	Type       TypeExpr
	Visibility string // "public" | "protected" | "private"; resolved by pkg/visibility at type-compile time
}

// ParamDecl declares one function parameter.
type ParamDecl struct {
	Name       string
	Type       TypeExpr
	Default    Expr // nil if no default
	SourceSpan span.Span
}

// FuncDecl declares a function or method signature plus (for non-abstract,
// non-external functions) its body.
type FuncDecl struct {
	SourceSpan span.Span
	Name       string
	Params     []ParamDecl
	ReturnType TypeExpr
	Body       []Stmt // nil for abstract/interface methods
	IsAbstract bool
	IsVirtual  bool
	IsOverride bool
	IsStatic   bool
	IsShared   bool
	Visibility string
}

// BehaviorKind enumerates the registrable lifecycle/operator hooks a class
// may declare, per spec.md section 6.
type BehaviorKind string

const (
	BehaviorConstruct        BehaviorKind = "Construct"
	BehaviorDestruct         BehaviorKind = "Destruct"
	BehaviorFactory          BehaviorKind = "Factory"
	BehaviorListFactory      BehaviorKind = "ListFactory"
	BehaviorAddRef           BehaviorKind = "AddRef"
	BehaviorRelease          BehaviorKind = "Release"
	BehaviorGetWeakRefFlag   BehaviorKind = "GetWeakRefFlag"
	BehaviorTemplateCallback BehaviorKind = "TemplateCallback"
	BehaviorGetRefCount      BehaviorKind = "GetRefCount"
	BehaviorSetGCFlag        BehaviorKind = "SetGCFlag"
	BehaviorGetGCFlag        BehaviorKind = "GetGCFlag"
	BehaviorEnumRefs         BehaviorKind = "EnumRefs"
	BehaviorReleaseRefs      BehaviorKind = "ReleaseRefs"

	OpAdd       BehaviorKind = "opAdd"
	OpEquals    BehaviorKind = "opEquals"
	OpCmp       BehaviorKind = "opCmp"
	OpAssign    BehaviorKind = "opAssign"
	OpAddAssign BehaviorKind = "opAddAssign"
	OpCall      BehaviorKind = "opCall"
	OpIndex     BehaviorKind = "opIndex"
	OpImplConv  BehaviorKind = "opImplConv"
	OpConv      BehaviorKind = "opConv"
	OpCast      BehaviorKind = "opCast"
	OpNeg       BehaviorKind = "opNeg"
	OpCom       BehaviorKind = "opCom"
	OpPreInc    BehaviorKind = "opPreInc"
	OpPreDec    BehaviorKind = "opPreDec"
)

// BehaviorDecl attaches a lifecycle or operator hook to its implementing
// method.
type BehaviorDecl struct {
	Kind       BehaviorKind
	Func       FuncDecl
	SourceSpan span.Span
}

// TypeExpr is the unresolved, syntactic spelling of a type reference as the
// parser would emit it; pkg/compiler's pass 2a resolves it to a
// pkg/datatype.DataType via the registry.
type TypeExpr struct {
	// Name is the (possibly namespace-qualified) type name, e.g. "Player" or
	// "ns::Player". Empty for Void.
	Name string
	// TemplateArgs holds template argument TypeExprs, e.g. ["int"] for
	// array<int>. Nil for non-template types.
	TemplateArgs []TypeExpr
	IsConst      bool
	IsHandle     bool
	IsArray      bool // "[]" sugar, desugars to array<Name> during resolution
	RefModifier  string // "", "in", "out", "inout"
	SourceSpan   span.Span
}

// Expr is any expression node.
type Expr interface {
	exprNode()
	Span() span.Span
}

// IntLiteral is an integer literal (default type int32 unless suffixed).
type IntLiteral struct {
	SourceSpan span.Span
	Value      int64
	IsUnsigned bool
}

func (*IntLiteral) exprNode()         {}
func (e *IntLiteral) Span() span.Span { return e.SourceSpan }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	SourceSpan span.Span
	Value      float64
	IsSingle   bool // true for a `f`-suffixed float literal, false for double
}

func (*FloatLiteral) exprNode()         {}
func (e *FloatLiteral) Span() span.Span { return e.SourceSpan }

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	SourceSpan span.Span
	Value      bool
}

func (*BoolLiteral) exprNode()         {}
func (e *BoolLiteral) Span() span.Span { return e.SourceSpan }

// StringLiteral is a string literal; its raw bytes are handed to the
// installed StringFactory at compile time.
type StringLiteral struct {
	SourceSpan span.Span
	Value      []byte
}

func (*StringLiteral) exprNode()         {}
func (e *StringLiteral) Span() span.Span { return e.SourceSpan }

// NullLiteral is the `null` literal.
type NullLiteral struct {
	SourceSpan span.Span
}

func (*NullLiteral) exprNode()         {}
func (e *NullLiteral) Span() span.Span { return e.SourceSpan }

// NameExpr references an identifier, resolved (by the compiler) via local
// scope, then the enclosing class, then the registry.
type NameExpr struct {
	SourceSpan span.Span
	Name       string
}

func (*NameExpr) exprNode()         {}
func (e *NameExpr) Span() span.Span { return e.SourceSpan }

// MemberExpr is `receiver.name` — a field, property, or method access.
type MemberExpr struct {
	SourceSpan span.Span
	Receiver   Expr
	Name       string
}

func (*MemberExpr) exprNode()         {}
func (e *MemberExpr) Span() span.Span { return e.SourceSpan }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	SourceSpan span.Span
	Callee     Expr
	Args       []Expr
}

func (*CallExpr) exprNode()         {}
func (e *CallExpr) Span() span.Span { return e.SourceSpan }

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	SourceSpan span.Span
	Op         string
	Left       Expr
	Right      Expr
}

func (*BinaryExpr) exprNode()         {}
func (e *BinaryExpr) Span() span.Span { return e.SourceSpan }

// UnaryExpr is a unary (prefix) operator application.
type UnaryExpr struct {
	SourceSpan span.Span
	Op         string
	Operand    Expr
}

func (*UnaryExpr) exprNode()         {}
func (e *UnaryExpr) Span() span.Span { return e.SourceSpan }

// HandleOfExpr is `@expr` — taking a handle to an lvalue's referenced
// object.
type HandleOfExpr struct {
	SourceSpan span.Span
	Operand    Expr
}

func (*HandleOfExpr) exprNode()         {}
func (e *HandleOfExpr) Span() span.Span { return e.SourceSpan }

// CastExpr is `cast<T>(expr)`, always explicit.
type CastExpr struct {
	SourceSpan span.Span
	Target     TypeExpr
	Operand    Expr
}

func (*CastExpr) exprNode()         {}
func (e *CastExpr) Span() span.Span { return e.SourceSpan }

// ConstructExpr is `T(expr)` — implicit construction where T is a
// constructable class.
type ConstructExpr struct {
	SourceSpan span.Span
	Target     TypeExpr
	Args       []Expr
}

func (*ConstructExpr) exprNode()         {}
func (e *ConstructExpr) Span() span.Span { return e.SourceSpan }

// IndexExpr is `receiver[index]`, resolved via opIndex.
type IndexExpr struct {
	SourceSpan span.Span
	Receiver   Expr
	Index      Expr
}

func (*IndexExpr) exprNode()         {}
func (e *IndexExpr) Span() span.Span { return e.SourceSpan }

// LambdaExpr is an anonymous function capturing its enclosing scope by
// reference.
type LambdaExpr struct {
	SourceSpan span.Span
	Params     []ParamDecl
	Body       []Stmt
}

func (*LambdaExpr) exprNode()         {}
func (e *LambdaExpr) Span() span.Span { return e.SourceSpan }

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
	Span() span.Span
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	SourceSpan span.Span
	Expr       Expr
}

func (*ExprStmt) stmtNode()         {}
func (s *ExprStmt) Span() span.Span { return s.SourceSpan }

// VarDeclStmt declares a local variable, optionally shadowing an outer one.
type VarDeclStmt struct {
	SourceSpan  span.Span
	Name        string
	Type        TypeExpr
	Initializer Expr // nil if uninitialized
}

func (*VarDeclStmt) stmtNode()         {}
func (s *VarDeclStmt) Span() span.Span { return s.SourceSpan }

// AssignStmt is `target = value` (or a compound-assignment operator).
type AssignStmt struct {
	SourceSpan span.Span
	Op         string // "=", "+=", ...
	Target     Expr
	Value      Expr
}

func (*AssignStmt) stmtNode()         {}
func (s *AssignStmt) Span() span.Span { return s.SourceSpan }

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	SourceSpan span.Span
	Value      Expr // nil for a void return
}

func (*ReturnStmt) stmtNode()         {}
func (s *ReturnStmt) Span() span.Span { return s.SourceSpan }

// BlockStmt introduces a nested LocalScope.
type BlockStmt struct {
	SourceSpan span.Span
	Stmts      []Stmt
}

func (*BlockStmt) stmtNode()         {}
func (s *BlockStmt) Span() span.Span { return s.SourceSpan }

// IfStmt is `if (cond) then [else else_]`.
type IfStmt struct {
	SourceSpan span.Span
	Cond       Expr
	Then       Stmt
	Else       Stmt // nil if no else clause
}

func (*IfStmt) stmtNode()         {}
func (s *IfStmt) Span() span.Span { return s.SourceSpan }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	SourceSpan span.Span
	Cond       Expr
	Body       Stmt
}

func (*WhileStmt) stmtNode()         {}
func (s *WhileStmt) Span() span.Span { return s.SourceSpan }

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	SourceSpan span.Span
	Body       Stmt
	Cond       Expr
}

func (*DoWhileStmt) stmtNode()         {}
func (s *DoWhileStmt) Span() span.Span { return s.SourceSpan }

// ForStmt is a C-style for loop.
type ForStmt struct {
	SourceSpan span.Span
	Init       Stmt // nil, ExprStmt, or VarDeclStmt
	Cond       Expr // nil means always-true
	Post       Expr // nil means no post-expression
	Body       Stmt
}

func (*ForStmt) stmtNode()         {}
func (s *ForStmt) Span() span.Span { return s.SourceSpan }

// SwitchStmt dispatches on a scrutinee's value.
type SwitchStmt struct {
	SourceSpan span.Span
	Scrutinee  Expr
	Cases      []SwitchCase
}

func (*SwitchStmt) stmtNode()         {}
func (s *SwitchStmt) Span() span.Span { return s.SourceSpan }

// SwitchCase is one `case label: stmts` or `default: stmts` arm. Label is
// nil for the default arm.
type SwitchCase struct {
	Label Expr
	Stmts []Stmt
}

// BreakStmt exits the innermost loop or switch.
type BreakStmt struct {
	SourceSpan span.Span
}

func (*BreakStmt) stmtNode()         {}
func (s *BreakStmt) Span() span.Span { return s.SourceSpan }

// ContinueStmt jumps to the innermost loop's continue target.
type ContinueStmt struct {
	SourceSpan span.Span
}

func (*ContinueStmt) stmtNode()         {}
func (s *ContinueStmt) Span() span.Span { return s.SourceSpan }
