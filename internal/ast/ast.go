// Package ast defines the surface syntax tree ZULON's parser hands to
// the compiler core (spec §6.1). Lexing and concrete-syntax parsing are
// out of scope for the core (spec §1); this package only declares the
// shape of their output so the type checker and AstToHir pass have
// something concrete to consume.
package ast

import (
	"fmt"
	"strings"

	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
)

// Node is the base interface every AST node satisfies.
type Node interface {
	GetSpan() position.Span
	String() string
}

// Item is a top-level declaration inside a compilation unit.
type Item interface {
	Node
	itemNode()
}

// Expr is the sum type of all expression forms (§6.1).
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is a match-arm pattern.
type Pattern interface {
	Node
	patternNode()
}

// Attribute is a `#[name(key = value, ...)]` marker on an item (§6.5).
type Attribute struct {
	Span position.Span
	Name string
	Args map[string]string
}

func (a *Attribute) GetSpan() position.Span { return a.Span }
func (a *Attribute) String() string {
	if len(a.Args) == 0 {
		return fmt.Sprintf("#[%s]", a.Name)
	}

	return fmt.Sprintf("#[%s(...)]", a.Name)
}

// Program is a whole compilation unit: a single AST handed in whole
// (spec §1 non-goal: "no module loading across files").
type Program struct {
	Span  position.Span
	Items []Item
}

func (p *Program) GetSpan() position.Span { return p.Span }
func (p *Program) String() string {
	parts := make([]string, len(p.Items))
	for i, it := range p.Items {
		parts[i] = it.String()
	}

	return strings.Join(parts, "\n")
}

// ===== Types (surface, textual, unresolved — SurfaceTy lives in internal/types) =====

// TypeExpr is the surface syntax for a type annotation.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a reference to a named type, optionally with generic args.
type NamedType struct {
	Span       position.Span
	Name       string
	Args       []TypeExpr
	Lifetime   string // "" if none
}

func (t *NamedType) GetSpan() position.Span { return t.Span }
func (t *NamedType) typeExprNode()           {}
func (t *NamedType) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}

	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}

	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
}

// RefType is `&T` or `&mut T`.
type RefType struct {
	Span    position.Span
	Inner   TypeExpr
	Mutable bool
}

func (t *RefType) GetSpan() position.Span { return t.Span }
func (t *RefType) typeExprNode()           {}
func (t *RefType) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}

	return "&" + t.Inner.String()
}

// PtrType is `*T` or `*mut T`.
type PtrType struct {
	Span    position.Span
	Inner   TypeExpr
	Mutable bool
}

func (t *PtrType) GetSpan() position.Span { return t.Span }
func (t *PtrType) typeExprNode()           {}
func (t *PtrType) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}

	return "*" + t.Inner.String()
}

// ArrayType is `[T; N]`.
type ArrayType struct {
	Span   position.Span
	Elem   TypeExpr
	Length int64
}

func (t *ArrayType) GetSpan() position.Span { return t.Span }
func (t *ArrayType) typeExprNode()           {}
func (t *ArrayType) String() string         { return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Length) }

// SliceType is `[T]`.
type SliceType struct {
	Span position.Span
	Elem TypeExpr
}

func (t *SliceType) GetSpan() position.Span { return t.Span }
func (t *SliceType) typeExprNode()           {}
func (t *SliceType) String() string         { return "[" + t.Elem.String() + "]" }

// TupleType is `(T1, T2, ...)`.
type TupleType struct {
	Span     position.Span
	Elements []TypeExpr
}

func (t *TupleType) GetSpan() position.Span { return t.Span }
func (t *TupleType) typeExprNode()           {}
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// FuncType is `fn(T1, T2) -> R`.
type FuncType struct {
	Span    position.Span
	Params  []TypeExpr
	Return  TypeExpr
}

func (t *FuncType) GetSpan() position.Span { return t.Span }
func (t *FuncType) typeExprNode()           {}
func (t *FuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}

	ret := "()"
	if t.Return != nil {
		ret = t.Return.String()
	}

	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
}

// OptionalType is `T?`.
type OptionalType struct {
	Span position.Span
	Inner TypeExpr
}

func (t *OptionalType) GetSpan() position.Span { return t.Span }
func (t *OptionalType) typeExprNode()           {}
func (t *OptionalType) String() string         { return t.Inner.String() + "?" }

// ===== Items =====

// Param is a function parameter.
type Param struct {
	Span    position.Span
	Name    string
	Type    TypeExpr
	Mutable bool
}

func (p *Param) GetSpan() position.Span { return p.Span }
func (p *Param) String() string         { return fmt.Sprintf("%s: %s", p.Name, p.Type) }

// EffectAnnotation names the effects a function declares it may perform.
type EffectAnnotation struct {
	Span   position.Span
	Names  []string
}

// FunctionItem is `fn name(params) -> ret throws Err / effects { ... } { body }`.
type FunctionItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Generics   []string
	Params     []*Param
	ReturnType TypeExpr // nil means unit
	ErrorType  TypeExpr // nil if the function declares no error type
	Effects    *EffectAnnotation
	IsAsync    bool
	Body       *BlockExpr // nil for extern declarations
}

func (f *FunctionItem) GetSpan() position.Span { return f.Span }
func (f *FunctionItem) itemNode()               {}
func (f *FunctionItem) String() string          { return "fn " + f.Name }

// ExternFunctionItem declares a function implemented outside this unit.
type ExternFunctionItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Params     []*Param
	ReturnType TypeExpr
}

func (f *ExternFunctionItem) GetSpan() position.Span { return f.Span }
func (f *ExternFunctionItem) itemNode()               {}
func (f *ExternFunctionItem) String() string          { return "extern fn " + f.Name }

// FieldDecl is a struct field.
type FieldDecl struct {
	Span position.Span
	Name string
	Type TypeExpr
}

// StructItem is `struct Name<G> { fields }`.
type StructItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Generics   []string
	Fields     []*FieldDecl
}

func (s *StructItem) GetSpan() position.Span { return s.Span }
func (s *StructItem) itemNode()               {}
func (s *StructItem) String() string          { return "struct " + s.Name }

// VariantDecl is one enum variant, with optional payload fields.
type VariantDecl struct {
	Span   position.Span
	Name   string
	Fields []*FieldDecl // empty for a unit variant (C-like)
}

// EnumItem is `enum Name<G> { variants }`.
type EnumItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Generics   []string
	Variants   []*VariantDecl
}

func (e *EnumItem) GetSpan() position.Span { return e.Span }
func (e *EnumItem) itemNode()               {}
func (e *EnumItem) String() string          { return "enum " + e.Name }

// TraitMethodSig is a method signature declared inside a trait.
type TraitMethodSig struct {
	Span       position.Span
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	Default    *BlockExpr // nil if the trait gives no default body
}

// TraitItem is `trait Name { methods }`.
type TraitItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Generics   []string
	Methods    []*TraitMethodSig
}

func (t *TraitItem) GetSpan() position.Span { return t.Span }
func (t *TraitItem) itemNode()               {}
func (t *TraitItem) String() string          { return "trait " + t.Name }

// ImplItem is `impl Trait for Type { methods }` or `impl Type { methods }`
// (TraitName == "" for an inherent impl).
type ImplItem struct {
	Span       position.Span
	Attributes []*Attribute
	TraitName  string
	TypeName   string
	Generics   []string
	Methods    []*FunctionItem
}

func (i *ImplItem) GetSpan() position.Span { return i.Span }
func (i *ImplItem) itemNode()               {}
func (i *ImplItem) String() string {
	if i.TraitName == "" {
		return "impl " + i.TypeName
	}

	return fmt.Sprintf("impl %s for %s", i.TraitName, i.TypeName)
}

// EffectDeclItem declares a named effect (e.g. `effect Async;`).
type EffectDeclItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
}

func (e *EffectDeclItem) GetSpan() position.Span { return e.Span }
func (e *EffectDeclItem) itemNode()               {}
func (e *EffectDeclItem) String() string          { return "effect " + e.Name }

// ModuleItem nests a sub-module's items (no cross-file loading, §1).
type ModuleItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Items      []Item
}

func (m *ModuleItem) GetSpan() position.Span { return m.Span }
func (m *ModuleItem) itemNode()               {}
func (m *ModuleItem) String() string          { return "mod " + m.Name }

// TypeAliasItem is `type Name<G> = Ty;`.
type TypeAliasItem struct {
	Span       position.Span
	Attributes []*Attribute
	Name       string
	Generics   []string
	Target     TypeExpr
}

func (t *TypeAliasItem) GetSpan() position.Span { return t.Span }
func (t *TypeAliasItem) itemNode()               {}
func (t *TypeAliasItem) String() string          { return "type " + t.Name }

// ===== Statements =====

// LetStmt is `let [mut] name [: Ty] = expr;`.
type LetStmt struct {
	Span    position.Span
	Name    string
	Type    TypeExpr // nil if inferred
	Mutable bool
	Value   Expr
}

func (s *LetStmt) GetSpan() position.Span { return s.Span }
func (s *LetStmt) stmtNode()               {}
func (s *LetStmt) String() string          { return "let " + s.Name }

// ExprStmt wraps a bare expression statement.
type ExprStmt struct {
	Span  position.Span
	Value Expr
}

func (s *ExprStmt) GetSpan() position.Span { return s.Span }
func (s *ExprStmt) stmtNode()               {}
func (s *ExprStmt) String() string          { return s.Value.String() }

// AssignStmt is `place = expr;`.
type AssignStmt struct {
	Span   position.Span
	Target Expr
	Value  Expr
}

func (s *AssignStmt) GetSpan() position.Span { return s.Span }
func (s *AssignStmt) stmtNode()               {}
func (s *AssignStmt) String() string          { return s.Target.String() + " = " + s.Value.String() }

// ===== Expressions =====

// BlockExpr is `{ stmts; trailing? }`.
type BlockExpr struct {
	Span     position.Span
	Stmts    []Stmt
	Trailing Expr // nil means unit-typed block
}

func (b *BlockExpr) GetSpan() position.Span { return b.Span }
func (b *BlockExpr) exprNode()               {}
func (b *BlockExpr) String() string          { return "{ ... }" }

// LiteralKind classifies a Literal expression.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitChar
	LitStr
	LitUnit
)

// Literal is a constant value written in source.
type Literal struct {
	Span position.Span
	Kind LiteralKind
	// Exactly one of these is populated, selected by Kind.
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	StrVal   string
}

func (l *Literal) GetSpan() position.Span { return l.Span }
func (l *Literal) exprNode()               {}
func (l *Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("%d", l.IntVal)
	case LitFloat:
		return fmt.Sprintf("%g", l.FloatVal)
	case LitBool:
		return fmt.Sprintf("%t", l.BoolVal)
	case LitStr, LitChar:
		return l.StrVal
	default:
		return "()"
	}
}

// NameExpr is a reference to a binding.
type NameExpr struct {
	Span position.Span
	Name string
}

func (n *NameExpr) GetSpan() position.Span { return n.Span }
func (n *NameExpr) exprNode()               {}
func (n *NameExpr) String() string          { return n.Name }

// BinaryOp enumerates surface binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd // &&
	OpOr  // ||
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	Span position.Span
	Op   BinaryOp
	LHS  Expr
	RHS  Expr
}

func (b *BinaryExpr) GetSpan() position.Span { return b.Span }
func (b *BinaryExpr) exprNode()               {}
func (b *BinaryExpr) String() string          { return fmt.Sprintf("(%s %d %s)", b.LHS, b.Op, b.RHS) }

// UnaryOp enumerates surface unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpRef
	OpRefMut
	OpDeref
)

// UnaryExpr is `op expr`.
type UnaryExpr struct {
	Span position.Span
	Op   UnaryOp
	Expr Expr
}

func (u *UnaryExpr) GetSpan() position.Span { return u.Span }
func (u *UnaryExpr) exprNode()               {}
func (u *UnaryExpr) String() string          { return fmt.Sprintf("(%d %s)", u.Op, u.Expr) }

// CallExpr is `callee(args)`.
type CallExpr struct {
	Span   position.Span
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) GetSpan() position.Span { return c.Span }
func (c *CallExpr) exprNode()               {}
func (c *CallExpr) String() string          { return c.Callee.String() + "(...)" }

// MethodCallExpr is `receiver.method(args)`, resolved by receiver type
// in the checker and desugared to a free call in AstToHir (§4.4).
type MethodCallExpr struct {
	Span     position.Span
	Receiver Expr
	Method   string
	Args     []Expr
}

func (m *MethodCallExpr) GetSpan() position.Span { return m.Span }
func (m *MethodCallExpr) exprNode()               {}
func (m *MethodCallExpr) String() string {
	return fmt.Sprintf("%s.%s(...)", m.Receiver, m.Method)
}

// FieldExpr is `base.field`.
type FieldExpr struct {
	Span  position.Span
	Base  Expr
	Field string
}

func (f *FieldExpr) GetSpan() position.Span { return f.Span }
func (f *FieldExpr) exprNode()               {}
func (f *FieldExpr) String() string          { return f.Base.String() + "." + f.Field }

// IndexExpr is `base[index]`.
type IndexExpr struct {
	Span  position.Span
	Base  Expr
	Index Expr
}

func (i *IndexExpr) GetSpan() position.Span { return i.Span }
func (i *IndexExpr) exprNode()               {}
func (i *IndexExpr) String() string          { return fmt.Sprintf("%s[%s]", i.Base, i.Index) }

// TupleExpr is `(e1, e2, ...)`.
type TupleExpr struct {
	Span     position.Span
	Elements []Expr
}

func (t *TupleExpr) GetSpan() position.Span { return t.Span }
func (t *TupleExpr) exprNode()               {}
func (t *TupleExpr) String() string          { return "(...)" }

// ArrayExpr is `[e1, e2, ...]`.
type ArrayExpr struct {
	Span     position.Span
	Elements []Expr
}

func (a *ArrayExpr) GetSpan() position.Span { return a.Span }
func (a *ArrayExpr) exprNode()               {}
func (a *ArrayExpr) String() string          { return "[...]" }

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLiteralExpr is `Name { field: value, ... }`.
type StructLiteralExpr struct {
	Span   position.Span
	Name   string
	Fields []FieldInit
}

func (s *StructLiteralExpr) GetSpan() position.Span { return s.Span }
func (s *StructLiteralExpr) exprNode()               {}
func (s *StructLiteralExpr) String() string          { return s.Name + "{...}" }

// IfExpr is `if cond { then } [else { else }]`.
type IfExpr struct {
	Span  position.Span
	Cond  Expr
	Then  *BlockExpr
	Else  Expr // *BlockExpr or *IfExpr, nil if no else
}

func (i *IfExpr) GetSpan() position.Span { return i.Span }
func (i *IfExpr) exprNode()               {}
func (i *IfExpr) String() string          { return "if ..." }

// MatchArm is one `pattern [if guard] => body` arm.
type MatchArm struct {
	Span    position.Span
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    Expr
}

// MatchExpr is `match scrutinee { arms }`.
type MatchExpr struct {
	Span       position.Span
	Scrutinee  Expr
	Arms       []MatchArm
}

func (m *MatchExpr) GetSpan() position.Span { return m.Span }
func (m *MatchExpr) exprNode()               {}
func (m *MatchExpr) String() string          { return "match ..." }

// LoopExpr is `loop { body }`, diverging unless broken with a value.
type LoopExpr struct {
	Span position.Span
	Body *BlockExpr
}

func (l *LoopExpr) GetSpan() position.Span { return l.Span }
func (l *LoopExpr) exprNode()               {}
func (l *LoopExpr) String() string          { return "loop { ... }" }

// WhileExpr is `while cond { body }`.
type WhileExpr struct {
	Span position.Span
	Cond Expr
	Body *BlockExpr
}

func (w *WhileExpr) GetSpan() position.Span { return w.Span }
func (w *WhileExpr) exprNode()               {}
func (w *WhileExpr) String() string          { return "while ... { ... }" }

// ForExpr is `for pattern in iter { body }`, desugared by AstToHir (§4.4).
type ForExpr struct {
	Span    position.Span
	Binding string
	Iter    Expr
	Body    *BlockExpr
}

func (f *ForExpr) GetSpan() position.Span { return f.Span }
func (f *ForExpr) exprNode()               {}
func (f *ForExpr) String() string          { return "for ... { ... }" }

// ReturnExpr is `return [expr]`.
type ReturnExpr struct {
	Span  position.Span
	Value Expr // nil for bare `return`
}

func (r *ReturnExpr) GetSpan() position.Span { return r.Span }
func (r *ReturnExpr) exprNode()               {}
func (r *ReturnExpr) String() string          { return "return ..." }

// BreakExpr is `break [expr]`.
type BreakExpr struct {
	Span  position.Span
	Value Expr // nil for bare `break`
}

func (b *BreakExpr) GetSpan() position.Span { return b.Span }
func (b *BreakExpr) exprNode()               {}
func (b *BreakExpr) String() string          { return "break ..." }

// ContinueExpr is `continue`.
type ContinueExpr struct {
	Span position.Span
}

func (c *ContinueExpr) GetSpan() position.Span { return c.Span }
func (c *ContinueExpr) exprNode()               {}
func (c *ContinueExpr) String() string          { return "continue" }

// ThrowExpr is `throw expr`.
type ThrowExpr struct {
	Span  position.Span
	Value Expr
}

func (t *ThrowExpr) GetSpan() position.Span { return t.Span }
func (t *ThrowExpr) exprNode()               {}
func (t *ThrowExpr) String() string          { return "throw ..." }

// CaptureMode classifies how a closure captures a free variable (§3.2).
type CaptureMode int

const (
	CaptureImmutableRef CaptureMode = iota
	CaptureMutableRef
	CaptureByValue
)

// ClosureExpr is `|params| -> ret { body }`, with captures filled in by
// the type checker (§4.3) before AstToHir rewrites them onto HIR.
type ClosureExpr struct {
	Span       position.Span
	Params     []*Param
	ReturnType TypeExpr // nil if inferred
	Body       Expr
}

func (c *ClosureExpr) GetSpan() position.Span { return c.Span }
func (c *ClosureExpr) exprNode()               {}
func (c *ClosureExpr) String() string          { return "|...| ..." }

// QuestionMarkExpr is `expr?` (§4.3 error propagation).
type QuestionMarkExpr struct {
	Span  position.Span
	Value Expr
}

func (q *QuestionMarkExpr) GetSpan() position.Span { return q.Span }
func (q *QuestionMarkExpr) exprNode()               {}
func (q *QuestionMarkExpr) String() string          { return q.Value.String() + "?" }

// AwaitExpr is `expr.await`.
type AwaitExpr struct {
	Span  position.Span
	Value Expr
}

func (a *AwaitExpr) GetSpan() position.Span { return a.Span }
func (a *AwaitExpr) exprNode()               {}
func (a *AwaitExpr) String() string          { return a.Value.String() + ".await" }

// ===== Patterns =====

// WildcardPattern is `_`.
type WildcardPattern struct{ Span position.Span }

func (w *WildcardPattern) GetSpan() position.Span { return w.Span }
func (w *WildcardPattern) patternNode()            {}
func (w *WildcardPattern) String() string          { return "_" }

// BindingPattern binds the scrutinee (or a sub-match) to a name.
type BindingPattern struct {
	Span position.Span
	Name string
}

func (b *BindingPattern) GetSpan() position.Span { return b.Span }
func (b *BindingPattern) patternNode()            {}
func (b *BindingPattern) String() string          { return b.Name }

// VariantPattern matches a specific enum variant, optionally destructuring
// its payload fields by binding name.
type VariantPattern struct {
	Span    position.Span
	Variant string
	Binds   []string
}

func (v *VariantPattern) GetSpan() position.Span { return v.Span }
func (v *VariantPattern) patternNode()            {}
func (v *VariantPattern) String() string          { return v.Variant }

// LiteralPattern matches a specific literal value.
type LiteralPattern struct {
	Span  position.Span
	Value *Literal
}

func (l *LiteralPattern) GetSpan() position.Span { return l.Span }
func (l *LiteralPattern) patternNode()            {}
func (l *LiteralPattern) String() string          { return l.Value.String() }
