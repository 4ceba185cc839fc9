// Package hir defines ZULON's high-level intermediate representation
// (spec §3.2): a typed, desugared tree produced from the checked AST by
// AstToHir (desugar.go). Every HIR node already carries a resolved
// types.HirTy — there is nothing left to infer past this stage.
package hir

import (
	"github.com/RunningShrimp/zulon-language-sub001/internal/ast"
	"github.com/RunningShrimp/zulon-language-sub001/internal/position"
	"github.com/RunningShrimp/zulon-language-sub001/internal/types"
)

// Module is one compilation unit's worth of HIR items.
type Module struct {
	Items []Item
	Span  position.Span
}

// Item is the sum type of top-level HIR declarations.
type Item interface {
	GetSpan() position.Span
	itemNode()
}

// Function is a desugared, typed function definition.
type Function struct {
	Name       string
	Generics   []string
	Params     []Param
	ReturnType types.HirTy
	ErrorType  types.HirTy // nil if none declared
	Effects    []types.EffectKind
	IsAsync    bool
	Body       *Block
	Span       position.Span
}

func (*Function) itemNode()              {}
func (f *Function) GetSpan() position.Span { return f.Span }

// Param is a function parameter, resolved to a HirTy.
type Param struct {
	Name string
	Type types.HirTy
	Span position.Span
}

// Field is a struct field or enum variant payload field.
type Field struct {
	Name string
	Type types.HirTy
	Span position.Span
}

// Struct is a desugared struct declaration.
type Struct struct {
	Name     string
	Generics []string
	Fields   []Field
	Span     position.Span
}

func (*Struct) itemNode()              {}
func (s *Struct) GetSpan() position.Span { return s.Span }

// Variant is one enum variant, with optional payload fields.
type Variant struct {
	Name   string
	Fields []Field
}

// Enum is a desugared enum declaration.
type Enum struct {
	Name     string
	Generics []string
	Variants []Variant
	Span     position.Span
}

func (*Enum) itemNode()              {}
func (e *Enum) GetSpan() position.Span { return e.Span }

// CaptureMode classifies how a closure captures a free variable, carried
// forward verbatim from ast.CaptureMode once the checker has resolved it
// (spec §3.2/§4.3).
type CaptureMode = ast.CaptureMode

const (
	CaptureImmutableRef = ast.CaptureImmutableRef
	CaptureMutableRef   = ast.CaptureMutableRef
	CaptureByValue      = ast.CaptureByValue
)

// Capture is one variable a closure pulls in from its enclosing scope.
type Capture struct {
	Name string
	Mode CaptureMode
	Type types.HirTy
	Span position.Span
}

// Block is `{ stmts; trailing? }`, always typed — an empty trailing
// position is HUnitTy, never nil-typed.
type Block struct {
	Stmts    []Stmt
	Trailing Expr // nil means unit-typed block
	Ty       types.HirTy
	Span     position.Span
}

// Stmt is a statement inside a block.
type Stmt interface {
	stmtNode()
}

// Local is `let name: Ty = init;`, with init already desugared.
type Local struct {
	Name string
	Type types.HirTy
	Init Expr // nil for an uninitialized local
	Span position.Span
}

func (*Local) stmtNode() {}

// ExprStmt is a bare expression statement whose value is discarded.
type ExprStmt struct {
	Value Expr
}

func (*ExprStmt) stmtNode() {}

// Expr is the sum type of all HIR expression forms. Every variant
// carries its own resolved HirTy and span (spec §3.2/§3.3).
type Expr interface {
	Type() types.HirTy
	GetSpan() position.Span
	exprNode()
}

type exprBase struct {
	Ty   types.HirTy
	Span position.Span
}

func (e exprBase) Type() types.HirTy        { return e.Ty }
func (e exprBase) GetSpan() position.Span   { return e.Span }

// Literal is a constant value.
type Literal struct {
	exprBase
	Value LiteralValue
}

func (*Literal) exprNode() {}

// LiteralValue is the sum of concrete literal payloads.
type LiteralValue interface{ literalNode() }

type LitBool bool
type LitInt int64
type LitFloat float64
type LitChar rune
type LitString string
type LitUnit struct{}

func (LitBool) literalNode()   {}
func (LitInt) literalNode()    {}
func (LitFloat) literalNode()  {}
func (LitChar) literalNode()   {}
func (LitString) literalNode() {}
func (LitUnit) literalNode()   {}

// Variable is a reference to a resolved binding.
type Variable struct {
	exprBase
	Name string
}

func (*Variable) exprNode() {}

// BinOp enumerates HIR binary operators (spec §3.2; logical/bitwise kept
// distinct from comparison, matching the surface AST one-to-one except
// that `=` is a separate Assign node, never a BinOp).
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinAnd
	BinOr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

// BinaryOp is a binary operation.
type BinaryOp struct {
	exprBase
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*BinaryOp) exprNode() {}

// UnOp enumerates HIR unary operators.
type UnOp int

const (
	UnNeg UnOp = iota
	UnNot
	UnDeref
	UnRef
	UnRefMut
)

// UnaryOp is a unary operation.
type UnaryOp struct {
	exprBase
	Op      UnOp
	Operand Expr
}

func (*UnaryOp) exprNode() {}

// Assign is a desugared assignment `place = value` (spec §4.4: surface
// `=` lowers to a dedicated HIR node rather than a BinOp, since its LHS
// is a place, not a value).
type Assign struct {
	exprBase
	Target Expr
	Value  Expr
}

func (*Assign) exprNode() {}

// Call is a function call. Method calls are desugared into this form by
// AstToHir, with the receiver prepended to Args (spec §4.4).
type Call struct {
	exprBase
	Func Expr
	Args []Expr
}

func (*Call) exprNode() {}

// If is `if cond { then } [else { else }]`.
type If struct {
	exprBase
	Cond Expr
	Then *Block
	Else *Block // nil if no else; both arms are always blocks post-desugar
}

func (*If) exprNode() {}

// Loop is `loop { body }`, diverging unless broken with a value.
type Loop struct {
	exprBase
	Body *Block
}

func (*Loop) exprNode() {}

// While is `while cond { body }`; for-loops desugar into this form over
// an index variable during AstToHir (spec §4.4), so HIR has no separate
// For node.
type While struct {
	exprBase
	Cond Expr
	Body *Block
}

func (*While) exprNode() {}

// BlockExpr wraps a Block used in expression position.
type BlockExpr struct {
	exprBase
	Block *Block
}

func (*BlockExpr) exprNode() {}

// MatchArm is one `pattern [if guard] => body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if unguarded
	Body    Expr
	Span    position.Span
}

// Match is `match scrutinee { arms }`.
type Match struct {
	exprBase
	Scrutinee Expr
	Arms      []MatchArm
}

func (*Match) exprNode() {}

// Tuple is `(e1, e2, ...)`.
type Tuple struct {
	exprBase
	Elements []Expr
}

func (*Tuple) exprNode() {}

// Array is `[e1, e2, ...]`.
type Array struct {
	exprBase
	Elements []Expr
}

func (*Array) exprNode() {}

// Index is `base[index]`.
type Index struct {
	exprBase
	Base  Expr
	Index Expr
}

func (*Index) exprNode() {}

// FieldAccess is `base.field`.
type FieldAccess struct {
	exprBase
	Base  Expr
	Field string
}

func (*FieldAccess) exprNode() {}

// Return is `return [expr]`.
type Return struct {
	exprBase
	Value Expr // nil for bare return
}

func (*Return) exprNode() {}

// Break is `break [expr]`.
type Break struct {
	exprBase
	Value Expr // nil for bare break
}

func (*Break) exprNode() {}

// Continue is `continue`.
type Continue struct{ exprBase }

func (*Continue) exprNode() {}

// Closure is a lambda with its captures already resolved by the type
// checker and carried onto the HIR node (spec §4.3/§4.4).
type Closure struct {
	exprBase
	Params   []Param
	Captures []Capture
	Body     Expr
}

func (*Closure) exprNode() {}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLiteral is `Name { field: value, ... }`.
type StructLiteral struct {
	exprBase
	Name   string
	Fields []FieldInit
}

func (*StructLiteral) exprNode() {}

// Throw is `throw expr` — diverges (spec §4.3: "throw requires the
// enclosing function to declare an error type").
type Throw struct {
	exprBase
	Value Expr
}

func (*Throw) exprNode() {}

// QuestionMark is `expr?`, typed as the success type of the inner
// result-shaped expression (spec §4.3/§4.5).
type QuestionMark struct {
	exprBase
	Value Expr
}

func (*QuestionMark) exprNode() {}

// Await is `expr.await`. It survives into MIR as a sentinel call that
// AsyncTransform recognizes by name (spec §4.5/§4.6), so HIR keeps it as
// its own node rather than desugaring it away early.
type Await struct {
	exprBase
	Value Expr
}

func (*Await) exprNode() {}

// Pattern is the sum type of match/let patterns, resolved to a HirTy
// where the surface grammar names one.
type Pattern interface {
	patternNode()
	GetSpan() position.Span
}

type patternBase struct{ Span position.Span }

func (p patternBase) GetSpan() position.Span { return p.Span }

// WildcardPattern is `_`.
type WildcardPattern struct{ patternBase }

func (*WildcardPattern) patternNode() {}

// BindingPattern binds the scrutinee to a name.
type BindingPattern struct {
	patternBase
	Name string
	Type types.HirTy
}

func (*BindingPattern) patternNode() {}

// LiteralPattern matches a specific literal value.
type LiteralPattern struct {
	patternBase
	Value LiteralValue
}

func (*LiteralPattern) patternNode() {}

// VariantPattern matches a specific enum variant, destructuring its
// payload fields by binding name.
type VariantPattern struct {
	patternBase
	EnumName    string
	VariantName string
	Binds       []string
	Type        types.HirTy
}

func (*VariantPattern) patternNode() {}
