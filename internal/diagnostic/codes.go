package diagnostic

// ErrorKind enumerates the type-check error kinds named in spec §4.3.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	ArityMismatch
	UndefinedVariable
	UndefinedFunction
	UndefinedType
	UndefinedEffect
	NotCallable
	UnknownField
	NotIndexable
	IntegerOverflow
	CannotAssignImmutable
	CannotBorrowMutable
	RecursiveType
	InferenceError
	MissingGenericParameter
	TraitBoundNotSatisfied
	CannotConvert
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type-mismatch"
	case ArityMismatch:
		return "arity-mismatch"
	case UndefinedVariable:
		return "undefined-variable"
	case UndefinedFunction:
		return "undefined-function"
	case UndefinedType:
		return "undefined-type"
	case UndefinedEffect:
		return "undefined-effect"
	case NotCallable:
		return "not-callable"
	case UnknownField:
		return "unknown-field"
	case NotIndexable:
		return "not-indexable"
	case IntegerOverflow:
		return "integer-overflow"
	case CannotAssignImmutable:
		return "cannot-assign-immutable"
	case CannotBorrowMutable:
		return "cannot-borrow-mutable"
	case RecursiveType:
		return "recursive-type"
	case InferenceError:
		return "inference-error"
	case MissingGenericParameter:
		return "missing-generic-parameter"
	case TraitBoundNotSatisfied:
		return "trait-bound-not-satisfied"
	case CannotConvert:
		return "cannot-convert"
	default:
		return "unknown-error"
	}
}

// StableCode maps each error kind to its stable registry code (§6.4).
// Not every ErrorKind has a dedicated code in the registry; those fall
// back to "" and are reported without a code.
func (k ErrorKind) StableCode() string {
	switch k {
	case ArityMismatch:
		return "E0061"
	case TraitBoundNotSatisfied:
		return "E0277"
	case InferenceError:
		return "E0282"
	case TypeMismatch:
		return "E0308"
	case CannotAssignImmutable:
		return "E0384"
	case MissingGenericParameter:
		return "E0392"
	case UndefinedType:
		return "E0412"
	case UndefinedFunction:
		return "E0422"
	case UndefinedVariable:
		return "E0425"
	case CannotBorrowMutable:
		return "E0596"
	case CannotConvert:
		return "E0604"
	case NotIndexable:
		return "E0608"
	case UnknownField:
		return "E0609"
	case NotCallable:
		return "E0618"
	case RecursiveType:
		return "E0072"
	case IntegerOverflow:
		return "E0080"
	default:
		return ""
	}
}

// BorrowErrorKind enumerates the borrow-checker-specific error kinds.
// Where a borrow error reuses a type-checker code (E0596/E0384), use
// ErrorKind.StableCode for that case instead; these codes are for errors
// with no type-checker analogue.
type BorrowErrorKind int

const (
	BorrowConflict BorrowErrorKind = iota
	UseAfterMove
	MoveWhileBorrowed
)

func (k BorrowErrorKind) String() string {
	switch k {
	case BorrowConflict:
		return "borrow-conflict"
	case UseAfterMove:
		return "use-after-move"
	case MoveWhileBorrowed:
		return "move-while-borrowed"
	default:
		return "unknown-borrow-error"
	}
}

// StableCode returns the registry sub-code for borrow errors without a
// direct type-checker analogue ("E0001 invalid-character" is reserved
// for the lexer and never produced by this core).
func (k BorrowErrorKind) StableCode() string {
	switch k {
	case BorrowConflict:
		return "E0499" // cannot borrow as mutable more than once at a time
	case UseAfterMove:
		return "E0382" // borrow of moved value
	case MoveWhileBorrowed:
		return "E0505" // cannot move out while borrowed
	default:
		return ""
	}
}
