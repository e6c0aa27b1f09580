// Package xerr defines the error taxonomy shared by every core package.
//
// The originating C++ implementation used a Result<T> monad (TXResult<T>)
// wrapping a TXError with a code. Go favors plain (value, error) returns, so
// the same taxonomy is expressed here as a small set of sentinel Kind values
// that wrap into a *Error, usable with errors.Is/errors.As the same way
// os.PathError or net.OpError are.
package xerr

import "fmt"

// Kind classifies an error the way §7 of the specification enumerates them.
type Kind int

const (
	_ Kind = iota
	InvalidArgument
	InvalidRange
	MemoryError
	InvalidOperation
	IoError
	SerializationError
	NotFound
	Timeout
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case InvalidRange:
		return "invalid range"
	case MemoryError:
		return "memory error"
	case InvalidOperation:
		return "invalid operation"
	case IoError:
		return "io error"
	case SerializationError:
		return "serialization error"
	case NotFound:
		return "not found"
	case Timeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned by fallible operations across
// the core. Op names the failing operation (e.g. "alloc.Slab.Allocate"),
// mirroring the Op field convention of *os.PathError.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, xerr.Sentinel(xerr.InvalidArgument))-style
// matching by comparing e.Kind against target when target is itself an
// *Error, such as one produced by Sentinel or New; a target with a
// non-empty Op must also match e.Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error for kind with the given operation and message.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap constructs an *Error for kind, attaching err as the cause.
func Wrap(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Sentinel returns a bare *Error carrying only a Kind, suitable as the
// target of errors.Is checks: errors.Is(err, xerr.Sentinel(xerr.NotFound)).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
