package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLayout  Phase = "layout"  // layout computation
	PhaseAlloc   Phase = "alloc"   // block allocation
	PhaseReserve Phase = "reserve" // capacity growth
	PhaseExport  Phase = "export"  // host to guest
	PhaseImport  Phase = "import"  // guest to host
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidLayout    Kind = "invalid_layout"
	KindAllocation       Kind = "allocation"
	KindCapacityOverflow Kind = "capacity_overflow"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindUnsupported      Kind = "unsupported"
	KindInvalidData      Kind = "invalid_data"
	KindTypeMismatch     Kind = "type_mismatch"
	KindNilPointer       Kind = "nil_pointer"
)

// Sentinel targets for errors.Is. They match any phase.
var (
	ErrInvalidLayout    = &Error{Kind: KindInvalidLayout}
	ErrAllocation       = &Error{Kind: KindAllocation}
	ErrCapacityOverflow = &Error{Kind: KindCapacityOverflow}
	ErrOutOfBounds      = &Error{Kind: KindOutOfBounds}
	ErrUnsupported      = &Error{Kind: KindUnsupported}
	ErrInvalidData      = &Error{Kind: KindInvalidData}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	// Size and Align describe the layout request that failed, when there is one.
	Size  uint64
	Align uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", WIT type ")
			b.WriteString(e.WitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Size != 0 || e.Align != 0 {
		fmt.Fprintf(&b, " (size %d, align %d)", e.Size, e.Align)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. The kinds must be equal;
// the phase only has to match when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Layout records the size and alignment of the failed request
func (b *Builder) Layout(size, align uint64) *Builder {
	b.err.Size = size
	b.err.Align = align
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidLayout creates an invalid layout request error
func InvalidLayout(phase Phase, align uint64, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidLayout,
		Detail: detail,
		Align:  align,
		Value:  align,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Size:   size,
		Align:  align,
	}
}

// CapacityOverflow creates an error for an element count that cannot be
// expressed as a valid allocation size
func CapacityOverflow(phase Phase, capacity int, elemSize uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCapacityOverflow,
		Detail: fmt.Sprintf("capacity %d of %d-byte elements overflows the maximum allocation size", capacity, elemSize),
		Value:  capacity,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("nil %s", what),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, goType, witType, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		GoType:  goType,
		WitType: witType,
		Detail:  detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
