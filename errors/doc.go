// Package errors provides structured error types for the thinvec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the failed layout request (size and alignment), Go/WIT type
// names for boundary checks, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseReserve, errors.KindAllocation).
//		Layout(size, align).
//		Detail("heap budget exhausted").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(errors.PhaseAlloc, size, align)
//	err := errors.CapacityOverflow(errors.PhaseLayout, capacity, elemSize)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on Kind alone:
//
//	if errors.Is(err, thinerrors.ErrCapacityOverflow) { ... }
package errors
