// Package results carries the outcome of a service operation: either a
// success payload or a domain failure. Infrastructure errors travel beside
// the result as a plain error.
package results

// OperationResult holds exactly one of Success or Failure.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }
func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](s S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &s}
}

// FailureResult wraps a domain failure.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}
