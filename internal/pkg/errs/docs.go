// Package errs provides standardized error types for the repair shop backend.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package covers the application-level error taxonomy:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is invalid
//   - ObjectNotFoundError: an object is absent, or invisible to the caller's
//     tenant (both causes produce the identical signal on purpose)
//   - ConcurrentModificationError: an optimistic write detected that the row
//     changed since it was read
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works
//
// Domain-specific errors, such as the invalid status transition, live in their
// domain packages rather than here.
package errs
