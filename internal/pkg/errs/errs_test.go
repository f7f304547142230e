package errs_test

import (
	"errors"
	"testing"

	"repairshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("workOrderId", "123")

		assert.Equal(t, "workOrderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("workOrderId", "123", cause)

		assert.Equal(t, "workOrderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: workOrderId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("status", cause)

		assert.Equal(t, "status", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: status (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		cause := errors.New("hello\nworld")
		err := errs.NewValueIsInvalidErrorWithCause("text", cause)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("defectReport")

		assert.Equal(t, "defectReport", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: defectReport", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("defectReport", cause)

		assert.Equal(t, "defectReport", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: defectReport (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestConcurrentModificationError(t *testing.T) {
	t.Run("NewConcurrentModificationError", func(t *testing.T) {
		err := errs.NewConcurrentModificationError("workOrderId", "123")

		assert.Equal(t, "workOrderId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "concurrent modification: 123", err.Error())
		assert.Equal(t, errs.ErrConcurrentModification, err.Unwrap())
	})

	t.Run("NewConcurrentModificationErrorWithCause", func(t *testing.T) {
		cause := errors.New("status changed since read")
		err := errs.NewConcurrentModificationErrorWithCause("workOrderId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"concurrent modification: param is: workOrderId, ID is: 123 (cause: status changed since read)",
			err.Error())
		assert.Equal(t, errs.ErrConcurrentModification, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrConcurrentModification)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "concurrent modification", errs.ErrConcurrentModification.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("workOrderId", "123")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("status")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueRequiredErr := errs.NewValueIsRequiredError("defectReport")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		concurrentErr := errs.NewConcurrentModificationError("workOrderId", "123")
		require.ErrorIs(t, concurrentErr, errs.ErrConcurrentModification)
	})
}
