package testutil

import (
	"errors"
	"testing"

	apperrors "financebot/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertStoreError checks that err is a STORE_ERROR that still carries the
// underlying store failure.
func AssertStoreError(t *testing.T, err error) {
	t.Helper()

	AssertAppError(t, err, apperrors.ErrStore.Code)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Internal == nil {
		t.Errorf("expected STORE_ERROR to wrap the store failure")
	}
}
