package service

import (
	"Gavel/internal/repository"
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCodeOf(t *testing.T) {
	if code, ok := CodeOf(ErrMissionNotMet); !ok || code != PreconditionFailed {
		t.Fatalf("code = %d ok = %v", code, ok)
	}
	if code, ok := CodeOf(fmt.Errorf("wrapped: %w", ErrAlreadyVoted)); !ok || code != Conflict {
		t.Fatalf("wrapped code = %d ok = %v", code, ok)
	}
	if _, ok := CodeOf(errors.New("unknown")); ok {
		t.Fatal("unknown error should not map")
	}
}

func TestWrapTxErrorMapsContention(t *testing.T) {
	err := wrapTxError(context.Background(), "op", fmt.Errorf("retry: %w", repository.ErrTxContention))
	if !errors.Is(err, ErrTransactionConflict) {
		t.Fatalf("err = %v", err)
	}
	if code, _ := CodeOf(err); code != InternalServerError {
		t.Fatalf("code = %d", code)
	}
	if err = wrapTxError(context.Background(), "op", ErrMissionClaimed); !errors.Is(err, ErrMissionClaimed) {
		t.Fatalf("err = %v", err)
	}
}
