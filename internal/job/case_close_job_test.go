package job

import (
	"Gavel/internal/service"
	"context"
	"errors"
	"testing"
)

type fakeLifecycle struct {
	calls int
	err   error
}

func (f *fakeLifecycle) CloseExpired(ctx context.Context) (*service.CloseResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &service.CloseResult{Matched: 1, Closed: 1, Notified: 1}, nil
}

func TestCaseCloseJobRun(t *testing.T) {
	lc := &fakeLifecycle{}
	NewCaseCloseJob(lc, 0).Run()
	if lc.calls != 1 {
		t.Fatalf("calls = %d", lc.calls)
	}

	// 失败只记录日志，不向调度器抛出
	lc.err = errors.New("db down")
	NewCaseCloseJob(lc, 0).Run()
	if lc.calls != 2 {
		t.Fatalf("calls = %d", lc.calls)
	}
}
