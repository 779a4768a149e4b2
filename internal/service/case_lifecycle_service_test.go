package service

import (
	"Gavel/internal/model"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeVerdictNotifier struct {
	mu     sync.Mutex
	calls  map[uint64]int
	failOn map[uint64]bool
}

func newFakeVerdictNotifier() *fakeVerdictNotifier {
	return &fakeVerdictNotifier{calls: make(map[uint64]int), failOn: make(map[uint64]bool)}
}

func (n *fakeVerdictNotifier) NotifyCaseClosed(_ context.Context, c *model.Case) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[c.AuthorID]++
	if n.failOn[c.AuthorID] {
		return errors.New("push gateway down")
	}
	return nil
}

func (n *fakeVerdictNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	sum := 0
	for _, v := range n.calls {
		sum += v
	}
	return sum
}

func TestCloseExpiredClosesAndNotifies(t *testing.T) {
	f := newFixture(t)
	notifier := newFakeVerdictNotifier()
	svc := NewCaseLifecycleService(f.tx, f.cases, notifier, f.clock, 0, 0)
	ctx := context.Background()

	expired := f.createCase(t, &model.Case{AuthorID: 7, VoteEndAt: f.now.Add(-time.Hour)})
	pending := f.createCase(t, &model.Case{AuthorID: 8, VoteEndAt: f.now.Add(time.Hour)})

	res, err := svc.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("CloseExpired: %v", err)
	}
	if res.Matched != 1 || res.Closed != 1 || res.Notified != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if f.getCase(t, expired.ID).Status != model.CaseStatusClosed {
		t.Fatal("expired case not closed")
	}
	if f.getCase(t, pending.ID).Status != model.CaseStatusOpen {
		t.Fatal("pending case must stay open")
	}
	if notifier.calls[7] != 1 || notifier.calls[8] != 0 {
		t.Fatalf("calls = %v", notifier.calls)
	}

	// 已关闭的案件不会被再次处理
	res, err = svc.CloseExpired(ctx)
	if err != nil || res.Matched != 0 {
		t.Fatalf("second run res = %+v err = %v", res, err)
	}
	if notifier.total() != 1 {
		t.Fatalf("total notifications = %d", notifier.total())
	}
}

func TestCloseExpiredPushFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	notifier := newFakeVerdictNotifier()
	notifier.failOn[2] = true
	svc := NewCaseLifecycleService(f.tx, f.cases, notifier, f.clock, 2, 2)

	var ids []uint64
	for author := uint64(1); author <= 5; author++ {
		c := f.createCase(t, &model.Case{AuthorID: author, VoteEndAt: f.now.Add(-time.Minute)})
		ids = append(ids, c.ID)
	}

	res, err := svc.CloseExpired(context.Background())
	if err != nil {
		t.Fatalf("CloseExpired: %v", err)
	}
	if res.Matched != 5 || res.Closed != 5 || res.FailedBatch != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Notified != 4 || res.NotifyFailed != 1 {
		t.Fatalf("notified = %d failed = %d", res.Notified, res.NotifyFailed)
	}
	for _, id := range ids {
		if f.getCase(t, id).Status != model.CaseStatusClosed {
			t.Fatalf("case %d not closed", id)
		}
	}
}

func TestCloseExpiredDoesNotReopen(t *testing.T) {
	f := newFixture(t)
	notifier := newFakeVerdictNotifier()
	svc := NewCaseLifecycleService(f.tx, f.cases, notifier, f.clock, 0, 0)

	c := f.createCase(t, &model.Case{AuthorID: 3, Status: model.CaseStatusClosed, VoteEndAt: f.now.Add(-time.Hour)})

	res, err := svc.CloseExpired(context.Background())
	if err != nil || res.Matched != 0 {
		t.Fatalf("res = %+v err = %v", res, err)
	}
	if f.getCase(t, c.ID).Status != model.CaseStatusClosed || notifier.total() != 0 {
		t.Fatal("closed case touched")
	}
}
