package service

import (
	"Gavel/internal/model"
	"Gavel/internal/repository"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

// countingTxRunner 统计事务体实际执行次数
type countingTxRunner struct {
	repository.TxRunner
	attempts atomic.Int32
}

func (r *countingTxRunner) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.TxRunner.Run(ctx, func(tx *gorm.DB) error {
		r.attempts.Add(1)
		return fn(tx)
	})
}

// staleReads 前 left 次读取返回旧快照，模拟读到另一事务提交前的数据
type staleReads struct {
	mu   sync.Mutex
	left int
}

func (s *staleReads) take() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left <= 0 {
		return false
	}
	s.left--
	return true
}

type staleCaseRepo struct {
	repository.CaseRepo
	snapshot model.Case
	reads    *staleReads
}

func newStaleCaseRepo(inner repository.CaseRepo, snapshot *model.Case, n int) *staleCaseRepo {
	return &staleCaseRepo{CaseRepo: inner, snapshot: *snapshot, reads: &staleReads{left: n}}
}

func (r *staleCaseRepo) WithTx(tx *gorm.DB) repository.CaseRepo {
	return &staleCaseRepo{CaseRepo: r.CaseRepo.WithTx(tx), snapshot: r.snapshot, reads: r.reads}
}

func (r *staleCaseRepo) GetCaseByID(ctx context.Context, id uint64) (*model.Case, error) {
	if id == r.snapshot.ID && r.reads.take() {
		c := r.snapshot
		return &c, nil
	}
	return r.CaseRepo.GetCaseByID(ctx, id)
}

func (r *staleCaseRepo) FindHotListCandidate(ctx context.Context, authorID uint64) (*model.Case, error) {
	if authorID == r.snapshot.AuthorID && r.reads.take() {
		c := r.snapshot
		return &c, nil
	}
	return r.CaseRepo.FindHotListCandidate(ctx, authorID)
}

type staleUserRepo struct {
	repository.UserRepo
	snapshot model.User
	reads    *staleReads
}

func newStaleUserRepo(inner repository.UserRepo, snapshot *model.User, n int) *staleUserRepo {
	return &staleUserRepo{UserRepo: inner, snapshot: *snapshot, reads: &staleReads{left: n}}
}

func (r *staleUserRepo) WithTx(tx *gorm.DB) repository.UserRepo {
	return &staleUserRepo{UserRepo: r.UserRepo.WithTx(tx), snapshot: r.snapshot, reads: r.reads}
}

func (r *staleUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	if id == r.snapshot.ID && r.reads.take() {
		u := r.snapshot
		return &u, nil
	}
	return r.UserRepo.GetUserById(ctx, id)
}

func TestAddVoteRetriesOnStaleCaseVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, 1, model.DailyStats{})
	f.createUser(t, 2, model.DailyStats{})
	c := f.createCase(t, &model.Case{AuthorID: 9})
	snapshot := f.getCase(t, c.ID)

	if err := newCaseActionService(f, nil).AddVote(ctx, c.ID, 1, "GUILTY"); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	runner := &countingTxRunner{TxRunner: f.tx}
	cases := newStaleCaseRepo(f.cases, snapshot, 1)
	svc := NewCaseActionService(runner, f.actions, cases, f.users, nil, f.clock)
	if err := svc.AddVote(ctx, c.ID, 2, "GUILTY"); err != nil {
		t.Fatalf("second vote: %v", err)
	}

	if got := runner.attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
	got := f.getCase(t, c.ID)
	if got.GuiltyCount != 2 || got.Version != 2 {
		t.Fatalf("case = %+v, want guilty 2 at version 2", got)
	}
	votes, _ := f.actions.GetVoteCountByCaseID(ctx, c.ID)
	if votes != 2 {
		t.Fatalf("votes = %d", votes)
	}
	if f.user(t, 2).DailyStats.VoteCount != 1 {
		t.Fatalf("voter stats = %+v", f.user(t, 2).DailyStats)
	}
}

func TestAddVoteGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, 1, model.DailyStats{})
	f.createUser(t, 2, model.DailyStats{})
	c := f.createCase(t, &model.Case{AuthorID: 9})
	snapshot := f.getCase(t, c.ID)

	if err := newCaseActionService(f, nil).AddVote(ctx, c.ID, 1, "INNOCENT"); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	const maxAttempts = 3
	runner := &countingTxRunner{TxRunner: repository.NewTxRunner(f.db, maxAttempts)}
	cases := newStaleCaseRepo(f.cases, snapshot, maxAttempts)
	notifier := &recordingNotifier{}
	svc := NewCaseActionService(runner, f.actions, cases, f.users, notifier, f.clock)

	err := svc.AddVote(ctx, c.ID, 2, "INNOCENT")
	if !errors.Is(err, ErrTransactionConflict) {
		t.Fatalf("err = %v, want ErrTransactionConflict", err)
	}
	if code, _ := CodeOf(err); code != InternalServerError {
		t.Fatalf("code = %d", code)
	}
	if got := runner.attempts.Load(); got != maxAttempts {
		t.Fatalf("attempts = %d, want %d", got, maxAttempts)
	}

	got := f.getCase(t, c.ID)
	if got.InnocentCount != 1 {
		t.Fatalf("innocent = %d, want 1", got.InnocentCount)
	}
	votes, _ := f.actions.GetVoteCountByCaseID(ctx, c.ID)
	if votes != 1 {
		t.Fatalf("votes = %d, rolled back vote survived", votes)
	}
	if f.user(t, 2).DailyStats.VoteCount != 0 {
		t.Fatal("voter stats written by failed vote")
	}
	if notifier.count() != 0 {
		t.Fatal("failed vote triggered recompute")
	}
}

func TestClaimLevel3LosingRaceSeesNoCandidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, 1, model.DailyStats{})
	c := f.createCase(t, &model.Case{AuthorID: 1, Status: model.CaseStatusClosed, HotScore: 12})
	snapshot := f.getCase(t, c.ID)

	res, err := newMissionService(f).ClaimReward(ctx, 1, "LEVEL_3")
	if err != nil || res.CaseID != c.ID {
		t.Fatalf("winner res = %+v err = %v", res, err)
	}

	// 落败方第一次读到的仍是未上榜的旧版本
	runner := &countingTxRunner{TxRunner: f.tx}
	loser := NewMissionService(runner, f.users, newStaleCaseRepo(f.cases, snapshot, 1), f.points, f.clock)
	_, err = loser.ClaimReward(ctx, 1, "LEVEL_3")
	if !errors.Is(err, ErrNoHotListedCase) {
		t.Fatalf("loser err = %v, want ErrNoHotListedCase", err)
	}
	if got := runner.attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}

	if f.user(t, 1).Points != 100 {
		t.Fatalf("points = %d, want 100", f.user(t, 1).Points)
	}
	history, _ := f.points.ListByUserID(ctx, 1, 10, 0)
	if len(history) != 1 {
		t.Fatalf("history entries = %d", len(history))
	}
	if got := f.getCase(t, c.ID); !got.IsHotListed || got.Version != 1 {
		t.Fatalf("case = %+v", got)
	}
}

func TestClaimLevel1LosingRaceSeesClaimedFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, 1, model.DailyStats{LastActiveDate: f.today(), VoteCount: 5})
	snapshot := f.user(t, 1)

	if _, err := newMissionService(f).ClaimReward(ctx, 1, "LEVEL_1"); err != nil {
		t.Fatalf("winner: %v", err)
	}

	runner := &countingTxRunner{TxRunner: f.tx}
	loser := NewMissionService(runner, newStaleUserRepo(f.users, snapshot, 1), f.cases, f.points, f.clock)
	_, err := loser.ClaimReward(ctx, 1, "LEVEL_1")
	if !errors.Is(err, ErrMissionClaimed) {
		t.Fatalf("loser err = %v, want ErrMissionClaimed", err)
	}
	if got := runner.attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}
	if f.user(t, 1).Points != 30 {
		t.Fatalf("points = %d, want 30", f.user(t, 1).Points)
	}
	history, _ := f.points.ListByUserID(ctx, 1, 10, 0)
	if len(history) != 1 {
		t.Fatalf("history entries = %d", len(history))
	}
}

func TestClaimRetryKeepsConcurrentVoteCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, 1, model.DailyStats{LastActiveDate: f.today(), VoteCount: 5})
	snapshot := f.user(t, 1)
	c := f.createCase(t, &model.Case{AuthorID: 9})

	// 领取前另一请求完成了一次投票
	if err := newCaseActionService(f, nil).AddVote(ctx, c.ID, 1, "GUILTY"); err != nil {
		t.Fatalf("AddVote: %v", err)
	}

	runner := &countingTxRunner{TxRunner: f.tx}
	svc := NewMissionService(runner, newStaleUserRepo(f.users, snapshot, 1), f.cases, f.points, f.clock)
	res, err := svc.ClaimReward(ctx, 1, "LEVEL_1")
	if err != nil {
		t.Fatalf("ClaimReward: %v", err)
	}
	if res.Points != 30 {
		t.Fatalf("res = %+v", res)
	}
	if got := runner.attempts.Load(); got != 2 {
		t.Fatalf("attempts = %d, want 2", got)
	}

	u := f.user(t, 1)
	if u.DailyStats.VoteCount != 6 || !u.DailyStats.IsLevel1Claimed || u.Points != 30 {
		t.Fatalf("user = %+v", u)
	}
}
