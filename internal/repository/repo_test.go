package repository

import (
	"Gavel/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库只在单连接内可见
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err = db.AutoMigrate(&model.User{}, &model.Case{}, &model.Vote{}, &model.CaseComment{}, &model.PointHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestTxRunnerRetriesVersionConflict(t *testing.T) {
	db := newTestDB(t)
	runner := NewTxRunner(db, 5)

	calls := 0
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		calls++
		if calls < 3 {
			return ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestTxRunnerGivesUpAfterMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	runner := NewTxRunner(db, 2)

	calls := 0
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		calls++
		return ErrVersionConflict
	})
	if !errors.Is(err, ErrTxContention) {
		t.Fatalf("err = %v, want ErrTxContention", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestTxRunnerDoesNotRetryOtherErrors(t *testing.T) {
	db := newTestDB(t)
	runner := NewTxRunner(db, 5)
	boom := errors.New("boom")

	calls := 0
	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err = %v calls = %d", err, calls)
	}
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	runner := NewTxRunner(db, 1)
	users := NewUserRepo(db)

	err := runner.Run(context.Background(), func(tx *gorm.DB) error {
		if err := users.WithTx(tx).CreateUser(context.Background(), &model.User{ID: 1}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	u, err := users.GetUserById(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserById: %v", err)
	}
	if u != nil {
		t.Fatal("user should have been rolled back")
	}
}

func TestUserUpdateWithVersion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepo(db)

	if err := users.CreateUser(ctx, &model.User{ID: 1, Points: 10}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := users.UpdateWithVersion(ctx, 1, 0, map[string]any{"points": 40}); err != nil {
		t.Fatalf("UpdateWithVersion: %v", err)
	}
	// 旧版本号写入被拒绝
	if err := users.UpdateWithVersion(ctx, 1, 0, map[string]any{"points": 99}); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale write err = %v, want ErrVersionConflict", err)
	}

	u, _ := users.GetUserById(ctx, 1)
	if u.Points != 40 || u.Version != 1 {
		t.Fatalf("points = %d version = %d", u.Points, u.Version)
	}
}

func TestCloseOpenCasesOnlyTouchesOpen(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cases := NewCaseRepo(db)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, c := range []*model.Case{
		{ID: 1, AuthorID: 9, Title: "a", Content: "a", Status: model.CaseStatusOpen, VoteEndAt: now.Add(-time.Hour)},
		{ID: 2, AuthorID: 9, Title: "b", Content: "b", Status: model.CaseStatusClosed, VoteEndAt: now.Add(-time.Hour)},
		{ID: 3, AuthorID: 9, Title: "c", Content: "c", Status: model.CaseStatusOpen, VoteEndAt: now.Add(time.Hour)},
	} {
		if err := cases.CreateCase(ctx, c); err != nil {
			t.Fatalf("CreateCase: %v", err)
		}
	}

	expired, err := cases.FindExpiredOpenCases(ctx, now)
	if err != nil {
		t.Fatalf("FindExpiredOpenCases: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != 1 {
		t.Fatalf("expired = %+v", expired)
	}

	n, err := cases.CloseOpenCases(ctx, []uint64{1, 2})
	if err != nil {
		t.Fatalf("CloseOpenCases: %v", err)
	}
	if n != 1 {
		t.Fatalf("closed = %d, want 1", n)
	}

	open, err := cases.FilterOpenIDs(ctx, []uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("FilterOpenIDs: %v", err)
	}
	if len(open) != 1 || open[0] != 3 {
		t.Fatalf("open = %v", open)
	}
}

func TestHotListCandidatePicksLowestID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cases := NewCaseRepo(db)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []*model.Case{
		{ID: 5, AuthorID: 1, Title: "x", Content: "x", Status: model.CaseStatusClosed, HotScore: 3, VoteEndAt: end},
		{ID: 4, AuthorID: 1, Title: "x", Content: "x", Status: model.CaseStatusClosed, HotScore: 9, VoteEndAt: end},
		{ID: 3, AuthorID: 1, Title: "x", Content: "x", Status: model.CaseStatusClosed, HotScore: 0, VoteEndAt: end},
		{ID: 2, AuthorID: 1, Title: "x", Content: "x", Status: model.CaseStatusOpen, HotScore: 5, VoteEndAt: end},
		{ID: 1, AuthorID: 2, Title: "x", Content: "x", Status: model.CaseStatusClosed, HotScore: 5, VoteEndAt: end},
	} {
		if err := cases.CreateCase(ctx, c); err != nil {
			t.Fatalf("CreateCase: %v", err)
		}
	}

	c, err := cases.FindHotListCandidate(ctx, 1)
	if err != nil {
		t.Fatalf("FindHotListCandidate: %v", err)
	}
	if c == nil || c.ID != 4 {
		t.Fatalf("candidate = %+v, want id 4", c)
	}

	count, err := cases.CountHotListCandidates(ctx, 1)
	if err != nil || count != 2 {
		t.Fatalf("count = %d err = %v", count, err)
	}

	if c, _ = cases.FindHotListCandidate(ctx, 3); c != nil {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestAdjustCommentCountFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cases := NewCaseRepo(db)

	if err := cases.CreateCase(ctx, &model.Case{ID: 1, AuthorID: 1, Title: "t", Content: "c", Status: model.CaseStatusOpen, CommentCount: 1}); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if err := cases.AdjustCommentCount(ctx, 1, -3); err != nil {
		t.Fatalf("AdjustCommentCount: %v", err)
	}
	c, _ := cases.GetCaseByID(ctx, 1)
	if c.CommentCount != 0 {
		t.Fatalf("comment count = %d, want 0", c.CommentCount)
	}
}

func TestDeleteCommentTree(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	actions := NewCaseActionRepo(db)

	root := &model.CaseComment{CaseID: 1, UserID: 1, Content: "root"}
	if err := actions.CreateComment(ctx, root); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := actions.CreateComment(ctx, &model.CaseComment{CaseID: 1, UserID: 2, ParentID: root.ID, Content: "reply"}); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}
	other := &model.CaseComment{CaseID: 1, UserID: 3, Content: "other"}
	if err := actions.CreateComment(ctx, other); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	removed, err := actions.DeleteCommentTree(ctx, root.ID)
	if err != nil {
		t.Fatalf("DeleteCommentTree: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	n, _ := actions.GetCommentCountByCaseID(ctx, 1)
	if n != 1 {
		t.Fatalf("remaining = %d, want 1", n)
	}
}

func TestCreateVoteRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	actions := NewCaseActionRepo(db)

	if err := actions.CreateVote(ctx, &model.Vote{CaseID: 1, UserID: 1, VoteType: model.VoteGuilty}); err != nil {
		t.Fatalf("CreateVote: %v", err)
	}
	err := actions.CreateVote(ctx, &model.Vote{CaseID: 1, UserID: 1, VoteType: model.VoteInnocent})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want ErrDuplicatedKey", err)
	}

	exists, err := actions.CheckVoteExists(ctx, 1, 1)
	if err != nil || !exists {
		t.Fatalf("exists = %v err = %v", exists, err)
	}
}

func TestPointHistoryListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	points := NewPointHistoryRepo(db)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, reason := range []string{"LEVEL_0", "LEVEL_1", "LEVEL_2"} {
		if err := points.CreatePointHistory(ctx, &model.PointHistory{
			UserID: 1, Type: model.PointTypeEarn, Amount: 10, Reason: reason, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("CreatePointHistory: %v", err)
		}
	}

	list, err := points.ListByUserID(ctx, 1, 2, 0)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(list) != 2 || list[0].Reason != "LEVEL_2" || list[1].Reason != "LEVEL_1" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
