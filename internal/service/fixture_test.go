package service

import (
	"Gavel/internal/model"
	"Gavel/internal/repository"
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	now     time.Time
	clock   Clock
	tx      repository.TxRunner
	users   repository.UserRepo
	cases   repository.CaseRepo
	actions repository.CaseActionRepo
	points  repository.PointHistoryRepo
}

func newFixture(t *testing.T) *fixture {
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
	// 单连接下并发调用实际串行执行，版本冲突用 staleCaseRepo/staleUserRepo 构造
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err = db.AutoMigrate(&model.User{}, &model.Case{}, &model.Vote{}, &model.CaseComment{}, &model.PointHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{
		db:      db,
		now:     time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC),
		tx:      repository.NewTxRunner(db, 5),
		users:   repository.NewUserRepo(db),
		cases:   repository.NewCaseRepo(db),
		actions: repository.NewCaseActionRepo(db),
		points:  repository.NewPointHistoryRepo(db),
	}
	f.clock = Clock{Now: func() time.Time { return f.now }, Location: time.UTC}
	return f
}

func (f *fixture) today() string {
	return f.clock.Today()
}

func (f *fixture) yesterday() string {
	return f.now.Add(-24 * time.Hour).Format("2006-01-02")
}

func (f *fixture) createUser(t *testing.T, id uint64, stats model.DailyStats) {
	t.Helper()
	if err := f.users.CreateUser(context.Background(), &model.User{ID: id, DailyStats: stats}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
}

func (f *fixture) user(t *testing.T, id uint64) *model.User {
	t.Helper()
	u, err := f.users.GetUserById(context.Background(), id)
	if err != nil || u == nil {
		t.Fatalf("GetUserById(%d): %v %v", id, u, err)
	}
	return u
}

func (f *fixture) createCase(t *testing.T, c *model.Case) *model.Case {
	t.Helper()
	if c.Title == "" {
		c.Title = "title"
	}
	if c.Content == "" {
		c.Content = "content"
	}
	if c.Status == "" {
		c.Status = model.CaseStatusOpen
	}
	if c.VoteEndAt.IsZero() {
		c.VoteEndAt = f.now.Add(24 * time.Hour)
	}
	if err := f.cases.CreateCase(context.Background(), c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	return c
}

func (f *fixture) getCase(t *testing.T, id uint64) *model.Case {
	t.Helper()
	c, err := f.cases.GetCaseByID(context.Background(), id)
	if err != nil || c == nil {
		t.Fatalf("GetCaseByID(%d): %v %v", id, c, err)
	}
	return c
}

// recordingNotifier 记录热度重算触发
type recordingNotifier struct {
	mu  sync.Mutex
	ids []uint64
}

func (r *recordingNotifier) CaseChanged(_ context.Context, caseID uint64) {
	r.mu.Lock()
	r.ids = append(r.ids, caseID)
	r.mu.Unlock()
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

// memoryRank 内存版热度榜
type memoryRank struct {
	mu     sync.Mutex
	scores map[uint64]int
	order  []uint64
}

func newMemoryRank() *memoryRank {
	return &memoryRank{scores: make(map[uint64]int)}
}

func (m *memoryRank) Update(_ context.Context, caseID uint64, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score <= 0 {
		delete(m.scores, caseID)
		return nil
	}
	m.scores[caseID] = score
	return nil
}

func (m *memoryRank) Top(_ context.Context, limit int) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) > limit {
		return m.order[:limit], nil
	}
	return m.order, nil
}
