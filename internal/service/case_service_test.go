package service

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/model"
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateCaseCountsDailyPost(t *testing.T) {
	f := newFixture(t)
	svc := NewCaseService(f.tx, f.cases, f.users, nil, f.clock)
	f.createUser(t, 1, model.DailyStats{LastActiveDate: f.today(), VoteCount: 2})

	res, err := svc.CreateCase(context.Background(), 1, &dto.CreateCaseReq{Title: " 外卖迟到 ", Content: "该不该给差评"})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if res.Status != string(model.CaseStatusOpen) || res.Title != "外卖迟到" {
		t.Fatalf("unexpected case %+v", res)
	}

	c := f.getCase(t, res.ID)
	if !c.VoteEndAt.Equal(f.now.Add(24 * time.Hour)) {
		t.Fatalf("vote end = %v", c.VoteEndAt)
	}
	stats := f.user(t, 1).DailyStats
	if stats.PostCount != 1 || stats.VoteCount != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestCreateCaseValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewCaseService(f.tx, f.cases, f.users, nil, f.clock)
	ctx := context.Background()

	if _, err := svc.CreateCase(ctx, 0, &dto.CreateCaseReq{Title: "t", Content: "c"}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.CreateCase(ctx, 1, &dto.CreateCaseReq{Title: "t", Content: "c", VoteHours: 200}); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.CreateCase(ctx, 1, &dto.CreateCaseReq{Title: " ", Content: "c"}); !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("err = %v", err)
	}

	// 用户不存在时整体回滚
	if _, err := svc.CreateCase(ctx, 404, &dto.CreateCaseReq{Title: "t", Content: "c"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v", err)
	}
	var n int64
	f.db.Model(&model.Case{}).Count(&n)
	if n != 0 {
		t.Fatalf("cases = %d, want 0", n)
	}
}

func TestGetCaseNotFound(t *testing.T) {
	f := newFixture(t)
	svc := NewCaseService(f.tx, f.cases, f.users, nil, f.clock)

	_, err := svc.GetCase(context.Background(), 1)
	if !errors.Is(err, ErrCaseNotFound) {
		t.Fatalf("err = %v", err)
	}
	if code, _ := CodeOf(err); code != NotFound {
		t.Fatalf("code = %d", code)
	}
}

func TestListHotCases(t *testing.T) {
	f := newFixture(t)
	rank := newMemoryRank()
	svc := NewCaseService(f.tx, f.cases, f.users, rank, f.clock)
	ctx := context.Background()

	a := f.createCase(t, &model.Case{AuthorID: 1, HotScore: 3})
	b := f.createCase(t, &model.Case{AuthorID: 1, HotScore: 9})
	f.createCase(t, &model.Case{AuthorID: 1})

	// 缓存为空时回源数据库
	list, err := svc.ListHotCases(ctx, 10)
	if err != nil {
		t.Fatalf("ListHotCases: %v", err)
	}
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("unexpected db order %+v", list)
	}

	// 缓存命中时按缓存顺序返回
	rank.order = []uint64{a.ID, b.ID}
	list, err = svc.ListHotCases(ctx, 10)
	if err != nil {
		t.Fatalf("ListHotCases: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID {
		t.Fatalf("unexpected cache order %+v", list)
	}
}
