package service

import (
	"Gavel/internal/repository"
	"context"
	"errors"
	log "log/slog"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	PreconditionFailed  = 412
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrMissionTypeInvalid  = errors.New("未知的任务类型")
	ErrVoteTypeInvalid     = errors.New("未知的投票类型")
	ErrUnauthenticated     = errors.New("缺少登录凭据")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrCaseNotFound        = errors.New("案件不存在")
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrMissionNotMet       = errors.New("任务条件未达成")
	ErrNoHotListedCase     = errors.New("没有可领取奖励的热门案件")
	ErrMissionClaimed      = errors.New("奖励已领取")
	ErrAlreadyVoted        = errors.New("已经投过票")
	ErrCommentNotOwned     = errors.New("只能删除自己的评论")
	ErrNoticeNotFound      = errors.New("通知不存在")
	ErrTransactionConflict = errors.New("请求冲突，请稍后重试")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrMissionTypeInvalid:  BadRequest,
	ErrVoteTypeInvalid:     BadRequest,
	ErrUnauthenticated:     Unauthorized,
	ErrUserNotFound:        NotFound,
	ErrCaseNotFound:        NotFound,
	ErrCommentNotFound:     NotFound,
	ErrMissionNotMet:       PreconditionFailed,
	ErrNoHotListedCase:     PreconditionFailed,
	ErrMissionClaimed:      Conflict,
	ErrAlreadyVoted:        Conflict,
	ErrCommentNotOwned:     Forbidden,
	ErrNoticeNotFound:      NotFound,
	ErrTransactionConflict: InternalServerError,
	UnExpectedError:        InternalServerError,
}

// CodeOf 返回错误对应的业务码，未登记的错误返回 false
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for known, code := range ErrorMap {
		if errors.Is(err, known) {
			return code, true
		}
	}
	return 0, false
}

// wrapTxError 乐观事务重试耗尽时统一转换为内部错误
func wrapTxError(ctx context.Context, op string, err error) error {
	if errors.Is(err, repository.ErrTxContention) {
		log.ErrorContext(ctx, op+" contention", "err", err)
		return ErrTransactionConflict
	}
	return err
}
