package consts

const (
	CaseHotRankKey    = "case:hot"
	TokenBlacklistKey = "token:blacklist:"
)
