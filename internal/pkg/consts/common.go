package consts

// Canal 变更类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// 触发方式
const (
	TriggerModeKafka = "kafka"
	TriggerModeLocal = "local"
)

const (
	DefaultVoteHours = 24
	MaxVoteHours     = 168
)
