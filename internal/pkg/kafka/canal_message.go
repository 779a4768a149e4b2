package kafka

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 变更后的行，DELETE 时为被删除的行
	Data []map[string]interface{} `json:"data"`

	// Old 变更前被修改的列
	Old []map[string]interface{} `json:"old"`
}

// StrToUint64 Canal 的列值一般是字符串，也兼容数字
func StrToUint64(v interface{}) uint64 {
	switch val := v.(type) {
	case string:
		n, _ := strconv.ParseUint(val, 10, 64)
		return n
	case float64:
		return uint64(val)
	case json.Number:
		n, _ := strconv.ParseUint(val.String(), 10, 64)
		return n
	case nil:
		return 0
	default:
		n, _ := strconv.ParseUint(fmt.Sprint(val), 10, 64)
		return n
	}
}

// CaseIDs 提取所有行的 case_id 并去重
func (m *CanalMessage) CaseIDs() []uint64 {
	seen := make(map[uint64]struct{}, len(m.Data))
	ids := make([]uint64, 0, len(m.Data))
	for _, row := range m.Data {
		id := StrToUint64(row["case_id"])
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
