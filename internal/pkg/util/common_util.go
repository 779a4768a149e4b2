package util

import (
	log "log/slog"
	"time"
)

const DayLayout = "2006-01-02"

// DayKey 返回 t 在 loc 时区下的日历日期
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// LoadLocation 加载失败时退回 UTC
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown timezone, falling back to UTC", "timezone", name, "err", err)
		return time.UTC
	}
	return loc
}

// NormalizePage 页码从 1 开始，size 限制在 [1, maxSize]
func NormalizePage(page, size, maxSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > maxSize {
		size = maxSize
	}
	return size, (page - 1) * size
}
