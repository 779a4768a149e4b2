package service

import (
	"Gavel/internal/pkg/util"
	"time"
)

// Clock 当前时间与业务时区，“今天”按业务时区的日历日期计算
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) Today() string {
	return util.DayKey(c.Now(), c.Location)
}
