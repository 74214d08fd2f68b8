package util

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AlarmTimeLayout 提醒时间格式，本地时区
const AlarmTimeLayout = "2006-01-02T15:04"

// alarmTimePattern 提醒时间的精确格式校验
var alarmTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)

// ErrInvalidAlarmFormat 提醒时间格式错误
var ErrInvalidAlarmFormat = errors.New("alarm time must match YYYY-MM-DDTHH:MM")

// ParseAlarmTime parses an alarm string into a local time instant
// ParseAlarmTime 将提醒时间字符串解析为本地时间
// The pattern is validated before conversion, a shaped-but-impossible
// value (month 13 etc.) is still rejected by the parse step
// 先做格式校验，再做解析，形似但非法的值（如 13 月）由解析拒绝
func ParseAlarmTime(s string) (time.Time, error) {
	if !alarmTimePattern.MatchString(s) {
		return time.Time{}, ErrInvalidAlarmFormat
	}
	t, err := time.ParseInLocation(AlarmTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidAlarmFormat
	}
	return t, nil
}

// FormatAlarmTime formats a unix-milli instant back to the alarm string form
// FormatAlarmTime 将毫秒时间戳格式化回提醒时间字符串
// Zero means no alarm and formats to the empty string
// 0 表示无提醒，格式化为空字符串
func FormatAlarmTime(unixMilli int64) string {
	if unixMilli == 0 {
		return ""
	}
	return time.UnixMilli(unixMilli).In(time.Local).Format(AlarmTimeLayout)
}

// TimeParse time and date formatting
// TimeParse 时间日期格式化
func TimeParse(layout string, in string) time.Time {
	local, _ := time.LoadLocation("Local")
	timer, _ := time.ParseInLocation(layout, in, local)
	return timer
}

// ParseDuration parses duration string, supports 'd' (day) suffix
// ParseDuration 解析时间字符串，支持 'd' (天) 后缀
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	// If it is pure numbers, default to seconds
	// 如果是纯数字，默认为秒
	if _, err := strconv.Atoi(s); err == nil {
		s += "s"
	}
	return time.ParseDuration(s)
}
