package util

import (
	"testing"
	"time"
)

func TestParseAlarmTime(t *testing.T) {
	// 合法格式
	parsed, err := ParseAlarmTime("2026-09-01T08:30")
	if err != nil {
		t.Fatalf("ParseAlarmTime failed: %v", err)
	}
	want := time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local)
	if !parsed.Equal(want) {
		t.Errorf("Expected %v, got %v", want, parsed)
	}

	// 形不似的值直接拒绝
	invalid := []string{
		"",
		"tomorrow",
		"2026-09-01",
		"2026-09-01 08:30",
		"2026-09-01T08:30:00",
		"26-09-01T08:30",
	}
	for _, s := range invalid {
		if _, err := ParseAlarmTime(s); err == nil {
			t.Errorf("Expected error for %q, but got nil", s)
		}
	}

	// 形似但非法的值由解析拒绝
	if _, err := ParseAlarmTime("2026-13-01T10:00"); err == nil {
		t.Error("Expected error for impossible month, but got nil")
	}
	if _, err := ParseAlarmTime("2026-02-30T10:00"); err == nil {
		t.Error("Expected error for impossible day, but got nil")
	}
}

func TestFormatAlarmTime(t *testing.T) {
	// 0 表示无提醒
	if got := FormatAlarmTime(0); got != "" {
		t.Errorf("Expected empty string for zero, got %q", got)
	}

	// 往返一致
	parsed, err := ParseAlarmTime("2026-09-01T08:30")
	if err != nil {
		t.Fatalf("ParseAlarmTime failed: %v", err)
	}
	if got := FormatAlarmTime(parsed.UnixMilli()); got != "2026-09-01T08:30" {
		t.Errorf("Expected round trip to 2026-09-01T08:30, got %q", got)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"365d", 365 * 24 * time.Hour},
		{"30m", 30 * time.Minute},
		{"1h", time.Hour},
		{"90", 90 * time.Second}, // 纯数字按秒处理
		{" 10m ", 10 * time.Minute},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseDuration("abc"); err == nil {
		t.Error("Expected error for invalid duration, but got nil")
	}
	if _, err := ParseDuration("xd"); err == nil {
		t.Error("Expected error for invalid day count, but got nil")
	}
}
