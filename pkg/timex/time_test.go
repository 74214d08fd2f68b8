package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	// Test Unix()
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}

	// Test UnixMilli()
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}

	// Test UnixMicro()
	if tt.UnixMicro() != now.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), now.UnixMicro())
	}

	// Test UnixNano()
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_ScanRoundTrip(t *testing.T) {
	src := time.Date(2024, 6, 15, 8, 30, 0, 0, time.Local)

	var tt Time
	if err := tt.Scan(src.Format(Layout)); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if tt.String() != src.Format(Layout) {
		t.Errorf("String() = %v, want %v", tt.String(), src.Format(Layout))
	}

	v, err := tt.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	got, ok := v.(time.Time)
	if !ok {
		t.Fatalf("Value() type = %T, want time.Time", v)
	}
	if !got.Equal(src) {
		t.Errorf("Value() = %v, want %v", got, src)
	}
}
