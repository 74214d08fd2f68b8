package model

import (
	"reflect"
	"testing"
)

func TestStringSetValue(t *testing.T) {
	// nil 集合序列化为空数组
	var empty StringSet
	v, err := empty.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != "[]" {
		t.Errorf("Expected \"[]\", got %v", v)
	}

	s := StringSet{"g1", "g2"}
	v, err = s.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != `["g1","g2"]` {
		t.Errorf("Expected JSON array, got %v", v)
	}
}

func TestStringSetScan(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want StringSet
	}{
		{"nil", nil, StringSet{}},
		{"empty string", "", StringSet{}},
		{"empty array", "[]", StringSet{}},
		{"string input", `["g1","g2"]`, StringSet{"g1", "g2"}},
		{"bytes input", []byte(`["n1"]`), StringSet{"n1"}},
		{"json null", "null", StringSet{}},
	}

	for _, c := range cases {
		var s StringSet
		if err := s.Scan(c.in); err != nil {
			t.Errorf("%s: Scan failed: %v", c.name, err)
			continue
		}
		if !reflect.DeepEqual(s, c.want) {
			t.Errorf("%s: Scan = %v, want %v", c.name, s, c.want)
		}
	}

	// 不支持的类型报错
	var s StringSet
	if err := s.Scan(123); err == nil {
		t.Error("Expected error for unsupported type, but got nil")
	}
	// 非法 JSON 报错
	if err := s.Scan("{not json"); err == nil {
		t.Error("Expected error for invalid JSON, but got nil")
	}
}

func TestStringSetContains(t *testing.T) {
	s := StringSet{"g1", "g2"}
	if !s.Contains("g1") {
		t.Error("Contains should find existing element")
	}
	if s.Contains("g3") {
		t.Error("Contains should not find missing element")
	}
}
