package util

import (
	"reflect"
	"testing"
)

func TestArrayUnique(t *testing.T) {
	got := ArrayUnique([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ArrayUnique = %v, want %v", got, want)
	}

	// 空切片返回空切片而不是 nil
	if got := ArrayUnique(nil); got == nil || len(got) != 0 {
		t.Errorf("ArrayUnique(nil) = %v, want empty slice", got)
	}
}

func TestDifference(t *testing.T) {
	cases := []struct {
		a, b, want []string
	}{
		{[]string{"g1", "g2", "g3"}, []string{"g2"}, []string{"g1", "g3"}},
		{[]string{"g1", "g1", "g2"}, []string{}, []string{"g1", "g2"}},
		{[]string{}, []string{"g1"}, []string{}},
		{[]string{"g1"}, []string{"g1"}, []string{}},
	}
	for _, c := range cases {
		got := Difference(c.a, c.b)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Difference(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestAppendUnique(t *testing.T) {
	arr := []string{"a", "b"}

	arr = AppendUnique(arr, "c")
	if !reflect.DeepEqual(arr, []string{"a", "b", "c"}) {
		t.Errorf("AppendUnique new value = %v", arr)
	}

	// 已存在的值不重复追加
	arr = AppendUnique(arr, "b")
	if !reflect.DeepEqual(arr, []string{"a", "b", "c"}) {
		t.Errorf("AppendUnique existing value = %v", arr)
	}
}

func TestRemoveValue(t *testing.T) {
	got := RemoveValue([]string{"a", "b", "a", "c"}, "a")
	want := []string{"b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RemoveValue = %v, want %v", got, want)
	}

	// 不存在的值保持原样
	got = RemoveValue([]string{"a", "b"}, "x")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("RemoveValue missing value = %v", got)
	}
}

func TestInSlice(t *testing.T) {
	if !InSlice([]string{"a", "b"}, "a") {
		t.Error("InSlice should find existing string")
	}
	if InSlice([]string{"a", "b"}, "c") {
		t.Error("InSlice should not find missing string")
	}
	if !InSlice([]int64{1, 2, 3}, int64(2)) {
		t.Error("InSlice should work with int64")
	}
}
