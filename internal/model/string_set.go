package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/bytedance/sonic"
)

// StringSet 以 JSON 数组形式存储的字符串集合列
// 保持插入顺序，元素唯一性由写入方保证
type StringSet []string

// Value 实现 driver.Valuer，空集合存储为 "[]"
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := sonic.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner，NULL 与空串按空集合处理
func (s *StringSet) Scan(value interface{}) error {
	if value == nil {
		*s = StringSet{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringSet: %T", value)
	}

	if len(data) == 0 {
		*s = StringSet{}
		return nil
	}

	var out []string
	if err := sonic.Unmarshal(data, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}

// Contains 判断集合是否包含指定元素
func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}
