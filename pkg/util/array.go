package util

// GetIndexSlice gets the index of a slice element
// GetIndexSlice 获取切片元素的索引
// arr: slice to search
// arr: 待查找的切片
// val: value to search for
// val: 要查找的值
// return: index of the element, or -1 if not found
// 返回值: 元素的索引，如果不存在返回-1
func GetIndexSlice(arr []string, val string) int {
	for i, v := range arr {
		if v == val {
			return i
		}
	}
	return -1
}

// InSlice determines whether an element is in a slice (generic version)
// InSlice 判断元素是否在切片中（泛型版本）
// slice: the slice // 切片
// item: the element to find // 要查找的元素
// return: bool - true if exists, false otherwise // 返回值: bool - 存在返回true，否则返回false
func InSlice[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Inarray determines whether an element is in a slice
// Inarray 判断元素是否在切片中
func Inarray(arr []string, val string) bool {
	return GetIndexSlice(arr, val) >= 0
}

// ArrayUnique removes duplicate elements from a slice
// ArrayUnique 移除切片中的重复元素
// arr: original slice // 原始切片
// return: new slice without duplicates // 返回值: 去重后的新切片
func ArrayUnique(arr []string) []string {
	result := make([]string, 0)
	m := make(map[string]bool)
	for _, v := range arr {
		if !m[v] {
			m[v] = true
			result = append(result, v)
		}
	}
	return result
}

// Difference returns the elements of a that are not in b
// Difference 返回在 a 中但不在 b 中的元素
// Order of a is preserved, duplicates in a are collapsed
// 保持 a 的顺序，a 中的重复元素会被合并
func Difference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, v := range b {
		exclude[v] = true
	}
	result := make([]string, 0)
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		if !exclude[v] && !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

// AppendUnique appends val to arr if not already present
// AppendUnique 若 val 不存在则追加到 arr
func AppendUnique(arr []string, val string) []string {
	if Inarray(arr, val) {
		return arr
	}
	return append(arr, val)
}

// RemoveValue removes all occurrences of val from arr
// RemoveValue 从 arr 中移除所有等于 val 的元素
func RemoveValue(arr []string, val string) []string {
	result := make([]string, 0, len(arr))
	for _, v := range arr {
		if v != val {
			result = append(result, v)
		}
	}
	return result
}
