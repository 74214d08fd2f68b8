package convert

import (
	"github.com/bytedance/sonic"
	"github.com/jinzhu/copier"
)

// StructAssign
// dst 目标结构体，src 源结构体
// 它会把src与dst的相同字段名的值，复制到dst中
func StructAssign(src any, dst any) any {
	copier.Copy(dst, src)
	return dst
}

/**
 * @Description: 结构体map互转
 * @param param interface{} 需要被转的数据
 * @param data interface{} 转换完成后的数据  需要用引用传进来
 * @return error
 */
func StructToMap(param any, data map[string]interface{}) error {
	str, _ := sonic.Marshal(param)
	err := sonic.Unmarshal(str, &data)
	if err != nil {
		return err
	}
	return nil
}
