// Package validator 提供基于 go-playground/validator 的自定义验证器
// 实现 gin binding.StructValidator 接口，可直接替换 gin 默认验证器
package validator

import (
	"reflect"
	"sync"

	"github.com/dailynotes/daily-note-sync-service/pkg/util"

	"github.com/gin-gonic/gin/binding"
	val "github.com/go-playground/validator/v10"
)

// CustomValidator 自定义验证器
type CustomValidator struct {
	once     sync.Once
	validate *val.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 验证结构体，nil 与非结构体直接放行
func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}

	value := reflect.ValueOf(obj)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine 返回底层 validator 实例，供注册翻译器和自定义标签使用
func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = val.New()
		v.validate.SetTagName("binding")
	})
}

// RegisterCustom 注册自定义验证标签
// 需要在 binding.Validator 替换为 CustomValidator 之后调用
func RegisterCustom() {
	validate, ok := binding.Validator.Engine().(*val.Validate)
	if !ok {
		return
	}

	// alarmtime 校验 "2006-01-02T15:04" 格式的提醒时间，空值放行
	_ = validate.RegisterValidation("alarmtime", func(fl val.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := util.ParseAlarmTime(s)
		return err == nil
	})
}
