package app

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

// ValidatorInterface 自定义验证器需要实现的接口
type ValidatorInterface interface {
	ValidateStruct(obj any) error
	Engine() any
}

type ValidError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 将所有错误消息拼接为单个字符串
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ",")
}

// Maps 按字段名组织错误消息
func (v ValidErrors) Maps() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// MapsToString 按字段名组织错误消息并序列化为 JSON 字符串
func (v ValidErrors) MapsToString() string {
	s, err := sonic.MarshalString(v.Maps())
	if err != nil {
		return v.ErrorsToString()
	}
	return s
}

// BindAndValid 绑定请求参数并验证
// 验证失败时使用请求上下文中的翻译器翻译错误消息
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	err := c.ShouldBind(v)
	if err != nil {
		verrs, ok := err.(val.ValidationErrors)
		if !ok {
			errs = append(errs, &ValidError{
				Key:     "body",
				Message: err.Error(),
			})
			return false, errs
		}

		var trans ut.Translator
		if v, exist := c.Get("trans"); exist {
			trans, _ = v.(ut.Translator)
		}

		for _, verr := range verrs {
			message := verr.Error()
			if trans != nil {
				message = verr.Translate(trans)
			}
			errs = append(errs, &ValidError{
				Key:     verr.Field(),
				Message: message,
			})
		}
		return false, errs
	}

	return true, nil
}
