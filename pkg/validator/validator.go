package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	valid "github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

// gin binding使用的参数校验器，注册中英文翻译

var (
	once  sync.Once
	trans ut.Translator
)

// LazyInitGinValidator 初始化gin的validator翻译器，language为zh或en
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*valid.Validate)
		if !ok {
			return
		}

		zhT := zh.New()
		enT := en.New()
		uni := ut.New(enT, zhT, enT)

		language = strings.ToLower(language)
		trans, _ = uni.GetTranslator(language)
		switch language {
		case "zh":
			_ = zhTranslations.RegisterDefaultTranslations(v, trans)
		default:
			_ = enTranslations.RegisterDefaultTranslations(v, trans)
		}
	})
}

// Translate 将校验错误翻译成可读的提示
func Translate(err error) string {
	if err == nil {
		return ""
	}
	errs, ok := err.(valid.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}
