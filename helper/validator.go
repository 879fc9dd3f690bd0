package helper

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	enlocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	entranslations "gopkg.in/go-playground/validator.v9/translations/en"
)

// Validator backs gin's binding with validator.v9 so binding failures come
// out as translatable per-field errors. Installed once for the whole
// process; it reads the same `binding` tags gin uses.
var Validator = &StructValidator{}

func init() {
	binding.Validator = Validator
}

// StructValidator implements gin's binding.StructValidator.
type StructValidator struct {
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
}

func (v *StructValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

func (v *StructValidator) Engine() interface{} {
	v.lazyinit()
	return v.validate
}

func (v *StructValidator) Translator() ut.Translator {
	v.lazyinit()
	return v.trans
}

func (v *StructValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")

		en := enlocale.New()
		uni := ut.New(en, en)
		v.trans, _ = uni.GetTranslator("en")
		entranslations.RegisterDefaultTranslations(v.validate, v.trans)
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()
	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}
