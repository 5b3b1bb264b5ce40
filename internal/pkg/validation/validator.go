// Package validation wires the request validator: English messages, JSON
// field names and the custom tags used by request DTOs.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	translator ut.Translator
	once       sync.Once

	ginOnce sync.Once
	ginErr  error
)

// Init configures validate with translations, JSON names and custom tags
func Init(validate *validator.Validate, trans ut.Translator) error {
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return err
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	custom := []struct {
		tag  string
		text string
		fn   validator.Func
	}{
		{notBlankTag, notBlankText, notBlank},
		{initialsTag, initialsText, initials},
		{langCodeTag, langCodeText, langCode},
	}
	for _, c := range custom {
		if err := validate.RegisterValidation(c.tag, c.fn); err != nil {
			return err
		}
		registerTranslation(validate, trans, c.tag, c.text)
	}
	return nil
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// NewTranslator returns a fresh English translator
func NewTranslator() ut.Translator {
	enLocale := en.New()
	trans, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	return trans
}

// Translator returns the translator registered on gin's engine
func Translator() ut.Translator {
	once.Do(func() {
		translator = NewTranslator()
	})
	return translator
}

// RegisterGinValidator installs the configuration on gin's binding engine.
// Only the first call does any work.
func RegisterGinValidator() error {
	ginOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			ginErr = errors.New("unexpected validator engine")
			return
		}
		ginErr = Init(v, Translator())
	})
	return ginErr
}

// FieldErrors maps each failing field to a readable message using the gin
// translator. It returns nil when err is not a validator error.
func FieldErrors(err error) map[string]string {
	return Translate(err, Translator())
}

// Translate is FieldErrors with an explicit translator
func Translate(err error, trans ut.Translator) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}
