package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/simple-lms/console/pkg/serrors"
)

var ErrInvalid = serrors.NewError("VALIDATION_FAILED", "validation failed", "Errors.Validation")

// Error carries per-field messages keyed by JSON field name.
type Error struct {
	*serrors.BaseError
	Fields serrors.ValidationErrors
}

func (e *Error) Unwrap() error {
	return e.BaseError
}

type instance struct {
	validate *validator.Validate
	trans    ut.Translator
}

var use = sync.OnceValue(func() *instance {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}
	return &instance{validate: v, trans: trans}
})

// Struct validates s and returns an *Error listing every failing field.
func Struct(s any) error {
	in := use()
	err := in.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalid.WithCause(err)
	}
	fields := make(serrors.ValidationErrors, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(in.trans)
	}
	return &Error{BaseError: ErrInvalid, Fields: fields}
}

// FieldsOf returns the field messages carried by err, if any.
func FieldsOf(err error) (serrors.ValidationErrors, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}
