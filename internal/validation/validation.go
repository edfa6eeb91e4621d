// Package validation registers custom binding rules on gin's validator engine
// and turns binding failures into messages the admin UI can show verbatim.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/newsai/admin-api/internal/model"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("articlestatus", func(fl validator.FieldLevel) bool {
		return model.ValidArticleStatus(model.ArticleStatus(fl.Field().String()))
	})
	_ = v.RegisterValidation("adstatus", func(fl validator.FieldLevel) bool {
		return model.ValidAdStatus(model.AdStatus(fl.Field().String()))
	})
}

// Message flattens a binding error into a single operator-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "articlestatus", "adstatus":
		return fmt.Sprintf("%v is not a valid %s", fe.Value(), field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
