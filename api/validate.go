package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/rpupo63/blog-platform/errs"
)

type validator struct {
	valid *v10.Validate
}

// newValidator reports fields by their json names. Besides the built-in rules
// it knows notblank (not only whitespace) and nomarkup (no HTML elements).
func newValidator() validator {
	v := v10.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	strict := bluemonday.StrictPolicy()
	_ = v.RegisterValidation("notblank", func(fl v10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("nomarkup", func(fl v10.FieldLevel) bool {
		return !hasMarkup(strict, fl.Field().String())
	})
	return validator{v}
}

// hasMarkup reports whether the strict policy would drop part of in. Text is
// compared unescaped on both sides, so entities and stray '<' are not markup.
func hasMarkup(strict *bluemonday.Policy, in string) bool {
	return html.UnescapeString(strict.Sanitize(in)) != html.UnescapeString(in)
}

// validate returns a 400 fault for the first rule structPtr breaks.
func (v validator) validate(structPtr any) error {
	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var verrs v10.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.NewInternalErrorWithCause("validation failed", err)
	}

	ve := verrs[0]
	switch ve.Tag() {
	case "required", "notblank":
		return errs.NewMissingRequiredFieldError(ve.Field())
	case "max":
		return errs.NewInvalidFieldError(ve.Field(), fmt.Sprintf("must be at most %s characters", ve.Param()))
	case "nomarkup":
		return errs.NewInvalidFieldError(ve.Field(), "must not contain markup")
	default:
		return errs.NewInvalidFieldError(ve.Field(), fmt.Sprintf("failed %s rule", ve.Tag()))
	}
}

// decodeBody unmarshals the JSON body read by the body middleware into dst.
// An absent body decodes as an empty object.
func decodeBody(r *http.Request, dst any) error {
	body := ctxGetRawBody(r.Context())
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewInvalidJSONError(err)
	}
	return nil
}
