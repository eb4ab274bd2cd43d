// Package validate decodes JSON request bodies and runs struct tag rules
// through go-playground/validator, reporting failures field by field.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
)

const maxBodyBytes = 1 << 20

// Messages maps a JSON field name to the message shown when any rule on
// that field fails. A "field.tag" key overrides it for one rule.
type Messages map[string]string

// Request is a body type that knows its own field messages.
type Request interface {
	FieldMessages() Messages
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		// "required" accepts whitespace-only strings
		_ = instance.RegisterValidation("notblank", validators.NotBlank)
		// "max" counts runes; bcrypt limits bytes
		_ = instance.RegisterValidation("maxbytes", maxBytes)
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates s. The result is nil when every rule passes.
func Struct(s any, msgs Messages) []apierror.FieldError {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierror.FieldError{{Msg: err.Error(), Location: "body"}}
	}
	out := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = fmt.Sprintf("%s failed %s", field, fe.Tag())
		}
		out = append(out, apierror.FieldError{Msg: msg, Path: field, Location: "body"})
	}
	return out
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Decode reads a JSON body into dst and validates it. An empty body is
// validated as an empty object so missing fields are reported individually.
func Decode(r *http.Request, dst Request) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apierror.BadRequest("invalid payload")
	}
	if fields := Struct(dst, dst.FieldMessages()); len(fields) > 0 {
		return apierror.Validation(fields...)
	}
	return nil
}
