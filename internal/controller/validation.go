package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jt828/api-relay/pkg/apperror"
)

const maxBodyBytes = 10 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("jsonobject", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(json.RawMessage)
		if !ok {
			return false
		}
		raw = bytes.TrimSpace(raw)
		return len(raw) > 0 && raw[0] == '{'
	})
	return v
}

// decodeJSON reads a JSON object body into dst and runs its validate tags.
// Any failure is an invalid argument carrying message.
func decodeJSON(r *http.Request, dst any, message string) error {
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return apperror.New(apperror.ErrInvalidArgument, message, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return apperror.New(apperror.ErrInvalidArgument, message, errBodyNotObject)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperror.New(apperror.ErrInvalidArgument, message, err)
	}

	if err := validate.Struct(dst); err != nil {
		return apperror.New(apperror.ErrInvalidArgument, message, err)
	}
	return nil
}
