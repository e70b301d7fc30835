package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
)

func init() {
	// Report fields by their JSON names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

// bindJSON decodes the body into dst and keeps the raw bytes for rawBody. An empty
// body is allowed when allowEmpty is set. Failures come back as 400 validation errors.
func bindJSON(c *gin.Context, dst interface{}, allowEmpty bool) error {
	err := c.ShouldBindBodyWith(dst, binding.JSON)
	if err == nil {
		return nil
	}
	if allowEmpty && errors.Is(err, io.EOF) {
		if verr := binding.Validator.ValidateStruct(dst); verr != nil {
			return bindError(verr)
		}
		return nil
	}
	return bindError(err)
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return apperrors.Validation(fields)
	}
	return apperrors.FieldError("body", "must be a valid JSON object")
}

// rawBody returns the request body cached by bindJSON.
func rawBody(c *gin.Context) json.RawMessage {
	if v, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := v.([]byte); ok {
			return json.RawMessage(b)
		}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
