package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	app_errors "capture-gpt/backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies; the largest legitimate payload is a
// message of 32000 characters.
const maxBodyBytes = 1 << 20

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance lazily builds the shared validator. Field errors are reported
// with their JSON names.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// decodeRequest reads a JSON body into payload and validates it. Every
// failure wraps app_errors.ErrValidation.
func decodeRequest(r *http.Request, payload interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid request payload: %s", app_errors.ErrValidation, err.Error())
	}
	return validateRequest(payload)
}

// validateRequest checks payload against its `validate` struct tags.
func validateRequest(payload interface{}) error {
	err := getInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: an unexpected error occurred during validation: %s", app_errors.ErrValidation, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("%w: %s", app_errors.ErrValidation, strings.Join(messages, "; "))
}
