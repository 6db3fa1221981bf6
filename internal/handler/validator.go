package handler

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Validator adapts validator.Validate to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate validates a request struct using its validate tags
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return &domain.ValidationError{Err: err}
	}
	return nil
}

// FlexInt is an integer that also accepts a quoted number in JSON. Forms in
// the web client submit select values as strings.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := data
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	*n = FlexInt(v)
	return nil
}
