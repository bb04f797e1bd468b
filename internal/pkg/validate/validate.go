package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/crypto-notifier/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom currency tags are
// registered in init() before the first call to Struct.
var v = validator.New()

func init() {
	// Report fields by their JSON name, eg "crypto_currencies[0]".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// "fiat" and "crypto" accept only the codes in the domain currency tables.
	_ = v.RegisterValidation("fiat", func(fl validator.FieldLevel) bool {
		return domain.IsSupportedFiat(fl.Field().String())
	})
	_ = v.RegisterValidation("crypto", func(fl validator.FieldLevel) bool {
		return domain.IsSupportedCrypto(fl.Field().String())
	})
}

// Error lists the failed fields of a struct, one message per field.
type Error struct {
	Messages []string
}

func (e *Error) Error() string { return strings.Join(e.Messages, "; ") }

func (e *Error) Unwrap() error { return domain.ErrBadRequest }

// Struct validates the given struct using its validate tags.
// A failure is an *Error that matches domain.ErrBadRequest.
func Struct(s interface{}) error {
	msgs := messages(s)
	if len(msgs) == 0 {
		return nil
	}
	return &Error{Messages: msgs}
}

func messages(s interface{}) []string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	var msgs []string
	for _, fe := range ve {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("Missing %s field", fe.Field())
	case "email":
		return fmt.Sprintf("Malformed %s field", fe.Field())
	case "fiat", "crypto":
		return fmt.Sprintf("Unsupported currency %q in %s field", fe.Value(), fe.Field())
	}
	return fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag())
}
