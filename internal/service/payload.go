package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// methodOverrideKey is consumed by the HTTP method override middleware and
// is never part of a payload.
const methodOverrideKey = "_method"

var (
	formDecoder = newFormDecoder()
	validate    = newValidator()
)

// PostPayload is the only shape accepted for creating or updating a post.
type PostPayload struct {
	Title       string `schema:"title" validate:"required"`
	Description string `schema:"description" validate:"required"`
}

type CommentPayload struct {
	Body string `schema:"body" validate:"required"`
}

type RegisterRequest struct {
	Username string `schema:"username" validate:"required,alphanum,min=3,max=32"`
	Email    string `schema:"email" validate:"required,email"`
	Password string `schema:"password" validate:"required,min=6"`
}

// ParsePostPayload decodes an untrusted form into a PostPayload. Unknown keys
// are rejected so that protected fields (author, comments) cannot be set from
// a request body.
func ParsePostPayload(form map[string][]string) (PostPayload, error) {
	var p PostPayload
	fields := decodeForm(&p, form)

	p.Title = strings.TrimSpace(p.Title)
	fields = append(fields, validateStruct(p)...)

	if len(fields) > 0 {
		return PostPayload{}, newValidationError(fields)
	}
	return p, nil
}

func ParseCommentPayload(form map[string][]string) (CommentPayload, error) {
	var p CommentPayload
	fields := decodeForm(&p, form)
	fields = append(fields, validateStruct(p)...)

	if len(fields) > 0 {
		return CommentPayload{}, newValidationError(fields)
	}
	return p, nil
}

func ParseRegisterPayload(form map[string][]string) (RegisterRequest, error) {
	var p RegisterRequest
	fields := decodeForm(&p, form)

	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)
	fields = append(fields, validateStruct(p)...)

	if len(fields) > 0 {
		return RegisterRequest{}, newValidationError(fields)
	}
	return p, nil
}

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	return d
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

func decodeForm(dst any, form map[string][]string) []FieldError {
	src := make(map[string][]string, len(form))
	for k, v := range form {
		if k == methodOverrideKey {
			continue
		}
		src[k] = v
	}

	err := formDecoder.Decode(dst, src)
	if err == nil {
		return nil
	}

	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return []FieldError{{Field: "", Message: "payload is malformed"}}
	}

	out := make([]FieldError, 0, len(multi))
	for key, e := range multi {
		var unknown schema.UnknownKeyError
		if errors.As(e, &unknown) {
			out = append(out, FieldError{Field: key, Message: fmt.Sprintf("%s is not allowed", key)})
			continue
		}
		out = append(out, FieldError{Field: key, Message: fmt.Sprintf("%s is invalid", key)})
	}
	return out
}

func validateStruct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func newValidationError(fields []FieldError) *ValidationError {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Field != fields[j].Field {
			return fields[i].Field < fields[j].Field
		}
		return fields[i].Message < fields[j].Message
	})
	return &ValidationError{Fields: fields}
}

// checkRequest runs the struct rules of a service request.
func checkRequest(req any) error {
	if fields := validateStruct(req); len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}
