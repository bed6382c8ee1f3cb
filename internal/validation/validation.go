package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError reports a single violated rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every rule violation found in a payload. Validation never
// stops at the first invalid field.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	validate = newValidator()

	// Same email shape the persisted schema enforces.
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	idPattern    = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("useremail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// CreateUserInput is the create payload after JSON decoding. Unknown fields
// are discarded by the decoder before this struct is populated.
type CreateUserInput struct {
	Name   string  `json:"name" validate:"required,min=2,max=50"`
	Email  string  `json:"email" validate:"required,useremail"`
	Age    *int    `json:"age" validate:"omitnil,gte=0,lte=150"`
	Status *string `json:"status" validate:"omitnil,oneof=active inactive"`
}

// UpdateUserInput is the partial update payload. Nil means "not provided".
type UpdateUserInput struct {
	Name   *string `json:"name" validate:"omitnil,min=2,max=50"`
	Email  *string `json:"email" validate:"omitnil,useremail"`
	Age    *int    `json:"age" validate:"omitnil,gte=0,lte=150"`
	Status *string `json:"status" validate:"omitnil,oneof=active inactive"`
}

// ValidateCreate normalizes the payload in place (trimming, lower-casing the
// email, defaulting status to active) and returns every violated rule.
func ValidateCreate(in *CreateUserInput) Errors {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Status == nil {
		active := "active"
		in.Status = &active
	}
	return collect(validate.Struct(in))
}

// ValidateUpdate normalizes the provided fields in place. A payload that
// carries no known fields at all fails with a structural error.
func ValidateUpdate(in *UpdateUserInput) Errors {
	if in.Name == nil && in.Email == nil && in.Age == nil && in.Status == nil {
		return Errors{{Field: "body", Message: "At least one field must be provided"}}
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &normalized
	}
	return collect(validate.Struct(in))
}

// ValidateUserID checks the 24-hex record identifier token. It never touches
// the store.
func ValidateUserID(id string) Errors {
	if !idPattern.MatchString(id) {
		return Errors{{Field: "id", Message: "Invalid ID format"}}
	}
	return nil
}

func collect(err error) Errors {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "body", Message: err.Error()}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "name.required":
		return "Name is required"
	case "name.min":
		return "Name must be at least 2 characters long"
	case "name.max":
		return "Name cannot be longer than 50 characters"
	case "email.required":
		return "Email is required"
	case "email.useremail":
		return "Please enter a valid email address"
	case "age.gte":
		return "Age cannot be negative"
	case "age.lte":
		return "Age cannot be more than 150"
	case "status.oneof":
		return "Status must be either active or inactive"
	case "page.gte":
		return "Page must be 1 or greater"
	case "limit.gte", "limit.lte":
		return "Limit must be between 1 and 100"
	case "sort.oneof":
		return "Unsupported sort field"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
