package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"customer-manager-api/internal/interface/api/rest/dto/customer"
)

const phoneTag = "customer_phone"

var (
	phoneRe = regexp.MustCompile(`^\+\d{6,14}$`)

	validate = newValidate()
)

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names (fullName) instead of Go names (FullName)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// ParseID accepts positive integers only.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// NormalizeCreate trims every field and puts the name in NFC so that length
// limits count what a reader sees. A blank phone becomes nil.
func NormalizeCreate(r *customer.CreateRequest) {
	r.FullName = normalizeName(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = normalizePhone(r.Phone)
}

func NormalizeUpdate(r *customer.UpdateRequest) {
	r.FullName = normalizeName(r.FullName)
	r.Phone = normalizePhone(r.Phone)
}

func ValidateCreate(r customer.CreateRequest) map[string]string {
	return fieldErrors(validate.Struct(r))
}

func ValidateUpdate(r customer.UpdateRequest) map[string]string {
	return fieldErrors(validate.Struct(r))
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func normalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return map[string]string{"body": err.Error()}
	}

	errs := make(map[string]string, len(ves))
	for _, fe := range ves {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}

	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min", "max":
		if fe.Field() == "fullName" {
			return "fullName length must be 2–50 characters"
		}
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "invalid email format"
	case phoneTag:
		return "must start with + followed by 6–14 digits (e.g., +1234567890)"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
