package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Phone numbers: optional leading +, digits with optional spaces or dashes.
	PhonePattern = `^\+?[0-9][0-9 \-]{5,18}[0-9]$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Phone *regexp.Regexp
}{
	Phone: regexp.MustCompile(PhonePattern),
}

// Custom binding tags registered by RegisterRules.
const (
	TagPhone = "phone"
)

// RegisterRules adds the custom tags to v so they can be used in binding:"..."
// struct tags.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation(TagPhone, validatePhone); err != nil {
		return fmt.Errorf("failed to register %q rule: %w", TagPhone, err)
	}
	return nil
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}
