package validate

import (
	"regexp"
	"strings"
	_ "time/tzdata" // timezone validation must not depend on host zoneinfo

	"github.com/go-playground/validator/v10"
)

var (
	macColonRegex    = regexp.MustCompile(`^[0-9a-fA-F]{2}(:[0-9a-fA-F]{2}){5}$`)
	macBareRegex     = regexp.MustCompile(`^[0-9a-fA-F]{12}$`)
	agePublicKey     = regexp.MustCompile(`^age1[a-z0-9]{58}$`)
	webhookToken     = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	schematicIDRegex = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// registerCustomValidations adds the tags the built-in set lacks. The stock
// "mac" tag accepts EUI-64 and dash separators, which node inventories reject.
func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("mac48", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return macColonRegex.MatchString(value) || macBareRegex.MatchString(value)
	})
	_ = v.RegisterValidation("agekey", func(fl validator.FieldLevel) bool {
		return agePublicKey.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("schematic", func(fl validator.FieldLevel) bool {
		return schematicIDRegex.MatchString(fl.Field().String())
	})
}

// MACAddress accepts six hex octets, either colon-separated or unseparated.
// field names the value in the error.
func MACAddress(field, value string) error {
	if err := validate.Var(value, "required,mac48"); err != nil {
		return &SyntaxError{Field: field, Value: value, Expected: "six hex octets (aa:bb:cc:dd:ee:ff)"}
	}
	return nil
}

// Timezone checks value against the embedded IANA database.
func Timezone(value string) error {
	if err := validate.Var(value, "required,timezone"); err != nil {
		return &SyntaxError{Field: "timezone", Value: value, Expected: "an IANA timezone identifier"}
	}
	return nil
}

// Email checks address syntax only. Deliverability of the domain is probed
// separately and never fails validation.
func Email(value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return &SyntaxError{Field: "email", Value: value, Expected: "a valid email address"}
	}
	return nil
}

// EmailDomain returns the part of a syntactically valid address after '@'.
func EmailDomain(value string) string {
	if i := strings.LastIndex(value, "@"); i >= 0 {
		return value[i+1:]
	}
	return ""
}

// AgePublicKey checks the "age1" recipient format. The key is never echoed.
func AgePublicKey(value string) error {
	if err := validate.Var(value, "required,agekey"); err != nil {
		return &SyntaxError{Field: "age public key", Value: value, Expected: "age1 followed by 58 lowercase alphanumerics", Secret: true}
	}
	return nil
}

// WebhookToken checks that the token is a non-empty alphanumeric string.
func WebhookToken(value string) error {
	if !webhookToken.MatchString(value) {
		return &SyntaxError{Field: "webhook token", Value: value, Expected: "only letters and digits", Secret: true}
	}
	return nil
}

// SchematicID checks an image-factory schematic id (64 lowercase hex chars).
func SchematicID(field, value string) error {
	if err := validate.Var(value, "required,schematic"); err != nil {
		return &SyntaxError{Field: field, Value: value, Expected: "64 lowercase hex characters"}
	}
	return nil
}
