// Package validate checks patient form data before any write reaches the store.
//
// The store trusts its caller, so every insert and update goes through Check
// first. Rules:
//   - nombre is required
//   - dni is required and must contain at least 7 digits once non-digits are stripped
//   - edad, when present, is an integer in [0, 120]
//   - telefono, when present, is at least 6 of [0-9 +-()]
//   - email, when present, looks like local@domain.tld
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/consultorio/internal/apperr"
	"github.com/roach88/consultorio/internal/record"
)

const (
	MinDNIDigits = 7
	MinEdad      = 0
	MaxEdad      = 120
)

var (
	phonePattern = regexp.MustCompile(`^[0-9 +\-()]{6,}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	nonDigits    = regexp.MustCompile(`[^\d]`)
)

// input mirrors the validated subset of a record. Field order decides which
// message wins when several rules fail.
type input struct {
	Nombre   string `validate:"required"`
	DNI      string `validate:"required,dni_digits"`
	Edad     string `validate:"omitempty,edad_entero,edad_rango"`
	Telefono string `validate:"omitempty,telefono"`
	Email    string `validate:"omitempty,email_basico"`
}

// messages maps struct field and failing tag to the user-facing message.
var messages = map[string]string{
	"Nombre.required":    "El nombre es obligatorio.",
	"DNI.required":       "El DNI es obligatorio.",
	"DNI.dni_digits":     fmt.Sprintf("El DNI debe ser numérico (mínimo %d dígitos).", MinDNIDigits),
	"Edad.edad_entero":   "La edad debe ser un número entero.",
	"Edad.edad_rango":    fmt.Sprintf("La edad debe estar entre %d y %d.", MinEdad, MaxEdad),
	"Telefono.telefono":  "El teléfono tiene un formato inválido.",
	"Email.email_basico": "El email no tiene un formato válido.",
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	custom := map[string]validator.Func{
		"dni_digits":   validateDNI,
		"edad_entero":  validateEdadEntero,
		"edad_rango":   validateEdadRango,
		"telefono":     validateTelefono,
		"email_basico": validateEmail,
	}
	for tag, fn := range custom {
		if err := val.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
	return val
}

// Validate is the collaborator contract: it reports whether data may be
// written and, if not, a human-readable reason.
func Validate(data map[string]string) (bool, string) {
	if err := Check(data); err != nil {
		return false, apperr.MessageOf(err)
	}
	return true, ""
}

// Check validates data and returns an apperr validation error on the first
// failing rule.
func Check(data map[string]string) error {
	in := input{
		Nombre:   strings.TrimSpace(data[record.Nombre]),
		DNI:      strings.TrimSpace(data[record.DNI]),
		Edad:     strings.TrimSpace(data[record.Edad]),
		Telefono: strings.TrimSpace(data[record.Telefono]),
		Email:    strings.TrimSpace(data[record.Email]),
	}

	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	first := verrs[0]
	msg, ok := messages[first.StructField()+"."+first.Tag()]
	if !ok {
		msg = fmt.Sprintf("El campo %s no es válido.", strings.ToLower(first.StructField()))
	}
	return apperr.Validation(msg)
}

// CheckRecord validates a record's fields.
func CheckRecord(p record.Patient) error {
	return Check(p.Map())
}

// NormalizeDNI strips every non-digit character.
func NormalizeDNI(dni string) string {
	return nonDigits.ReplaceAllString(dni, "")
}

func validateDNI(fl validator.FieldLevel) bool {
	return len(NormalizeDNI(fl.Field().String())) >= MinDNIDigits
}

func validateEdadEntero(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(fl.Field().String())
	return err == nil
}

func validateEdadRango(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Field().String())
	return err == nil && n >= MinEdad && n <= MaxEdad
}

func validateTelefono(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}
