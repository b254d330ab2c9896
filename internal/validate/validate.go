package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"lostpets/internal/domain"
)

// Messages shown to the user, one per rule, in rule order.
const (
	MsgName     = "Имя должно быть на русском языке и без лишних пробелов."
	MsgPhone    = `Телефон должен содержать только цифры и знак "+" (до 15 цифр).`
	MsgEmail    = "Введите корректный адрес электронной почты."
	MsgPassword = "Пароль должен содержать минимум 7 символов, включая одну заглавную букву, одну строчную и одну цифру."
	MsgMismatch = "Пароли должны совпадать."
	MsgRequired = "Пожалуйста, заполните все обязательные поля."
)

// Custom validation tags
const (
	TagRuName   = "ru_name"   // Cyrillic letters, ё/Ё, whitespace and hyphen
	TagPhone    = "pet_phone" // optional leading +, 1-15 digits
	TagEmail    = "pet_email" // local@domain.tld with a 2-6 letter tld
	TagPassword = "pet_pwd"   // 7+ latin letters/digits with lower, upper and digit
)

var (
	reName  = regexp.MustCompile(`^[а-яА-ЯёЁ\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}\-]+$`)
	rePhone = regexp.MustCompile(`^\+?\d{1,15}$`)
	reEmail = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

	// RE2 has no lookahead; the class requirements are checked separately.
	rePassword = regexp.MustCompile(`^[a-zA-Z\d]{7,}$`)
	reLower    = regexp.MustCompile(`[a-z]`)
	reUpper    = regexp.MustCompile(`[A-Z]`)
	reDigit    = regexp.MustCompile(`\d`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

var rules = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(TagRuName, func(fl validator.FieldLevel) bool { return Name(fl.Field().String()) })
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool { return Phone(fl.Field().String()) })
	_ = v.RegisterValidation(TagEmail, func(fl validator.FieldLevel) bool { return Email(fl.Field().String()) })
	_ = v.RegisterValidation(TagPassword, func(fl validator.FieldLevel) bool { return Password(fl.Field().String()) })
	return v
}

// requiredFields is the final catch-all check.
type requiredFields struct {
	Name    string `validate:"required"`
	Phone   string `validate:"required"`
	Email   string `validate:"required"`
	Photo   bool   `validate:"required"`
	Consent bool   `validate:"required"`
}

// Listing runs the form rules in order and returns the message of the first
// one that fails, or "" when the draft can be submitted.
func Listing(d *domain.ListingDraft) string {
	if rules.Var(d.Name, TagRuName) != nil {
		return MsgName
	}
	if rules.Var(d.Phone, TagPhone) != nil {
		return MsgPhone
	}
	if rules.Var(d.Email, TagEmail) != nil {
		return MsgEmail
	}
	if d.Registering {
		if rules.Var(d.Password, TagPassword) != nil {
			return MsgPassword
		}
		if d.Password != d.PasswordConfirmation {
			return MsgMismatch
		}
	}
	_, hasPhoto := d.Photo(0)
	req := requiredFields{Name: d.Name, Phone: d.Phone, Email: d.Email, Photo: hasPhoto, Consent: d.Consent}
	if rules.Struct(req) != nil {
		return MsgRequired
	}
	return ""
}

// Name checks the owner name: non-blank, Cyrillic letters, hyphens and
// any Unicode whitespace.
func Name(s string) bool {
	return strings.TrimFunc(s, isBlank) != "" && reName.MatchString(s)
}

// isBlank matches what browsers trim: Unicode spaces plus the BOM.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func Phone(s string) bool { return rePhone.MatchString(s) }

func Email(s string) bool { return reEmail.MatchString(s) }

// Password enforces the registration policy: at least 7 characters drawn
// from latin letters and digits with one lowercase, one uppercase and one
// digit.
func Password(s string) bool {
	return rePassword.MatchString(s) && reLower.MatchString(s) && reUpper.MatchString(s) && reDigit.MatchString(s)
}

// ID validates a listing identifier taken from the URL.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}
