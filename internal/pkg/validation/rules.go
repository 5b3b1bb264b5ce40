package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule values shared by DTO tags and services
var (
	// Program initials: 2-3 ASCII letters, case is normalized later
	InitialsPattern = `^[A-Za-z]{2,3}$`

	// Language code: a single ASCII letter, or nothing
	LangCodePattern = `^[A-Za-z]?$`

	PasswordMinLength = 3
	UsernameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Initials *regexp.Regexp
	LangCode *regexp.Regexp
}{
	Initials: regexp.MustCompile(InitialsPattern),
	LangCode: regexp.MustCompile(LangCodePattern),
}

// custom validation tags & texts
const (
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	initialsTag  = "initials"
	initialsText = "{0} must be 2-3 letters"

	langCodeTag  = "langcode"
	langCodeText = "{0} must be a single letter"
)

// notBlank rejects strings made only of whitespace
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func initials(fl validator.FieldLevel) bool {
	return CompiledPatterns.Initials.MatchString(strings.TrimSpace(fl.Field().String()))
}

func langCode(fl validator.FieldLevel) bool {
	return CompiledPatterns.LangCode.MatchString(strings.TrimSpace(fl.Field().String()))
}
