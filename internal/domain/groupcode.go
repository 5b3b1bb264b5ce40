// Package domain holds the pure rules of the academic model: the group code
// format and grade arithmetic. Nothing here touches storage.
package domain

import (
	"strconv"
	"strings"

	"github.com/yigit/ais/internal/pkg/apperrors"
)

const (
	MinInitialsLen = 2
	MaxInitialsLen = 3
	MinStartYear   = 0
	MaxStartYear   = 99
)

// GroupCodeParts are the fields a group code is derived from
type GroupCodeParts struct {
	ProgramInitials string
	StartYear       int
	// LanguageCode is empty when the group has no language suffix
	LanguageCode string
}

// NormalizeInitials trims and uppercases program initials and checks the 2-3 letter rule
func NormalizeInitials(initials string) (string, error) {
	initials = strings.ToUpper(strings.TrimSpace(initials))
	if initials == "" {
		return "", apperrors.NewValidationError("program initials are required")
	}
	if len(initials) < MinInitialsLen || len(initials) > MaxInitialsLen || !isASCIILetters(initials) {
		return "", apperrors.NewValidationError("program initials must be %d-%d letters", MinInitialsLen, MaxInitialsLen)
	}
	return initials, nil
}

// NormalizeLanguageCode trims and uppercases the language code. Empty is allowed.
func NormalizeLanguageCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", nil
	}
	if len(code) != 1 || !isASCIILetters(code) {
		return "", apperrors.NewValidationError("language code must be exactly 1 letter")
	}
	return code, nil
}

// ValidateStartYear checks the two digit start year
func ValidateStartYear(year int) error {
	if year < MinStartYear || year > MaxStartYear {
		return apperrors.NewValidationError("start year must be between %d and %d", MinStartYear, MaxStartYear)
	}
	return nil
}

// Normalize validates every part and returns the canonical form
func (p GroupCodeParts) Normalize() (GroupCodeParts, error) {
	initials, err := NormalizeInitials(p.ProgramInitials)
	if err != nil {
		return GroupCodeParts{}, err
	}
	if err := ValidateStartYear(p.StartYear); err != nil {
		return GroupCodeParts{}, err
	}
	lang, err := NormalizeLanguageCode(p.LanguageCode)
	if err != nil {
		return GroupCodeParts{}, err
	}
	return GroupCodeParts{ProgramInitials: initials, StartYear: p.StartYear, LanguageCode: lang}, nil
}

// Code renders already normalized parts
func (p GroupCodeParts) Code() string {
	return p.ProgramInitials + strconv.Itoa(p.StartYear) + p.LanguageCode
}

// BuildGroupCode derives the group code, e.g. ("pi", 24, "e") -> "PI24E"
func BuildGroupCode(initials string, startYear int, languageCode string) (string, error) {
	parts, err := GroupCodeParts{
		ProgramInitials: initials,
		StartYear:       startYear,
		LanguageCode:    languageCode,
	}.Normalize()
	if err != nil {
		return "", err
	}
	return parts.Code(), nil
}

// ParseGroupCode splits a canonical group code back into its parts.
// Codes that BuildGroupCode would not produce are rejected.
func ParseGroupCode(code string) (GroupCodeParts, error) {
	invalid := apperrors.NewValidationError("invalid group code %q", code)

	i := 0
	for i < len(code) && isASCIILetter(code[i]) {
		i++
	}
	j := i
	for j < len(code) && code[j] >= '0' && code[j] <= '9' {
		j++
	}
	if i == 0 || j == i || len(code)-j > 1 {
		return GroupCodeParts{}, invalid
	}

	year, err := strconv.Atoi(code[i:j])
	if err != nil {
		return GroupCodeParts{}, invalid
	}

	parts := GroupCodeParts{
		ProgramInitials: code[:i],
		StartYear:       year,
		LanguageCode:    code[j:],
	}
	normalized, err := parts.Normalize()
	if err != nil || normalized.Code() != code {
		return GroupCodeParts{}, invalid
	}
	return normalized, nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) {
			return false
		}
	}
	return true
}
