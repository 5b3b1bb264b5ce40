package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/domain"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/validation"
)

// Services defined in this package:
// - AuthService: login and session lookup
// - AdminService: student and teacher accounts, dashboard counts
// - GroupService: groups, their curriculum and usage info
// - SubjectService: subjects
// - AssignmentService: teacher-subject assignments
// - GradeService: administrative grade management and statistics
// - TeacherService: grade work of a teacher, gated by active assignments
// - StudentService: a student's own profile, grades and report

// normalizeUsername trims the username and checks it is usable
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username cannot be empty", apperrors.ErrValidationFailed)
	}
	if utf8.RuneCountInString(username) > validation.UsernameMaxLength {
		return "", fmt.Errorf("%w: username must be at most %d characters", apperrors.ErrValidationFailed, validation.UsernameMaxLength)
	}
	return username, nil
}

// validatePassword checks the minimum password length
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < validation.PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidationFailed, validation.PasswordMinLength)
	}
	return nil
}

// summaryOf turns a store aggregate into a rounded summary
func summaryOf(agg models.GradeAggregate) domain.GradeSummary {
	if agg.Count == 0 {
		return domain.GradeSummary{}
	}
	return domain.GradeSummary{
		Count:   agg.Count,
		Average: agg.Average,
		Min:     agg.Min,
		Max:     agg.Max,
	}.Rounded()
}
