package validation

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupInput struct {
	Initials string `json:"programInitials" validate:"required,initials"`
	Language string `json:"languageCode" validate:"langcode"`
	Name     string `json:"name" validate:"notblank"`
}

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	v := validator.New()
	trans := NewTranslator()
	require.NoError(t, Init(v, trans))
	return v, trans
}

func TestCustomTags(t *testing.T) {
	v, trans := newValidator(t)

	tests := []struct {
		name   string
		input  groupInput
		failed []string
	}{
		{"valid", groupInput{"PI", "e", "x"}, nil},
		{"three letters no language", groupInput{"abc", "", "x"}, nil},
		{"initials too long", groupInput{"ABCD", "", "x"}, []string{"programInitials"}},
		{"initials with digit", groupInput{"P1", "", "x"}, []string{"programInitials"}},
		{"language too long", groupInput{"PI", "EN", "x"}, []string{"languageCode"}},
		{"blank name", groupInput{"PI", "", "   "}, []string{"name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Translate(v.Struct(tt.input), trans)
			if tt.failed == nil {
				assert.Nil(t, errs)
				return
			}
			for _, field := range tt.failed {
				assert.Contains(t, errs, field)
			}
			assert.Len(t, errs, len(tt.failed))
		})
	}
}

func TestFieldErrorsMessages(t *testing.T) {
	v, trans := newValidator(t)

	errs := Translate(v.Struct(groupInput{Initials: "", Name: "x"}), trans)
	require.Contains(t, errs, "programInitials")
	assert.Contains(t, errs["programInitials"], "programInitials")

	errs = Translate(v.Struct(groupInput{Initials: "PI", Language: "xx", Name: "x"}), trans)
	assert.Equal(t, "languageCode must be a single letter", errs["languageCode"])
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
