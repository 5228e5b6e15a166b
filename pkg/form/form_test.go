package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Submission {
	return Submission{
		Name:    "Ada",
		Phone:   "(555) 123-4567",
		Email:   "ada@example.com",
		Message: "Two lattes to go, please.",
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, valid().Validate())

	s := valid()
	s.Name = "  Al  "
	s.Phone = "+1 555 123 4567"
	require.NoError(t, s.Validate())
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Submission)
		field string
		msg   string
	}{
		{"blank name", func(s *Submission) { s.Name = "   " }, "name", "Name is required"},
		{"short name", func(s *Submission) { s.Name = " A " }, "name", "Name must be at least 2 characters"},
		{"blank phone", func(s *Submission) { s.Phone = "" }, "phone", "Phone number is required"},
		{"short phone", func(s *Submission) { s.Phone = "555-1234" }, "phone", "Phone number must be at least 10 digits"},
		{"blank email", func(s *Submission) { s.Email = " " }, "email", "Email is required"},
		{"no tld", func(s *Submission) { s.Email = "ada@example" }, "email", "Please enter a valid email address"},
		{"spaces in email", func(s *Submission) { s.Email = "a da@example.com" }, "email", "Please enter a valid email address"},
		{"blank message", func(s *Submission) { s.Message = "" }, "message", "Message is required"},
		{"short message", func(s *Submission) { s.Message = "coffee" }, "message", "Message must be at least 10 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.edit(&s)
			err := s.Validate()

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, map[string]string{tc.field: tc.msg}, verr.Fields)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	err := Submission{}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 4)
	assert.Contains(t, err.Error(), "email: Email is required")
}

func TestCustomerIsTrimmed(t *testing.T) {
	s := valid()
	s.Name = " Ada "
	c := s.Customer()
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "(555) 123-4567", c.Phone)
}
