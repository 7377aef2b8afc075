package employee

import (
	"context"
	"fmt"
	"strings"

	"employee-service/internal/upload"

	"github.com/go-playground/validator/v10"
)

// Mode selects which admission rules apply: a create must carry every
// required field, an update only validates the fields it supplies.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Field error codes. Every rejected field carries exactly one of these.
const (
	CodeRequired             = "Required"
	CodeInvalidFormat        = "InvalidFormat"
	CodeDuplicateEmail       = "DuplicateEmail"
	CodeNotNumeric           = "NotNumeric"
	CodeLengthOutOfRange     = "LengthOutOfRange"
	CodeUnsupportedMediaType = "UnsupportedMediaType"
	CodeFileTooLarge         = "FileTooLarge"
)

type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
	Msg   string `json:"msg"`
}

// ValidationErrors is the full list of problems with a submission. All
// field checks run independently; nothing short-circuits on first failure.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// CandidateFields are the caller-supplied values proposed for a create or
// update. An empty string means "not supplied"; a nil Image means no file
// was uploaded. The validator returns a trimmed copy of the accepted subset.
type CandidateFields struct {
	Name        string
	Email       string
	MobileNo    string
	Designation string
	Gender      string
	Course      string
	Image       *upload.File
}

// EmailExistsFunc reports whether another record already holds the given
// address. excludeID carries the record's own id during an update so a
// record never conflicts with itself; it is zero on create.
type EmailExistsFunc func(ctx context.Context, email string, excludeID int64) (bool, error)

type Validator struct {
	validate      *validator.Validate
	emailExists   EmailExistsFunc
	maxImageBytes int64
}

func NewValidator(emailExists EmailExistsFunc, maxImageBytes int64) *Validator {
	return &Validator{
		validate:      validator.New(),
		emailExists:   emailExists,
		maxImageBytes: maxImageBytes,
	}
}

// Validate decides whether the candidate is admissible and returns the
// trimmed subset of fields to apply. On ModeUpdate only supplied, non-empty
// fields are checked; omitted fields keep their stored values. The returned
// error is ValidationErrors when the submission is at fault, or a plain
// error when the duplicate-email lookup itself failed.
func (v *Validator) Validate(ctx context.Context, c CandidateFields, mode Mode, existing *Employee) (CandidateFields, error) {
	var errs ValidationErrors

	accepted := CandidateFields{
		Name:        strings.TrimSpace(c.Name),
		Email:       strings.TrimSpace(c.Email),
		MobileNo:    strings.TrimSpace(c.MobileNo),
		Designation: strings.TrimSpace(c.Designation),
		Gender:      strings.TrimSpace(c.Gender),
		Course:      strings.TrimSpace(c.Course),
		Image:       c.Image,
	}

	create := mode == ModeCreate

	if accepted.Name == "" && create {
		errs = append(errs, FieldError{Field: "name", Code: CodeRequired, Msg: "Name is required"})
	}
	if accepted.Designation == "" && create {
		errs = append(errs, FieldError{Field: "designation", Code: CodeRequired, Msg: "Designation is required"})
	}
	if accepted.Course == "" && create {
		errs = append(errs, FieldError{Field: "course", Code: CodeRequired, Msg: "Course is required"})
	}

	switch {
	case accepted.Gender == "" && create:
		errs = append(errs, FieldError{Field: "gender", Code: CodeRequired, Msg: "Gender is required"})
	case accepted.Gender != "" && accepted.Gender != GenderMale && accepted.Gender != GenderFemale && accepted.Gender != GenderOther:
		errs = append(errs, FieldError{Field: "gender", Code: CodeInvalidFormat, Msg: "Gender must be male, female or other"})
	}

	if accepted.Email != "" || create {
		if v.validate.Var(accepted.Email, "required,email") != nil {
			errs = append(errs, FieldError{Field: "email", Code: CodeInvalidFormat, Msg: "Invalid email format"})
		} else if v.emailExists != nil {
			var excludeID int64
			if existing != nil {
				excludeID = existing.ID
			}
			taken, err := v.emailExists(ctx, accepted.Email, excludeID)
			if err != nil {
				return CandidateFields{}, fmt.Errorf("email uniqueness check failed: %w", err)
			}
			if taken {
				errs = append(errs, FieldError{Field: "email", Code: CodeDuplicateEmail, Msg: "Email already in use"})
			}
		}
	}

	if accepted.MobileNo != "" || create {
		if !isDigits(accepted.MobileNo) {
			errs = append(errs, FieldError{Field: "mobileNo", Code: CodeNotNumeric, Msg: "Mobile number must be numeric"})
		}
		if len(accepted.MobileNo) < 10 || len(accepted.MobileNo) > 15 {
			errs = append(errs, FieldError{Field: "mobileNo", Code: CodeLengthOutOfRange, Msg: "Mobile number must be between 10-15 digits"})
		}
	}

	switch {
	case accepted.Image == nil && create:
		errs = append(errs, FieldError{Field: "image", Code: CodeRequired, Msg: "Image is required"})
	case accepted.Image != nil:
		if accepted.Image.ContentType != "image/jpeg" && accepted.Image.ContentType != "image/png" {
			errs = append(errs, FieldError{Field: "image", Code: CodeUnsupportedMediaType, Msg: "Only JPG and PNG files are allowed"})
		}
		if v.maxImageBytes > 0 && accepted.Image.Size > v.maxImageBytes {
			errs = append(errs, FieldError{Field: "image", Code: CodeFileTooLarge, Msg: fmt.Sprintf("Image must not exceed %d bytes", v.maxImageBytes)})
		}
	}

	if len(errs) > 0 {
		return CandidateFields{}, errs
	}
	return accepted, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
