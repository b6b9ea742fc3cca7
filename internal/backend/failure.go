package backend

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
)

// FailureKind classifies a backend failure for the front end.
type FailureKind string

const (
	KindNotFound    FailureKind = "not_found"
	KindPermission  FailureKind = "permission"
	KindInvalid     FailureKind = "invalid"
	KindExists      FailureKind = "exists"
	KindUnsupported FailureKind = "unsupported"
	KindInternal    FailureKind = "internal"
)

// Failure is the typed error carried back in a Response.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

func failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsFailure converts any error into a Failure, classifying file-system and
// validation errors. It returns nil for a nil error.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return &Failure{Kind: KindInvalid, Message: describeValidation(verrs)}
	case errors.Is(err, fs.ErrNotExist):
		return &Failure{Kind: KindNotFound, Message: err.Error()}
	case errors.Is(err, fs.ErrPermission):
		return &Failure{Kind: KindPermission, Message: err.Error()}
	case errors.Is(err, fs.ErrExist):
		return &Failure{Kind: KindExists, Message: err.Error()}
	case errors.Is(err, errors.ErrUnsupported):
		return &Failure{Kind: KindUnsupported, Message: err.Error()}
	}
	return &Failure{Kind: KindInternal, Message: err.Error()}
}
