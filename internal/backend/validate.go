package backend

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requiredFields lists, per command, the Request fields that are validated.
// A command with no entry is unknown.
var requiredFields = map[Command][]string{
	ListDirs:      nil,
	OpenDir:       {"Path"},
	OpenItem:      {"Path"},
	GoHome:        nil,
	GoBack:        nil,
	GoToDir:       {"Directory"},
	SearchFor:     {"FileName"},
	CreateFolder:  {"FolderName"},
	CreateFile:    {"FileName"},
	RenameElement: {"Path", "NewName"},
	DeleteItem:    {"ActFileName"},
	CopyPaste:     {"ActFileName", "FromPath"},
	ArrCopyPaste:  {"ArrItems"},
	CompressItem:  {"FromPath"},
	ExtractItem:   {"FromPath"},
	ListDisks:     nil,
	SwitchView:    {"ViewMode"},
	CheckConfig:   nil,
	GetCurrentDir: nil,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
		return isBaseName(fl.Field().String())
	})
	return v
}

// isBaseName reports whether name can be used as a single path element.
func isBaseName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// Validate checks that req names a known command and carries the fields that
// command needs.
func Validate(req Request) error {
	if req.Command == "" {
		return failf(KindInvalid, "missing command")
	}
	fields, ok := requiredFields[req.Command]
	if !ok {
		return failf(KindUnsupported, "unknown command %q", req.Command)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := validate.StructPartial(req, fields...); err != nil {
		return AsFailure(err)
	}
	return nil
}

func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", e.Field(), e.Tag(), e.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
