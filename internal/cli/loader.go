package cli

import (
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
	"github.com/roach88/condkit/internal/filterdoc"
)

// LoadResult is a decoded filter document together with its tree.
type LoadResult struct {
	Path     string
	Format   filterdoc.Format
	Document *filterdoc.Document
	Tree     cond.Connectable
}

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadDocument reads the filter document at path and builds its tree.
// Failures are returned as *LoadError carrying an error code.
func LoadDocument(path string, logger *zap.Logger) (*LoadResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing document: %v", err), Err: err}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	format, err := filterdoc.FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: err.Error(), Path: path, Err: err}
	}

	loader := &filterdoc.Loader{Logger: logger}
	doc, err := loader.ReadFile(path)
	if err != nil {
		return nil, convertLoadError(err, path)
	}
	tree, err := doc.Build()
	if err != nil {
		return nil, convertLoadError(err, path)
	}
	return &LoadResult{Path: path, Format: format, Document: doc, Tree: tree}, nil
}

// convertLoadError classifies a loader or builder error.
func convertLoadError(err error, path string) *LoadError {
	code := ErrCodeGeneric
	switch {
	case errors.Is(err, errors.ErrInvalidDocument):
		code = ErrCodeInvalidDocument
	case errors.IsConstructionError(err):
		code = ErrCodeBuildFailed
	}
	return &LoadError{Code: code, Message: err.Error(), Path: path, Err: err}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeNotFound        = "E002" // Document not found
	ErrCodeUnsupported     = "E003" // Unsupported document format
	ErrCodeInvalidDocument = "E004" // Document does not match the schema
	ErrCodeBuildFailed     = "E005" // Tree construction failed
	ErrCodeConfig          = "E006" // Invalid configuration
	ErrCodeWriteFailed     = "E007" // File write error

	// Tree validation errors
	ErrCodeConditionless = "E101" // Expression without condition
	ErrCodeNoAttribute   = "E102" // Condition without attribute name
	ErrCodeNoOperator    = "E103" // Condition without operator
	ErrCodeNoValue       = "E104" // Condition without value
	ErrCodeValueCount    = "E105" // Value count outside the operator arity
	ErrCodeCycle         = "E106" // Tree contains a cycle

	// Compilation errors
	ErrCodeCompileFailed    = "E301" // SQL compilation failed
	ErrCodeMissingParameter = "E302" // Mandatory parameter absent
)

// MapValidationCode maps a validation rule to an error code.
func MapValidationCode(code cond.Code) string {
	switch code {
	case cond.CodeExpressionConditionless:
		return ErrCodeConditionless
	case cond.CodeConditionNoAttributeName:
		return ErrCodeNoAttribute
	case cond.CodeConditionNoOperator:
		return ErrCodeNoOperator
	case cond.CodeConditionNoValue:
		return ErrCodeNoValue
	case cond.CodeConditionAmountOfValuesNotInRange:
		return ErrCodeValueCount
	default:
		return ErrCodeGeneric
	}
}

// mapTreeError picks the error code for a failed validation or compilation.
func mapTreeError(err error, fallback string) string {
	var verr *cond.ValidationError
	switch {
	case errors.As(err, &verr):
		return MapValidationCode(verr.Code)
	case cond.IsCycleError(err):
		return ErrCodeCycle
	case errors.Is(err, errors.ErrMissingParameter):
		return ErrCodeMissingParameter
	default:
		return fallback
	}
}

// loadFailed reports a load error as a command error.
func loadFailed(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = f.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, "load document", loadErr)
	}
	return commandError(f, ErrCodeGeneric, err.Error(), nil)
}
