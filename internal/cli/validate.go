package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/cond"
	"github.com/roach88/condkit/internal/errors"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	FailFast bool
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Messages []ValidationMessage `json:"messages,omitempty"`
}

// ValidationMessage is a single finding of the validator.
type ValidationMessage struct {
	Code     string `json:"code"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a filter document",
		Long: `Validate the condition tree of a filter document.

By default every finding is reported. --fail-fast stops at the first one.
With --allow-null, conditions without values and polyadic conditions with
too few values are accepted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop at the first finding")
	cmd.Flags().Bool("allow-null", false, "accept conditions without values")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter, err := opts.start(cmd)
	if err != nil {
		return err
	}
	allowNull := opts.Config.AllowNullValues

	formatter.VerboseLog("Reading %s", path)
	loadResult, err := LoadDocument(path, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}

	var messages []ValidationMessage
	if opts.FailFast {
		var verr *cond.ValidationError
		err = cond.Validate(loadResult.Tree, allowNull)
		switch {
		case errors.As(err, &verr):
			messages = append(messages, newValidationMessage(verr.Detail))
		case err != nil:
			return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
		}
	} else {
		report, err := cond.ValidateDetailed(loadResult.Tree)
		if err != nil {
			return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
		}
		for _, m := range report.All() {
			if allowNull && tolerated(m.Code) {
				formatter.VerboseLog("Ignoring %s", m)
				continue
			}
			messages = append(messages, newValidationMessage(m))
		}
	}

	opts.Logger.Debug("validated filter document",
		zap.String("path", path),
		zap.Bool("fail_fast", opts.FailFast),
		zap.Bool("allow_null", allowNull),
		zap.Int("findings", len(messages)))

	if len(messages) > 0 {
		return outputValidationErrors(formatter, messages)
	}
	return outputValidateSuccess(formatter, path)
}

// tolerated reports whether a rule is waived when null values are allowed.
func tolerated(code cond.Code) bool {
	return code == cond.CodeConditionNoValue || code == cond.CodeConditionAmountOfValuesNotInRange
}

func newValidationMessage(m cond.Message) ValidationMessage {
	return ValidationMessage{
		Code:     MapValidationCode(m.Code),
		Rule:     string(m.Code),
		Severity: m.Severity.String(),
		Message:  m.Text(),
	}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, path string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	return nil
}

// outputValidationErrors outputs every finding. Findings are check
// failures (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, messages []ValidationMessage) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(messages)))

	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Messages: messages}
		if err := formatter.Failure(messages[0].Code, messages[0].Message, result); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, m := range messages {
		fmt.Fprintf(formatter.Writer, "  %s %s %s: %s\n", m.Code, m.Severity, m.Rule, m.Message)
	}
	return failed
}
