package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/condkit/internal/cond"
)

// FormatResult is the rendered expression of a document.
type FormatResult struct {
	Name        string `json:"name,omitempty"`
	Expression  string `json:"expression"`
	Fingerprint string `json:"fingerprint"`
}

// NewFormatCommand creates the format command.
func NewFormatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "format <document>",
		Short: "Print the condition tree of a filter document",
		Long: `Print the condition tree of a filter document in its readable form,
e.g. firstName == "Test1" && !( age < 18 ).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runFormat(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter, err := opts.start(cmd)
	if err != nil {
		return err
	}

	loadResult, err := LoadDocument(path, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}

	text, err := cond.Format(loadResult.Tree)
	if err != nil {
		return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
	}

	fingerprint, err := cond.Fingerprint(loadResult.Tree)
	if err != nil {
		return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
	}
	formatter.VerboseLog("Fingerprint %s", fingerprint)

	if formatter.Format == "json" {
		return formatter.Success(FormatResult{
			Name:        loadResult.Document.Name,
			Expression:  text,
			Fingerprint: fingerprint,
		})
	}
	return formatter.Success(text)
}
