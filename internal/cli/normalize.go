package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/condkit/internal/filterdoc"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	To     string // target document format
	Output string // output file path
}

// NormalizeResult is a rewritten document.
type NormalizeResult struct {
	Format   string `json:"format"`
	Document string `json:"document"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <document>",
		Short: "Rewrite a filter document in canonical form",
		Long: `Rewrite a filter document in canonical form, optionally converting it
to another format. The tree is rebuilt from the document and written back,
so equivalent documents normalize to the same text.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "target format (yaml|json|cue), defaults to the source format")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runNormalize(opts *NormalizeOptions, path string, cmd *cobra.Command) error {
	formatter, err := opts.start(cmd)
	if err != nil {
		return err
	}

	loadResult, err := LoadDocument(path, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}

	target := loadResult.Format
	if opts.To != "" {
		if target, err = filterdoc.ParseFormat(opts.To); err != nil {
			return commandError(formatter, ErrCodeUnsupported, err.Error(), nil)
		}
	}

	doc, err := filterdoc.FromTree(loadResult.Tree)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	doc.Name = loadResult.Document.Name
	doc.Description = loadResult.Document.Description

	data, err := filterdoc.Encode(doc, target)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Normalized %s from %s to %s", path, loadResult.Format, target)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]string{"format": target.String(), "output": opts.Output})
		}
		fmt.Fprintf(formatter.Writer, "Wrote %s document to %s\n", target, opts.Output)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(NormalizeResult{Format: target.String(), Document: string(data)})
	}
	_, err = formatter.Writer.Write(data)
	return err
}
