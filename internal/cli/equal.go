package cli

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/cond"
)

// EqualityResult holds the outcome of comparing two documents.
type EqualityResult struct {
	Equal        bool      `json:"equal"`
	Fingerprints [2]string `json:"fingerprints"`
	Diff         string    `json:"diff,omitempty"`
}

// NewEqualCommand creates the equal command.
func NewEqualCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equal <document> <document>",
		Short: "Compare the condition trees of two filter documents",
		Long: `Compare the condition trees of two filter documents.

Trees are equal when they have the same shape, negations, attributes,
operators and values. The documents may use different formats. Exits with
code 1 when the trees differ.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEqual(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runEqual(opts *RootOptions, pathA, pathB string, cmd *cobra.Command) error {
	formatter, err := opts.start(cmd)
	if err != nil {
		return err
	}

	a, err := LoadDocument(pathA, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}
	b, err := LoadDocument(pathB, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}

	structural, err := cond.Equal(a.Tree, b.Tree)
	if err != nil {
		return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
	}
	tokens, err := cond.EqualTokens(a.Tree, b.Tree)
	if err != nil {
		return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
	}
	if structural != tokens {
		opts.Logger.Warn("equality strategies disagree",
			zap.Bool("structural", structural),
			zap.Bool("tokens", tokens))
	}

	result := EqualityResult{Equal: structural && tokens}
	for i, tree := range []cond.Connectable{a.Tree, b.Tree} {
		if result.Fingerprints[i], err = cond.Fingerprint(tree); err != nil {
			return commandError(formatter, mapTreeError(err, ErrCodeGeneric), err.Error(), nil)
		}
	}
	if !result.Equal {
		result.Diff, err = tokenDiff(a.Tree, b.Tree)
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
		}
	}
	return outputEquality(formatter, result, pathA, pathB)
}

// tokenDiff renders the difference of the token streams of a and b.
func tokenDiff(a, b cond.Connectable) (string, error) {
	ta, err := tokenStrings(a)
	if err != nil {
		return "", err
	}
	tb, err := tokenStrings(b)
	if err != nil {
		return "", err
	}
	return cmp.Diff(ta, tb), nil
}

func tokenStrings(node cond.Connectable) ([]string, error) {
	tokens, err := cond.Tokens(node)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.String()
	}
	return out, nil
}

func outputEquality(formatter *OutputFormatter, result EqualityResult, pathA, pathB string) error {
	if result.Equal {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ %s and %s are equal\n", pathA, pathB)
		return nil
	}

	failed := NewExitError(ExitFailure, fmt.Sprintf("%s and %s differ", pathA, pathB))
	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		return failed
	}
	fmt.Fprintf(formatter.Writer, "✗ %s and %s differ (-%s +%s)\n\n%s", pathA, pathB, pathA, pathB, result.Diff)
	return failed
}
