package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/condkit/internal/condsql"
	"github.com/roach88/condkit/internal/config"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	BaseQuery string // hand-written query the fragment is appended to
	Operator  string // written between the base query and the fragment
	Output    string // output file path
}

// CompilationResult is the compiled statement.
type CompilationResult struct {
	SQL      string    `json:"sql"`
	Bindings []Binding `json:"bindings"`
}

// Binding is a single bind value of a compiled statement.
type Binding struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <document>",
		Short: "Compile a filter document to a SQL WHERE fragment",
		Long: `Compile a filter document to a parameterized SQL WHERE fragment.

Values are never written into the SQL text. Each value is bound under a
name derived from --parameter and reported next to the statement. With
--base-query the fragment is appended to the given query, joined with
--operator.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().String("placeholder", condsql.Question.String(), "placeholder style (question|dollar|named|atnamed)")
	cmd.Flags().String("parameter", condsql.DefaultParameterName, "bind base name")
	cmd.Flags().String("mapper", config.MapperIdentity, "attribute to column mapping (identity|upper_snake|map)")
	cmd.Flags().StringVar(&opts.BaseQuery, "base-query", "", "query to append the fragment to")
	cmd.Flags().StringVar(&opts.Operator, "operator", "and", "operator between base query and fragment")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter, err := opts.start(cmd)
	if err != nil {
		return err
	}
	cfg := opts.Config

	formatter.VerboseLog("Reading %s", path)
	loadResult, err := LoadDocument(path, opts.Logger)
	if err != nil {
		return loadFailed(formatter, err)
	}

	compiler := condsql.NewCompiler(cfg.NewMapper(), opts.Logger)
	stmt := condsql.NewStatement(cfg.PlaceholderStyle())
	formatter.VerboseLog("Compiling with %s placeholders and mapper %s", stmt.Style, cfg.Mapper)

	if opts.BaseQuery != "" {
		stmt.WriteSQL(opts.BaseQuery)
		ext := &condsql.Extension{Compiler: compiler, PrecedingOperator: opts.Operator}
		params := map[string]any{cfg.Parameter: loadResult.Tree}
		_, err = ext.Apply(params, condsql.ParameterRef{Name: cfg.Parameter, Mandatory: true}, stmt)
	} else {
		err = compiler.Compile(loadResult.Tree, cfg.Parameter, stmt)
	}
	if err != nil {
		return commandError(formatter, mapTreeError(err, ErrCodeCompileFailed), err.Error(), nil)
	}

	result := newCompilationResult(stmt)

	if opts.Output != "" {
		if err := writeStatementToFile(result, opts.Output); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

func newCompilationResult(stmt *condsql.Statement) *CompilationResult {
	result := &CompilationResult{SQL: stmt.SQL(), Bindings: []Binding{}}
	args := stmt.Args()
	for i, name := range stmt.Names() {
		result.Bindings = append(result.Bindings, Binding{Name: name, Value: args[i]})
	}
	return result
}

// text renders the statement followed by one "name = value" line per
// binding.
func (r *CompilationResult) text() string {
	var b strings.Builder
	b.WriteString(r.SQL)
	b.WriteByte('\n')
	for _, binding := range r.Bindings {
		fmt.Fprintf(&b, "%s = %v\n", binding.Name, binding.Value)
	}
	return b.String()
}

// outputCompileSuccess outputs the compiled statement.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprint(formatter.Writer, result.text())
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote statement to %s\n", outputFile)
	}
	return nil
}

// writeStatementToFile writes the statement in text form to a file.
func writeStatementToFile(result *CompilationResult, filename string) error {
	return os.WriteFile(filename, []byte(result.text()), 0o644)
}
