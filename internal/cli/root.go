package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/condkit/internal/config"
	"github.com/roach88/condkit/internal/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config, Logger and TraceID are resolved on first use unless set.
	Config  *config.Config
	Logger  *zap.Logger
	TraceID string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the condkit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "condkit",
		Short: "condkit - typed condition trees",
		Long: `Work with filter documents: boolean condition trees over typed attributes.

Documents are YAML, JSON or CUE files. condkit formats them, validates
them, compares them and compiles them to parameterized SQL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default condkit.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	cmd.AddCommand(NewFormatCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewEqualCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// prepare resolves the configuration and the logger for cmd. Flags set on
// cmd override the config file and environment.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if o.Config == nil {
		cfg, err := config.Load(o.ConfigFile, cmd.Flags())
		if err != nil {
			return err
		}
		o.Config = cfg
	}
	if o.TraceID == "" {
		o.TraceID = uuid.NewString()
	}
	if o.Logger == nil {
		lo := o.Config.LoggerOptions()
		if o.Verbose {
			lo.Level = "debug"
		}
		lo.Output = cmd.ErrOrStderr()
		l, err := logger.New(lo)
		if err != nil {
			return err
		}
		o.Logger = l.With(zap.String("trace_id", o.TraceID), zap.String("command", cmd.Name()))
	}
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		TraceID:   o.TraceID,
	}
}

// start prepares cmd and returns its formatter. Configuration problems are
// reported through the formatter as command errors.
func (o *RootOptions) start(cmd *cobra.Command) (*OutputFormatter, error) {
	if err := o.prepare(cmd); err != nil {
		f := o.formatter(cmd)
		return f, commandError(f, ErrCodeConfig, err.Error(), nil)
	}
	f := o.formatter(cmd)
	if o.Config.File != "" {
		f.VerboseLog("Using config file %s", o.Config.File)
	}
	return f, nil
}
