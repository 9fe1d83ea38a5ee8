package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jsonmend/internal/config"
	"jsonmend/internal/logging"
	"jsonmend/internal/processor"
	"jsonmend/internal/sanitize"
	"jsonmend/internal/validate"
)

var (
	// Global flags
	verbose    bool
	configPath string
	schemaPath string
	logSteps   bool

	// Loaded configuration and logger, set up in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jsonmend",
	Short: "jsonmend - repair malformed JSON emitted by language models",
	Long: `jsonmend takes text that is supposed to be JSON but is not quite,
runs it through an ordered pipeline of repair strategies (stripped code
fences, comma fixes, bracket rebalancing, truncation completion, ...)
and re-attempts a parse after every repair.

It prints the first repaired text that parses, or a failure report
carrying the original text, the most-repaired text and every strategy
that was applied.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.NewLogger(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// repairCmd repairs one or more inputs
var repairCmd = &cobra.Command{
	Use:   "repair [file...]",
	Short: "Repair JSON from files or stdin",
	Long: `Repairs each input and prints the result. With no arguments, or with
"-" as a file name, reads from stdin. Multiple files are processed
concurrently.

Example:
  jsonmend repair response.txt
  curl -s $MODEL_URL | jsonmend repair -
  jsonmend repair --schema reply.schema.json response.txt`,
	RunE: runRepair,
}

// stepsCmd lists the strategy order
var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List the repair strategies in execution order",
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, s := range sanitize.Default() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, s.Name())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to jsonmend.yaml")

	repairCmd.Flags().StringVar(&schemaPath, "schema", "", "JSON Schema file to validate repaired values against")
	repairCmd.Flags().BoolVar(&logSteps, "log-steps", false, "log applied strategies per input")

	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(stepsCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	opts := processor.Options{
		Config:   cfg.SanitizeConfig(),
		Logger:   logging.NewRunLogger(logger),
		LogSteps: logSteps || cfg.Logging.LogSteps,
	}
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		v, err := validate.NewSchemaValidator(raw)
		if err != nil {
			return err
		}
		opts.Validator = v
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	results := make([]string, len(args))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range args {
		g.Go(func() error {
			content, err := readInput(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			out, err := processor.Process[any](content, name, opts)
			if err != nil {
				return renderFailure(name, err)
			}
			results[i] = out.Content
			logger.Debug("repaired input",
				zap.String("resource", name),
				zap.Strings("steps", out.Steps))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// renderFailure turns a terminal processing error into a CLI error that
// includes the audit trail.
func renderFailure(name string, err error) error {
	pe, ok := err.(*processor.ProcessError)
	if !ok {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: repair failed (%s)\n", name, pe.Kind)
	fmt.Fprintf(&b, "  error: %v\n", pe.Err)
	if len(pe.Steps) > 0 {
		fmt.Fprintf(&b, "  steps: %s\n", strings.Join(pe.Steps, ", "))
	}
	if pe.Final != "" && pe.Final != pe.Original {
		fmt.Fprintf(&b, "  final text: %s\n", pe.Final)
	}
	return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
