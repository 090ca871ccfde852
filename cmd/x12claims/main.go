// Command x12claims validates 837P claim files, converts them to
// semantic JSON, and identifies transaction types.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	x12 "github.com/donfox/X12-to-JSON-translator"
	"github.com/donfox/X12-to-JSON-translator/internal/batch"
	"github.com/donfox/X12-to-JSON-translator/internal/config"
)

var errInvalid = errors.New("validation failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInvalid) {
			log.Error(err.Error())
		}
		os.Exit(1)
	}
}

type options struct {
	configPath       string
	strictComposites bool
	verbose          bool
}

func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.strictComposites {
		cfg.StrictComposites = true
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "x12claims",
		Short:         "837P claim file validation and JSON conversion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "x12claims.yaml", "path to the config file")
	root.PersistentFlags().BoolVar(&opts.strictComposites, "strict-composites", false, "warn on composite elements without a sub-element separator")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		validateCmd(opts),
		convertCmd(opts),
		processCmd(opts),
		detectCmd(opts),
	)
	return root
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate claim files and print a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			validator := x12.Validator{StrictComposites: cfg.StrictComposites}

			allValid := true
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				msg, err := x12.Read(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				result := validator.Validate(cmd.Context(), msg)
				fmt.Fprintf(cmd.OutOrStdout(), "Validating: %s\n", path)
				if err := x12.WriteReport(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if !result.Valid() {
					allValid = false
				}
			}
			if !allValid {
				return errInvalid
			}
			return nil
		},
	}
}

func convertCmd(opts *options) *cobra.Command {
	var (
		outputPath     string
		skipValidation bool
	)
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a claim file to semantic JSON",
		Long: "Convert validates the file first and refuses to convert an invalid\n" +
			"one unless --skip-validation is given. Output goes to stdout unless\n" +
			"--output names a file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			pipeline := x12.Pipeline{
				Validator:   x12.Validator{StrictComposites: cfg.StrictComposites},
				Transformer: x12.Transformer{SourceName: filepath.Base(args[0])},
			}
			result, doc, err := pipeline.Process(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if !result.Valid() && !skipValidation {
				if err := x12.WriteReport(cmd.ErrOrStderr(), result); err != nil {
					return err
				}
				return errInvalid
			}

			encoded, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			if outputPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}
			return os.WriteFile(outputPath, append(encoded, '\n'), 0o644)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "convert even when validation fails")
	return cmd
}

func processCmd(opts *options) *cobra.Command {
	var (
		outputDir      string
		workers        int
		writeReports   bool
		skipValidation bool
	)
	cmd := &cobra.Command{
		Use:   "process [file]...",
		Short: "Validate and convert files in batch",
		Long: "Process runs the validate-then-convert pipeline over many files with\n" +
			"a bounded worker pool. With no arguments it scans the configured data\n" +
			"directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			logger := newLogger(cfg)

			paths := args
			if len(paths) == 0 {
				paths, err = findInputFiles(cfg.DataDir)
				if err != nil {
					return err
				}
				if len(paths) == 0 {
					return fmt.Errorf("no input files found in %s", cfg.DataDir)
				}
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			pool := &batch.Pool{
				Workers: cfg.Workers,
				Config:  cfg,
				Pipeline: x12.Pipeline{
					Validator: x12.Validator{StrictComposites: cfg.StrictComposites},
				},
				Logger:             logger,
				WriteReports:       writeReports,
				SkipValidationGate: skipValidation,
			}
			results := pool.Run(cmd.Context(), paths)

			converted, invalid, skipped, failed := 0, 0, 0, 0
			for _, result := range results {
				switch {
				case result.Err != nil:
					failed++
				case result.Type != x12.Transaction837P:
					skipped++
				case !result.Valid:
					invalid++
				default:
					converted++
				}
			}
			logger.Info("batch complete",
				"files", len(results),
				"converted", converted,
				"invalid", invalid,
				"skipped", skipped,
				"failed", failed)

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			if invalid > 0 && !skipValidation {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "base directory for json and report output")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default from config)")
	cmd.Flags().BoolVar(&writeReports, "report", false, "write a validation report per file")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "convert files even when validation fails")
	return cmd
}

func detectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Identify the transaction type of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.load(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result := x12.Detect(data)
			fmt.Fprint(cmd.OutOrStdout(), result.Report())
			if result.Type == x12.TransactionUnknown || !result.Consistent {
				return errInvalid
			}
			return nil
		},
	}
}

// findInputFiles lists the claim files in dir, recognized by extension.
func findInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".x12", ".edi", ".txt":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
