package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/config"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/engine"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/loader"
	"github.com/therealutkarshpriyadarshi/videosdb/internal/logging"
)

type options struct {
	configPath string
	logLevel   string
	inputPath  string
	outputPath string

	cfg    *config.Config
	logger *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "videosdb",
		Short:         "Run catalog actions from input documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Logging.Level = opts.logLevel
			}
			opts.cfg = cfg
			opts.logger = logging.NewWriterLogger(cmd.ErrOrStderr(), cfg.Logging.Level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults and VIDEOSDB_* environment when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the actions of an input document and write the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocument(cmd, opts)
		},
	}
	runCmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "input document (defaults to engine.inputpath)")
	runCmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "result document, - for stdout (defaults to engine.outputpath)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an input document without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateDocument(cmd, opts)
		},
	}
	validateCmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "input document (defaults to engine.inputpath)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the catalog size of an input document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStats(cmd, opts)
		},
	}
	statsCmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "input document (defaults to engine.inputpath)")

	rootCmd.AddCommand(runCmd, validateCmd, statsCmd, newDLQCmd(opts))
	return rootCmd
}

func (o *options) input() (string, error) {
	path := o.inputPath
	if path == "" {
		path = o.cfg.Engine.InputPath
	}
	if path == "" {
		return "", fmt.Errorf("no input document given")
	}
	return path, nil
}

func runDocument(cmd *cobra.Command, opts *options) error {
	path, err := opts.input()
	if err != nil {
		return err
	}
	in, err := loader.DecodeFile(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, report := loader.Load(in, opts.logger)
	if report.Skipped > 0 {
		opts.logger.Warnf("Skipped %d invalid records", report.Skipped)
	}

	results, err := engine.New(c, opts.logger).Run(ctx, in.Actions)
	if err != nil {
		return fmt.Errorf("run interrupted after %d results: %w", len(results), err)
	}

	output := opts.outputPath
	if output == "" {
		output = opts.cfg.Engine.OutputPath
	}
	if output == "" || output == "-" {
		return loader.EncodeResults(cmd.OutOrStdout(), results)
	}
	if err := loader.WriteFile(output, results); err != nil {
		return err
	}
	opts.logger.WithField("output", output).Infof("Wrote %d results", len(results))
	return nil
}

func validateDocument(cmd *cobra.Command, opts *options) error {
	path, err := opts.input()
	if err != nil {
		return err
	}
	in, err := loader.DecodeFile(path)
	if err != nil {
		return err
	}

	if err := loader.Validate(in); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), err)
		return fmt.Errorf("%s is not valid", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d actions\n", path, len(in.Actions))
	return nil
}

func printStats(cmd *cobra.Command, opts *options) error {
	path, err := opts.input()
	if err != nil {
		return err
	}
	in, err := loader.DecodeFile(path)
	if err != nil {
		return err
	}

	_, report := loader.Load(in, opts.logger)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

