package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"pironman5/internal/app"
	"pironman5/internal/config"
	"pironman5/internal/formatting"
	"pironman5/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error, including a corrupt configuration file.
	ExitCodeError = 1
	// ExitCodeInvalidFlag indicates an invalid flag value or command-line usage.
	ExitCodeInvalidFlag = 2
)

var validCommands = []string{"start", "stop"}

// rootOptions holds the flag values of one root command instance.
type rootOptions struct {
	configPath string
	debug      bool
	logFormat  string
	forceChip  string
	showConfig bool
	output     string
}

// rootCmd represents the base command for the pironman5 application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	c := &cobra.Command{
		Use:   "pironman5 [start|stop]",
		Short: "Control the Pironman 5 case peripherals",
		Long: `pironman5 runs the Pironman 5 service: it drives the RGB LEDs, OLED screen
and fans of the case, and keeps their settings in a JSON configuration file.

  pironman5 start                  run the service until SIGINT, SIGTERM or SIGHUP
  pironman5 stop                   release the peripherals
  pironman5 --config               print the effective configuration
  pironman5 --rgb-style breathing  save a setting without starting

Settings given as flags are saved to the configuration file before start or
after stop.`,
		Args:      validateCommandArg,
		ValidArgs: validCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,

		// Errors are printed by Execute, see formatError.
		SilenceErrors: true,
	}

	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := c.PersistentFlags()
	pf.StringVar(&opts.configPath, "config-path", config.DefaultConfigPath, "Configuration file path")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&opts.logFormat, "log-format", string(logging.FormatText), "Log format, text or json")
	pf.StringVar(&opts.forceChip, "force-chip", app.DefaultForceChip, "GPIO chip driver used by the automation controller")

	f := c.Flags()
	f.BoolVar(&opts.showConfig, "config", false, "Print the effective configuration and exit")
	f.StringVarP(&opts.output, "output", "o", string(formatting.FormatJSON), "Output format for --config: json, yaml or table")
	addAutoFlags(f)

	c.AddCommand(newVersionCmd())
	return c
}

func validateCommandArg(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return &UsageError{Err: errors.New("at most one command (start or stop) may be given")}
	}
	if len(args) == 1 && !slices.Contains(validCommands, args[0]) {
		return &InvalidFlagValueError{Flag: commandArg, Value: args[0], Reason: "expected start or stop"}
	}
	return nil
}

// run validates every flag before building the application, so an invalid
// value never starts or writes anything.
func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && cmd.Flags().NFlag() == 0 {
		return cmd.Help()
	}

	auto, err := buildAutoOverride(cmd.Flags())
	if err != nil {
		return err
	}
	logFormat, err := logging.ParseFormat(o.logFormat)
	if err != nil {
		return &InvalidFlagValueError{Flag: "log-format", Value: o.logFormat, Reason: "expected text or json"}
	}
	output, err := formatting.ParseFormat(o.output)
	if err != nil {
		return &InvalidFlagValueError{Flag: "output", Value: o.output, Reason: "expected json, yaml or table"}
	}

	mode := app.ModeUpdate
	switch {
	case o.showConfig:
		mode = app.ModeShowConfig
	case len(args) == 1:
		mode = app.Mode(args[0])
	}

	cfg := app.NewConfig(o.debug, o.configPath, mode)
	cfg.LogFormat = logFormat
	cfg.ForceChip = o.forceChip
	cfg.Auto = auto
	cfg.Output = output
	cfg.Stdout = cmd.OutOrStdout()
	cfg.LogOutput = cmd.ErrOrStderr()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "pironman5 version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
		os.Exit(getExitCode(err))
	}
}

// formatError renders err for the terminal. A corrupt configuration file gets
// the detailed report with its position and suggestions.
func formatError(err error) string {
	var corrupt *config.CorruptConfigError
	if errors.As(err, &corrupt) {
		return corrupt.DetailedError()
	}
	return "Error: " + err.Error()
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if errors.Is(err, ErrInvalidFlagValue) {
		return ExitCodeInvalidFlag
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitCodeInvalidFlag
	}
	return ExitCodeError
}
