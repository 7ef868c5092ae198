package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/internal/render"
	"github.com/msto63/memtrace/pkg/core/config"
	"github.com/msto63/memtrace/pkg/core/logging"
)

// Exit codes
const (
	ExitOK       = 0
	ExitRejected = 1 // a trace was rejected
	ExitFailure  = 2 // usage, configuration, I/O or archive failure
)

// Errors whose message was already printed as a verdict
var (
	errRejected = errors.New("trace rejected")
	errReported = errors.New("trace input failed")
)

// app carries the state shared by all subcommands of one invocation
type app struct {
	cfgFile  string
	logLevel string
	verbose  bool

	cfg    *config.Config
	logger *mtlog.Logger
	engine *trace.Engine
}

// NewRootCommand builds the memtrace command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "memtrace",
		Short: "memtrace - concurrent memory trace toolkit",
		Long: `memtrace reads textual traces of concurrent memory accesses,
validates them and assigns operation identifiers.

A trace holds one instruction per line, prefixed with its thread:
  0: v1 := 1             store 1 to address 1
  0: M[0] == 0           load 0 from address 0
  1: {v1 == 1; v1 := 2}  atomic load-store pair
  1: sync                barrier`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $MEMTRACE_CONFIG or ./memtrace.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, fatal)")

	rootCmd.AddCommand(
		newParseCmd(a),
		newCheckCmd(a),
		newGroupCmd(a),
		newStoreCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the command tree against os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// ExitCode maps the result of Execute to a process exit code, printing
// errors that have not been reported yet
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errRejected):
		return ExitRejected
	case errors.Is(err, errReported):
		return ExitFailure
	case trace.IsRejected(err):
		printError(err)
		return ExitRejected
	default:
		printError(err)
		return ExitFailure
	}
}

func (a *app) setup() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := a.cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	if a.logLevel != "" {
		level = a.logLevel
	}
	if _, err := mtlog.ParseLevel(level); err != nil {
		return err
	}

	a.logger, err = logging.NewLogger(logging.LoggerConfig{
		Name:   "memtrace",
		Level:  level,
		Format: a.cfg.General.LogFormat,
		File:   a.cfg.General.LogFile,
	})
	if err != nil {
		a.logger.LogError(mterror.Wrap(err, "log file disabled").
			WithCode(mterror.CodeConfigError).
			WithDetail("path", a.cfg.General.LogFile))
	}
	mtlog.SetDefault(a.logger)

	a.engine = trace.New(trace.Options{
		Logger:         a.logger,
		MaxInputLength: a.cfg.Parser.MaxInputLength,
	})

	a.logger.Debug("configuration loaded", mtlog.Fields{
		"store":     a.cfg.Store.Path,
		"format":    a.cfg.Output.Format,
		"log_level": a.logger.GetLevel().String(),
	})
	return nil
}

// renderOptions resolves output styling for stdout
func (a *app) renderOptions() render.Options {
	terminal := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return render.Options{Color: a.cfg.UseColor(terminal)}
}

// outputFormat resolves a --format flag against the configured default
func (a *app) outputFormat(flag string) (render.Format, error) {
	if flag == "" {
		flag = a.cfg.Output.Format
	}
	return render.ParseFormat(flag)
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
