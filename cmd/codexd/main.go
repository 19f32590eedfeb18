package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/souhaiebtar/Codex-Windows/internal/buildinfo"
	"github.com/souhaiebtar/Codex-Windows/internal/config"
	"github.com/souhaiebtar/Codex-Windows/internal/discover"
	"github.com/souhaiebtar/Codex-Windows/internal/errmsg"
	"github.com/souhaiebtar/Codex-Windows/internal/launch"
	"github.com/souhaiebtar/Codex-Windows/internal/launcher"
	"github.com/souhaiebtar/Codex-Windows/internal/log"
	"github.com/souhaiebtar/Codex-Windows/internal/notify"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
	"github.com/souhaiebtar/Codex-Windows/internal/userconfig"
)

// dialogTitle is the caption of error dialogs.
const dialogTitle = "codexd"

// app holds one invocation's collaborators and flag values. main wires the
// real ones; tests substitute fakes.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	env      config.Env
	host     platform.Host
	cfg      *config.Config
	runner   discover.Runner // nil runs real helpers
	starter  launch.Starter  // nil starts real processes
	notifier notify.Notifier
	launchID func() string

	workDir     string
	cliPath     string
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
}

// UsageError reports a recognised flag given without its value.
type UsageError struct {
	Flag string
	Err  error
}

func (e *UsageError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("--%s requires a path value.", e.Flag)
	}
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func (e *UsageError) Suggestion() string {
	return "Usage: codexd.exe [--workdir <path>] [--codex-cli-path <path>]"
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codexd",
		Short: "Start the Codex desktop app from an extracted bundle",
		Long: `codexd starts the Codex desktop app from an extracted work root.

It patches the app's preload script once, finds the bundled Electron
runtime and the codex CLI, and starts the app detached.

The work root defaults to the "work" directory next to codexd and must
contain app/ and native-builds/.`,
		Version:       buildinfo.Read().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.launch(cmd.Context())
		},
	}
	// Positionals other than the subcommand names are ignored, so a stray
	// "completion" must still launch.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		var missing *pflag.ValueRequiredError
		if errors.As(err, &missing) {
			return &UsageError{Flag: missing.GetSpecifiedName(), Err: err}
		}
		return &UsageError{Err: err}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.workDir, "workdir", "", "work root containing app/ and native-builds/")
	flags.StringVar(&a.workDir, "work-dir", "", "alias for --workdir")
	flags.StringVar(&a.workDir, "codex-desktop-path", "", "alias for --workdir")
	_ = flags.MarkHidden("work-dir")
	_ = flags.MarkHidden("codex-desktop-path")
	flags.StringVar(&a.cliPath, "codex-cli-path", "", "path to codex.exe")
	flags.BoolVarP(&a.quietFlag, "quiet", "q", false, "log errors only")
	flags.BoolVarP(&a.verboseFlag, "verbose", "v", false, "log resolved paths and launch parameters")
	flags.BoolVar(&a.debugFlag, "debug", false, "log every candidate considered")

	rootCmd.AddCommand(newDoctorCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	return rootCmd
}

// isTruthy returns true if the environment variable value represents a true boolean.
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// determineLogLevel picks the level from flags first, then CODEXD_* variables.
// Within each group the most verbose setting wins. Default is WARN.
func (a *app) determineLogLevel() slog.Level {
	switch {
	case a.debugFlag:
		return slog.LevelDebug
	case a.verboseFlag:
		return slog.LevelInfo
	case a.quietFlag:
		return slog.LevelError
	}

	switch {
	case isTruthy(a.env.Get(config.EnvDebug)):
		return slog.LevelDebug
	case isTruthy(a.env.Get(config.EnvVerbose)):
		return slog.LevelInfo
	case isTruthy(a.env.Get(config.EnvQuiet)):
		return slog.LevelError
	}
	return slog.LevelWarn
}

// logFile returns the log file from CODEXD_LOG_FILE or codexd.toml.
// Relative paths are taken relative to the launcher directory.
func (a *app) logFile(settings *userconfig.Config) string {
	path := strings.TrimSpace(a.env.Get(config.EnvLogFile))
	if path == "" && settings != nil {
		path = strings.TrimSpace(settings.LogFile)
	}
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.LauncherDir, path)
	}
	return path
}

func (a *app) setupLogging() error {
	// A broken settings file is reported by the command itself.
	settings, _ := userconfig.Load(a.cfg)

	logger, closer, err := log.Setup(log.Options{
		Level:  a.determineLogLevel(),
		Stderr: a.stderr,
		File:   a.logFile(settings),
	})
	if err != nil {
		logger, closer, _ = log.Setup(log.Options{Level: a.determineLogLevel(), Stderr: a.stderr})
		logger.Warn("log file unavailable", "error", err)
	}
	// The file stays open for the rest of the process.
	_ = closer

	logger = logger.With("launch", a.launchID())
	log.SetDefault(logger)
	logger.Debug("codexd", "version", buildinfo.Version(),
		"platform", a.host.Platform, "arch", a.host.ArchIndicator())
	return nil
}

// helperTimeout returns CODEXD_HELPER_TIMEOUT, else helper_timeout from
// codexd.toml, else no timeout.
func (a *app) helperTimeout(settings *userconfig.Config) time.Duration {
	if strings.TrimSpace(a.env.Get(config.EnvHelperTimeout)) != "" {
		return config.GetHelperTimeout(a.env)
	}
	if settings != nil {
		if d, ok := settings.HelperTimeoutValue(); ok {
			return d
		}
	}
	return config.DefaultHelperTimeout
}

// options assembles launcher options from flags, environment and settings.
func (a *app) options() (launcher.Options, error) {
	settings, err := userconfig.Load(a.cfg)
	if err != nil {
		return launcher.Options{}, err
	}

	runner := a.runner
	if runner == nil {
		runner = &discover.ExecRunner{Env: a.env.Environ(), Timeout: a.helperTimeout(settings)}
	}
	starter := a.starter
	if starter == nil {
		starter = &launch.ExecStarter{Inherited: a.env.Environ(), Host: a.host}
	}

	return launcher.Options{
		LauncherDir: a.cfg.LauncherDir,
		WorkDir:     launcher.WorkDir(a.workDir, settings, a.cfg),
		CLIPath:     a.cliPath,
		Host:        a.host,
		Env:         a.env,
		Settings:    settings,
		Runner:      runner,
		Starter:     starter,
		Logger:      log.Default(),
	}, nil
}

func (a *app) launch(ctx context.Context) error {
	opts, err := a.options()
	if err != nil {
		return err
	}
	_, err = launcher.Run(ctx, opts)
	return err
}

// fail reports err to the user and returns the exit code.
func (a *app) fail(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	logger := log.Default()
	logger.Error("launch failed", "error", err)
	if nerr := a.notifier.Notify(dialogTitle, errmsg.Format(err)); nerr != nil {
		logger.Debug("notification failed", "error", nerr)
		errmsg.Fprint(a.stderr, err)
	}
	return ExitGeneral
}

// run executes the command line and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return a.fail(err)
	}
	return ExitSuccess
}

func newApp() (*app, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return nil, err
	}
	env := config.FromOS()
	return &app{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		env:      env,
		host:     platform.Current(env.Get(config.EnvProcessorArchitecture)),
		cfg:      cfg,
		notifier: notify.New(os.Stderr),
		launchID: func() string { return uuid.NewString() },
	}, nil
}

func main() {
	a, err := newApp()
	if err != nil {
		if nerr := notify.New(os.Stderr).Notify(dialogTitle, errmsg.Format(err)); nerr != nil {
			errmsg.Fprint(os.Stderr, err)
		}
		os.Exit(ExitGeneral)
	}
	os.Exit(a.run(context.Background(), os.Args[1:]))
}
