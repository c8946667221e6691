package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cruciblehq/shipwright/internal"
)

// Represents the root command for the shipwright CLI.
//
// The command set is closed: adding a command means adding a field here
// and a Run method, which the compiler checks, rather than registering a
// string key at runtime.
var RootCmd struct {
	Quiet    bool   `short:"q" help:"Suppress informational output."`
	Verbose  bool   `short:"v" help:"Enable verbose output."`
	Debug    bool   `short:"d" help:"Enable debug output."`
	Manifest string `short:"m" help:"Override the project manifest path." placeholder:"PATH"`

	Dev       DevCmd       `cmd:"" help:"Run the application in development mode."`
	Build     BuildCmd     `cmd:"" help:"Build binaries for the selected targets."`
	Check     CheckCmd     `cmd:"" help:"Check code without building."`
	Fmt       FmtCmd       `cmd:"" help:"Format code."`
	Lint      LintCmd      `cmd:"" help:"Run the linter."`
	Test      TestCmd      `cmd:"" help:"Run tests."`
	All       AllCmd       `cmd:"" help:"Run check, fmt, lint, then build."`
	Install   InstallCmd   `cmd:"" help:"Install the built application binary."`
	Uninstall UninstallCmd `cmd:"" help:"Remove the installed application binary."`
	Package   PackageCmd   `cmd:"" help:"Build and package installer artifacts."`
	Dist      DistCmd      `cmd:"" help:"Build, package, and sign all distribution artifacts."`
	Sign      SignCmd      `cmd:"" help:"Build, package, and sign the selected targets."`
	Release   ReleaseCmd   `cmd:"" help:"Run the full pipeline including publish."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Build-and-release orchestrator for the desktop installer.\n\nBuilds, packages, signs, and publishes installer artifacts for every configured platform from one invocation."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	level := slog.LevelInfo
	if RootCmd.Debug || internal.IsDebug() {
		level = slog.LevelDebug
	} else if RootCmd.Quiet || internal.IsQuiet() {
		level = slog.LevelWarn
	}

	verbose := RootCmd.Verbose || internal.IsVerbose()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler))
}
