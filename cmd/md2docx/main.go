package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches the command and returns the process exit code.
// A bare Markdown path is shorthand for "convert <path>".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) && looksLikeMarkdown(cmd) {
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "convert":
		return runConvertCmd(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2docx %s\n", resolveVersion())
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCmd parses convert flags, sets up logging and GOMAXPROCS,
// and runs the batch under a signal-aware context.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, errHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug().Msgf(format, args...)
	}))

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, logger, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether s names a subcommand.
func isCommand(s string) bool {
	switch s {
	case "convert", "doctor", "version", "help":
		return true
	}
	return false
}

// looksLikeMarkdown reports whether s is a Markdown file path.
func looksLikeMarkdown(s string) bool {
	return fileutil.IsMarkdown(s)
}

// resolveVersion prefers the ldflags value, then module build info.
func resolveVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
