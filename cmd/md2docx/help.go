package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert markdown files to Word documents")
	fmt.Fprintln(w, "  doctor     Check the system for diagram rendering")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2docx help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to .docx.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page <s>            Preset: book (17x23), a4, a5, b5")
	fmt.Fprintln(w, "      --width <cm>          Custom width (10-100), with --height")
	fmt.Fprintln(w, "      --height <cm>         Custom height (10-100), with --width")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --no-line-numbers     Hide code line numbers by default")
	fmt.Fprintln(w, "      --images <dir>        Images referenced by file name")
	fmt.Fprintln(w, "      --figure-label <s>    Caption prefix (default \"Figure\")")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading (default \"Contents\")")
	fmt.Fprintln(w, "      --no-diagrams         Skip Mermaid rendering (no Chrome)")
	fmt.Fprintln(w, "      --clean-cjk           Tidy CJK spacing and punctuation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --theme <s>           Theme name or YAML file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom themes/ and templates/ directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2DOCX_CONFIG, MD2DOCX_THEME, MD2DOCX_TIMEOUT, MD2DOCX_INPUT_DIR,")
	fmt.Fprintln(w, "  MD2DOCX_OUTPUT_DIR, MD2DOCX_PAGE, MD2DOCX_IMAGES_DIR, MD2DOCX_ASSET_PATH,")
	fmt.Fprintln(w, "  MD2DOCX_WORKERS (flags win over environment, environment over config)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2docx version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2docx help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
