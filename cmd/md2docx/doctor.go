package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Themes   []themeInfo `json:"themes"`
	Config   string      `json:"config,omitempty"` // Resolved MD2DOCX_CONFIG
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// themeInfo reports whether an embedded theme loads.
type themeInfo struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

// doctorProbe holds the lookups the checks depend on.
type doctorProbe struct {
	getenv     func(string) string
	lookChrome func() (string, bool)
	tempDir    func() string
}

// defaultProbe inspects the real system.
func defaultProbe() doctorProbe {
	return doctorProbe{
		getenv:     os.Getenv,
		lookChrome: launcher.LookPath,
		tempDir:    os.TempDir,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "Unknown argument: %s\n\n", arg)
			printDoctorUsage(env.Stderr)
			return ExitUsage
		}
	}

	result := runDoctor(defaultProbe())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(p doctorProbe) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  p.getenv("ROD_NO_SANDBOX"),
			BrowserBin: p.getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result, p)
	checkEnvironment(result, p)
	checkSystem(result, p)
	checkThemes(result)
	checkConfig(result, p)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkChrome detects Chrome/Chromium. Only Mermaid diagrams need it, so
// a missing browser is a warning.
func checkChrome(result *doctorResult, p doctorProbe) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		// Use rod's launcher to locate Chrome
		var found bool
		chromePath, found = p.lookChrome()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found. Mermaid diagrams need it: install Chrome, set ROD_BROWSER_BIN, or use --no-diagrams")
			return
		}
	}

	// Verify it exists
	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// #nosec G204 -- path comes from ROD_BROWSER_BIN or rod's lookup
	out, err := exec.Command(chromePath, "--version").Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Sandbox status: disabled if ROD_NO_SANDBOX=1
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, p doctorProbe) {
	result.Env.Container, result.Env.ContainerHint = isContainer(p)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if p.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for diagrams")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(p doctorProbe) (bool, string) {
	// Explicit override (highest priority)
	if p.getenv("MD2DOCX_CONTAINER") == "1" {
		return true, "MD2DOCX_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := p.getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if p.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory the diagram host pages use.
func checkSystem(result *doctorResult, p doctorProbe) {
	tmpDir := p.tempDir()
	f, err := os.CreateTemp(tmpDir, "md2docx-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	result.System.TempWritable = true
}

// checkThemes builds a converter per embedded theme.
func checkThemes(result *doctorResult) {
	for _, name := range md2docx.Themes() {
		info := themeInfo{Name: name, OK: true}
		conv, err := md2docx.NewConverter(md2docx.WithTheme(name), md2docx.WithoutDiagrams())
		if err != nil {
			info.OK = false
			result.Errors = append(result.Errors, fmt.Sprintf("Theme %s: %v", name, err))
		} else {
			_ = conv.Close()
		}
		result.Themes = append(result.Themes, info)
	}
}

// checkConfig loads MD2DOCX_CONFIG when set.
func checkConfig(result *doctorResult, p doctorProbe) {
	name := p.getenv("MD2DOCX_CONFIG")
	if name == "" {
		return
	}
	result.Config = name
	if _, err := config.LoadConfig(name); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("MD2DOCX_CONFIG: %v", err))
	}
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, themes, config and the temp directory.")
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2docx doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (diagrams only)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	for _, th := range r.Themes {
		if th.OK {
			fmt.Fprintf(w, "  [OK] Theme: %s\n", th.Name)
		} else {
			fmt.Fprintf(w, "  [ERROR] Theme: %s\n", th.Name)
		}
	}
	if r.Config != "" {
		fmt.Fprintf(w, "  [--] Config: %s\n", filepath.ToSlash(r.Config))
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
