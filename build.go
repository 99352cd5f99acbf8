//go:build ignore

// build.go - Local Tax Dashboard build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, taxctl, clean, test

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "localtaxdash"

// executables maps a directory under cmd/ to its output binary name.
var executables = map[string]string{
	"web":    "localtaxdash-web",
	"taxctl": "taxctl",
}

var (
	rootDir string
	distDir string

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); err != nil {
		panic("build.go must be run from the module root")
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	var err error
	switch *target {
	case "all":
		for name := range executables {
			if err = buildExecutable(name, *verbose); err != nil {
				break
			}
		}
		if err == nil {
			err = copyConfigFiles(*verbose)
		}
	case "web", "taxctl":
		err = buildExecutable(*target, *verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	case "test":
		err = run(*verbose, "go", "test", "-race", "./...")
	default:
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

// buildExecutable compiles cmd/<name> into dist/, stamping version details.
func buildExecutable(name string, verbose bool) error {
	out := executables[name]
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", out))

	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("create dist dir: %w", err)
	}

	pkg := module + "/pkg/contracts"
	ldflags := strings.Join([]string{
		"-s -w",
		fmt.Sprintf("-X %s.BuildTime=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s.GitCommit=%s", pkg, gitOutput("rev-parse", "--short", "HEAD")),
		fmt.Sprintf("-X %s.GitBranch=%s", pkg, gitOutput("rev-parse", "--abbrev-ref", "HEAD")),
	}, " ")

	return run(verbose, "go", "build",
		"-ldflags", ldflags,
		"-o", filepath.Join(distDir, out),
		"./cmd/"+name)
}

// copyConfigFiles places an example config.yaml next to the binaries.
func copyConfigFiles(verbose bool) error {
	src := filepath.Join(rootDir, "config.example.yaml")
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		printWarning("config.example.yaml not found, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if verbose {
		printInfo("Copying config.example.yaml")
	}
	return os.WriteFile(filepath.Join(distDir, "config.yaml"), data, 0644)
}

func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = rootDir
	cmd.Stderr = os.Stderr
	if verbose {
		cmd.Stdout = os.Stdout
		printInfo(name + " " + strings.Join(args, " "))
	}
	return cmd.Run()
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all     Build every binary and copy the example config (default)")
	fmt.Println("  web     Build the dashboard server")
	fmt.Println("  taxctl  Build the command-line tool")
	fmt.Println("  clean   Remove dist/")
	fmt.Println("  test    Run the test suite with the race detector")
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "     Local Tax Dashboard - Build System    " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}
