package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"flex/interpreter-go/pkg/driver"
	"flex/interpreter-go/pkg/logger"
)

const cliToolVersion = "flex 0.1.0-dev"

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("flex", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {}
	logLevel := flags.String("log-level", "", "log level: debug, info, warn or error")
	logFormat := flags.String("log-format", "", "log format: text or json")
	logFile := flags.String("log-file", "", "append logs to this file instead of stderr")
	showVersion := flags.Bool("version", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return exitOK
		}
		printUsage(stderr)
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, cliToolVersion)
		return exitOK
	}

	rest := flags.Args()
	explicitRun := false
	if len(rest) > 0 {
		switch rest[0] {
		case "version":
			fmt.Fprintln(stdout, cliToolVersion)
			return exitOK
		case "help":
			printUsage(stdout)
			return exitOK
		case "run":
			explicitRun = true
			rest = rest[1:]
		}
	}
	if len(rest) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(rest[1:], " "))
		printUsage(stderr)
		return exitUsage
	}

	searchDir := "."
	if len(rest) == 1 {
		searchDir = filepath.Dir(rest[0])
	}
	manifest, err := loadManifestFrom(searchDir)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return exitDataErr
	}

	logCfg, err := loggerConfig(manifest, *logLevel, *logFormat, *logFile, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}
	defer logger.Close()
	if manifest != nil {
		slog.Debug("loaded manifest", "path", manifest.Path, "name", manifest.Name)
	}

	switch {
	case len(rest) == 1:
		return runFile(rest[0], stdout, stderr)
	case manifest != nil && manifest.Main != "":
		return runFile(manifest.MainPath(), stdout, stderr)
	case explicitRun:
		fmt.Fprintln(stderr, "flex run requires a source file or a flex.yml with a main entry")
		return exitUsage
	default:
		prompt := driver.DefaultPrompt
		if manifest != nil {
			prompt = manifest.Repl.Prompt
		}
		return runPrompt(stdin, stdout, stderr, prompt)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  flex [flags]               start the REPL, or run main from flex.yml")
	fmt.Fprintln(w, "  flex [flags] <file.flex>   run a script")
	fmt.Fprintln(w, "  flex [flags] run [file]    run a script or the manifest main")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -log-level string   debug, info, warn or error")
	fmt.Fprintln(w, "  -log-format string  text or json")
	fmt.Fprintln(w, "  -log-file string    append logs to a file instead of stderr")
	fmt.Fprintln(w, "  -version            print the version and exit")
}

// loadManifestFrom returns nil without error when no flex.yml is found.
func loadManifestFrom(dir string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(dir)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

// loggerConfig layers flag values over the manifest log section.
func loggerConfig(manifest *driver.Manifest, level, format, file string, output io.Writer) (logger.Config, error) {
	cfg := logger.DefaultConfig()
	cfg.Output = output
	if manifest != nil {
		level = firstNonEmpty(level, manifest.Log.Level)
		format = firstNonEmpty(format, manifest.Log.Format)
		file = firstNonEmpty(file, manifest.LogFilePath())
	}
	cfg.LogFile = file
	if level != "" {
		parsed, err := logger.ParseLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg.Level = parsed
	}
	switch format {
	case "", "text", "json":
		if format != "" {
			cfg.Format = format
		}
	default:
		return cfg, fmt.Errorf("unknown log format %q", format)
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runFile(path string, stdout, stderr io.Writer) int {
	session := driver.NewSession(
		driver.WithStdout(stdout),
		driver.WithStderr(stderr),
		driver.WithLogger(slog.Default()),
	)
	hadStatic, hadRuntime, err := session.RunFile(path)
	switch {
	case err != nil:
		fmt.Fprintf(stderr, "flex: %v\n", err)
		return exitNoInput
	case hadStatic:
		return exitDataErr
	case hadRuntime:
		return exitSoftware
	}
	return exitOK
}

// runPrompt reads one chunk per line until EOF. Errors on a line are
// reported and the session carries on.
func runPrompt(stdin io.Reader, stdout, stderr io.Writer, prompt string) int {
	session := driver.NewSession(
		driver.WithStdout(stdout),
		driver.WithStderr(stderr),
		driver.WithLogger(slog.Default()),
	)
	interactive := isTerminal(stdin)

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		if interactive {
			fmt.Fprint(stdout, prompt)
		}
		if !scanner.Scan() {
			break
		}
		session.Run(scanner.Text())
	}
	if interactive {
		fmt.Fprintln(stdout)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "flex: read input: %v\n", err)
		return exitNoInput
	}
	return exitOK
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
