// Command cssfmt reports CSS parse problems and prints or rewrites CSS in
// canonical form. HTML and JS/TS files are checked for problems in their
// embedded CSS but never rewritten.
//
// Usage:
//
//	cssfmt [-w] [-check] [-config file] [-encoding label] [-version] [paths or globs...]
//
// Without paths cssfmt reads CSS from standard input.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"bennypowers.dev/cssom/diag"
	"bennypowers.dev/cssom/internal/collections"
	"bennypowers.dev/cssom/internal/config"
	"bennypowers.dev/cssom/internal/lint"
	"bennypowers.dev/cssom/internal/log"
	"bennypowers.dev/cssom/internal/source"
	"bennypowers.dev/cssom/internal/version"
	"github.com/bmatcuk/doublestar/v4"
)

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

type options struct {
	write    bool
	check    bool
	config   string
	encoding string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cssfmt", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var opts options
	flags.BoolVar(&opts.write, "w", false, "write result to (source) file instead of stdout")
	flags.BoolVar(&opts.check, "check", false, "report unformatted files and exit 1 on any problem; write nothing")
	flags.StringVar(&opts.config, "config", "", "config file (default: nearest .cssom.yaml, .cssom.yml or .cssom.json)")
	flags.StringVar(&opts.encoding, "encoding", "", "fallback encoding label for files without a BOM or @charset")
	showVersion := flags.Bool("version", false, "print version information and exit")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String("cssfmt"))
		return exitOK
	}

	log.SetOutput(stderr)
	cfg, err := loadConfig(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "cssfmt: %v\n", err)
		return exitUsage
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if flags.NArg() == 0 {
		if opts.write {
			fmt.Fprintln(stderr, "cssfmt: cannot use -w with standard input")
			return exitUsage
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "cssfmt: failed to read standard input: %v\n", err)
			return exitUsage
		}
		content, err := source.DecodeBytes(data, opts.encoding)
		if err != nil {
			fmt.Fprintf(stderr, "cssfmt: %v\n", err)
			return exitUsage
		}
		return processContent("<stdin>", "css", content, cfg, opts, stdout, stderr)
	}

	files, err := expand(flags.Args(), cfg)
	if err != nil {
		fmt.Fprintf(stderr, "cssfmt: %v\n", err)
		return exitUsage
	}
	code := exitOK
	for _, file := range files {
		code = max(code, processFile(file, cfg, opts, stdout, stderr))
	}
	return code
}

// loadConfig loads path, or the nearest config file above the working
// directory.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, _, err := config.Resolve(wd)
	return cfg, err
}

// expand turns arguments into files. Named files are always included.
// Directories are searched for files the config selects, relative to the
// directory. Glob arguments are matched against the file system.
func expand(args []string, cfg config.Config) ([]string, error) {
	seen := collections.NewSet[string]()
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen.Has(path) {
			seen.Add(path)
			files = append(files, path)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && !info.IsDir():
			add(arg)
		case err == nil:
			for _, pattern := range cfg.Files {
				matches, err := doublestar.Glob(os.DirFS(arg), pattern, doublestar.WithFilesOnly())
				if err != nil {
					return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
				}
				for _, m := range matches {
					if cfg.Matches(m) {
						add(filepath.Join(arg, filepath.FromSlash(m)))
					}
				}
			}
		case errors.Is(err, fs.ErrNotExist) && doublestar.ValidatePattern(filepath.ToSlash(arg)):
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%s: no files match", arg)
			}
			for _, m := range matches {
				add(m)
			}
		default:
			return nil, err
		}
	}
	slices.Sort(files)
	return files, nil
}

func processFile(path string, cfg config.Config, opts options, stdout, stderr io.Writer) int {
	content, err := source.ReadFile(path, opts.encoding)
	if err != nil {
		fmt.Fprintf(stderr, "cssfmt: %v\n", err)
		return exitUsage
	}
	languageID := lint.LanguageID(path)
	if languageID == "" {
		languageID = "css"
	}
	if !opts.write || languageID != "css" {
		return processContent(path, languageID, content, cfg, opts, stdout, stderr)
	}

	code := report(path, languageID, content, cfg, stderr)
	text, ok := lint.Format(content, cfg)
	if !ok || text == content {
		return code
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(stderr, "cssfmt: %v\n", err)
		return exitUsage
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		fmt.Fprintf(stderr, "cssfmt: failed to write %s: %v\n", path, err)
		return exitUsage
	}
	return code
}

func processContent(name, languageID, content string, cfg config.Config, opts options, stdout, stderr io.Writer) int {
	code := report(name, languageID, content, cfg, stderr)
	if languageID != "css" {
		return code
	}
	text, ok := lint.Format(content, cfg)
	switch {
	case opts.check:
		if ok && text != content {
			fmt.Fprintf(stderr, "%s: not formatted\n", name)
			code = exitProblems
		}
	case ok:
		io.WriteString(stdout, text)
	default:
		// Unformattable input is echoed so pipelines keep their data.
		io.WriteString(stdout, content)
	}
	return code
}

// report prints findings as file:line:col: severity: message and returns
// exitProblems when any is an error.
func report(name, languageID, content string, cfg config.Config, stderr io.Writer) int {
	var buf bytes.Buffer
	code := exitOK
	for _, f := range lint.Document(source.PathToURI(name), languageID, content, cfg) {
		fmt.Fprintf(&buf, "%s:%d:%d: %s: %s\n", name, f.Line+1, f.Column+1, f.Severity, f.Message)
		if f.Severity != diag.SeverityWarning {
			code = exitProblems
		}
	}
	stderr.Write(buf.Bytes())
	return code
}
