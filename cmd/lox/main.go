package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"

	lox "github.com/xirelogy/go-lox"
	"github.com/xirelogy/go-lox/internal/config"
)

const (
	appName = "lox"
	version = "0.1.0"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitCompile  = 65
	exitRuntime  = 70
	exitIO       = 74
	exitSoftware = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		return cmdRepl(nil)
	}

	switch cmd := args[0]; cmd {
	case "run":
		return cmdRun(args[1:])
	case "repl":
		return cmdRepl(args[1:])
	case "disasm":
		return cmdDisasm(args[1:])
	case "version":
		fmt.Println(appName, version)
		return exitOK
	case "-h", "--help", "help":
		usage(os.Stdout)
		return exitOK
	default:
		if !strings.HasPrefix(cmd, "-") && len(args) == 1 {
			return cmdRun(args)
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage(os.Stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %s [FILE]                                     Run FILE, or start the REPL without one.
  %s run [flags] FILE                           Run a script.
  %s repl [flags]                               Start the REPL.
  %s disasm [-format text|cbor] [flags] FILE    Print the compiled bytecode.
  %s version                                    Print the version.

Flags:
  -log-level LEVEL   diagnostic log level (trace, debug, info, warn, error)
  -trace             log every executed instruction
`, appName, appName, appName, appName, appName)
}

// commonFlags are shared by every subcommand that builds a VM.
type commonFlags struct {
	logLevel string
	trace    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "", "diagnostic log level (overrides lox.toml)")
	fs.BoolVar(&c.trace, "trace", false, "log every executed instruction")
}

// setup loads lox.toml from the working directory upwards, applies the
// flags on top and builds the logger.
func (c *commonFlags) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if c.trace {
		cfg.VM.Trace = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}
	level, _ := cfg.LogLevel()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Str("app", appName).Logger()
	return cfg, log, nil
}

func newVM(cfg *config.Config, log zerolog.Logger) *lox.VM {
	return lox.NewVM(lox.WithConfig(cfg), lox.WithLogger(log))
}

func exitCode(res lox.Result, err error) int {
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &pathErr):
		return exitIO
	case res == lox.ResultCompileError:
		return exitCompile
	case res == lox.ResultRuntimeError:
		return exitRuntime
	case err != nil:
		return exitSoftware
	default:
		return exitOK
	}
}

func cmdRun(args []string) int {
	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	var common commonFlags
	common.register(fset)
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}
	if fset.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [flags] FILE\n", appName)
		return exitUsage
	}
	cfg, log, err := common.setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	vm := newVM(cfg, log)
	defer vm.Close()

	res, err := vm.RunFile(fset.Arg(0))
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, fset.Arg(0), pathErr.Err)
	}
	return exitCode(res, err)
}

func cmdDisasm(args []string) int {
	fset := flag.NewFlagSet("disasm", flag.ContinueOnError)
	var common commonFlags
	common.register(fset)
	format := fset.String("format", "text", "output format: text or cbor")
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}
	if fset.NArg() != 1 || (*format != "text" && *format != "cbor") {
		fmt.Fprintf(os.Stderr, "usage: %s disasm [-format text|cbor] FILE\n", appName)
		return exitUsage
	}
	cfg, log, err := common.setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	path := fset.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitIO
	}

	vm := newVM(cfg, log)
	defer vm.Close()

	if *format == "text" {
		err = vm.Disassemble(os.Stdout, path, string(src))
	} else {
		var data []byte
		if data, err = vm.Listing(path, string(src)); err == nil {
			_, err = os.Stdout.Write(data)
		}
	}
	var cerr *lox.CompileError
	switch {
	case errors.As(err, &cerr):
		for _, d := range cerr.Diagnostics {
			fmt.Fprintln(os.Stderr, d)
		}
		return exitCompile
	case err != nil:
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return exitIO
	}
	return exitOK
}

func cmdRepl(args []string) int {
	fset := flag.NewFlagSet("repl", flag.ContinueOnError)
	var common commonFlags
	common.register(fset)
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}
	cfg, log, err := common.setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	vm := newVM(cfg, log)
	defer vm.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(cfg.REPL.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			return exitIO
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case ":quit":
			return exitOK
		}
		ln.AppendHistory(line)

		// errors are already reported on stderr; the session goes on
		if _, err := vm.Interpret(line); err != nil {
			log.Debug().Err(err).Msg("line failed")
		}
	}
}
