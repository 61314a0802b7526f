package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/fzft/go-resp/deps/linenoise"
	"github.com/fzft/go-resp/log"
	"github.com/fzft/go-resp/resp"
)

var (
	RespcheckVersion = "1.0.0"

	RespcheckHisFileEnv     = "RESPCHECK_HISTFILE"
	RespcheckHisFileDefault = ".respcheck_history"
)

// Exit statuses of Run.
const (
	ExitOK     = 0
	ExitDecode = 1
	ExitUsage  = 2
)

var validate = validator.New()

type Config struct {
	Output      string   `validate:"oneof=standard raw"`
	MaxDepth    int      `validate:"min=1,max=1000000"`
	LogLevel    string   `validate:"oneof=debug info warn error"`
	JSONLog     bool
	Color       bool
	Eval        string
	Files       []string `validate:"dive,required"`
	HistoryFile string
	Prompt      string `validate:"required"`
}

func (c *Config) outputMode() OutputMode {
	return outputModes[c.Output]
}

type RespCli struct {
	// GitSHA1 and GitDirty are stamped in by the linker, see version.go.
	GitSHA1  string
	GitDirty string

	config  *Config
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	decoder *resp.Decoder
	styles  styles
	width   int
}

func New(stdin io.Reader, stdout, stderr io.Writer) *RespCli {
	return &RespCli{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		decoder: resp.NewDecoder(),
		styles:  newStyles(false),
	}
}

func (cli *RespCli) Version() string {
	version := RespcheckVersion
	// Add git commit and working tree status when available
	if sha1Int, err := strconv.ParseInt(cli.GitSHA1, 16, 64); err == nil && sha1Int != 0 {
		version = fmt.Sprintf("%s (git:%s", version, cli.GitSHA1)
		if dirtyInt, err := strconv.ParseInt(cli.GitDirty, 10, 64); err == nil && dirtyInt != 0 {
			version = fmt.Sprintf("%s-dirty", version)
		}
		version = fmt.Sprintf("%s)", version)
	}
	return version
}

const usage = `Usage: respcheck [OPTIONS] [file ...]

Decodes RESP (REdis Serialization Protocol) values and prints them the way
redis-cli does, or points at the byte where decoding failed.

Input is taken from -e, from the given files (one value per file), from
standard input when it is not a terminal, or from an interactive prompt.
Typed input (-e and the prompt) understands escapes: \r \n \t \\ \" \xHH.

Options:
`

func (cli *RespCli) parseConfig(args []string) (*Config, bool, error) {
	fs := flag.NewFlagSet("respcheck", flag.ContinueOnError)
	fs.SetOutput(cli.stderr)
	fs.Usage = func() {
		fmt.Fprint(cli.stderr, usage)
		fs.PrintDefaults()
	}

	config := &Config{}
	fs.StringVar(&config.Output, "output", "standard", "output format: standard or raw")
	raw := fs.Bool("raw", false, "shorthand for -output raw")
	fs.IntVar(&config.MaxDepth, "max-depth", resp.DefaultMaxDepth, "maximum array nesting depth")
	fs.StringVar(&config.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")
	verbose := fs.Bool("v", false, "shorthand for -log-level debug")
	fs.BoolVar(&config.JSONLog, "json-log", false, "write logs as JSON")
	noColor := fs.Bool("no-color", false, "disable colored output")
	fs.StringVar(&config.Eval, "e", "", "decode the given escaped input and exit")
	fs.StringVar(&config.Prompt, "prompt", "resp> ", "interactive prompt")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if *version {
		return config, true, nil
	}
	if *raw {
		config.Output = "raw"
	}
	if *verbose {
		config.LogLevel = "debug"
	}
	config.Files = fs.Args()
	config.Color = !*noColor && isTerminal(cli.stdout)
	config.HistoryFile = getDotfilePath(RespcheckHisFileEnv, RespcheckHisFileDefault)

	if err := validate.Struct(config); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if config.Eval != "" && len(config.Files) > 0 {
		return nil, false, fmt.Errorf("%w: -e cannot be combined with files", ErrUsage)
	}
	return config, false, nil
}

// Run executes respcheck with the given arguments and returns the exit status.
func (cli *RespCli) Run(args []string) int {
	config, showVersion, err := cli.parseConfig(args)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		fmt.Fprintf(cli.stderr, "respcheck: %v\n", err)
		return ExitUsage
	}
	if showVersion {
		fmt.Fprintf(cli.stdout, "respcheck %s\n", cli.Version())
		return ExitOK
	}
	cli.config = config

	if err := log.InitLogger(log.Config{
		Level: config.LogLevel,
		JSON:  config.JSONLog,
		Color: isTerminal(cli.stderr),
	}); err != nil {
		fmt.Fprintf(cli.stderr, "respcheck: %v\n", err)
		return ExitUsage
	}
	defer log.Logger.Sync()

	cli.decoder = resp.NewDecoder(resp.WithMaxDepth(config.MaxDepth), resp.WithLogger(log.Logger))
	cli.styles = newStyles(config.Color)
	if f, ok := cli.stdout.(*os.File); ok {
		cli.width = terminalWidth(f.Fd())
	}

	switch {
	case config.Eval != "":
		input, err := unescape(config.Eval)
		if err != nil {
			fmt.Fprintf(cli.stderr, "respcheck: %v\n", err)
			return ExitUsage
		}
		if err := cli.decodeAndPrint(input); err != nil {
			return ExitDecode
		}
	case len(config.Files) > 0:
		if err := cli.decodeFiles(config.Files); err != nil {
			log.Logger.Debug("batch finished with failures", zap.Error(err))
			return ExitDecode
		}
	case isTerminal(cli.stdin):
		cli.repl()
	default:
		input, err := io.ReadAll(cli.stdin)
		if err != nil {
			fmt.Fprintf(cli.stderr, "respcheck: reading stdin: %v\n", err)
			return ExitDecode
		}
		if err := cli.decodeAndPrint(input); err != nil {
			return ExitDecode
		}
	}
	return ExitOK
}

// decodeAndPrint decodes input and prints the value, or the diagnostic on failure.
func (cli *RespCli) decodeAndPrint(input []byte) error {
	v, err := cli.decoder.Decode(input)
	if err != nil {
		fmt.Fprintln(cli.stdout, formatFailure(err, input, cli.width, cli.styles))
		return err
	}
	fmt.Fprintln(cli.stdout, formatValue(v, cli.config.outputMode(), cli.styles))
	return nil
}

func (cli *RespCli) decodeFiles(paths []string) error {
	var errs MultiError
	for _, path := range paths {
		input, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cli.stderr, "respcheck: %v\n", err)
			errs = append(errs, err)
			continue
		}
		if len(paths) > 1 {
			fmt.Fprintf(cli.stdout, "==> %s <==\n", path)
		}
		if err := cli.decodeAndPrint(input); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs.errorOrNil()
}

func (cli *RespCli) repl() {
	ln := linenoise.New()
	defer ln.Close()

	historyFile := cli.config.HistoryFile
	if historyFile != "" {
		if err := ln.HistoryLoad(historyFile); err != nil {
			log.Logger.Warn("failed to load history", zap.String("file", historyFile), zap.Error(err))
		}
	}

	for {
		line, err := ln.Prompt(cli.config.Prompt)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, linenoise.ErrAborted) {
				log.Logger.Error("prompt failed", zap.Error(err))
			}
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)
		if historyFile != "" {
			if err := ln.HistorySave(historyFile); err != nil {
				log.Logger.Warn("failed to save history", zap.String("file", historyFile), zap.Error(err))
			}
		}

		if strings.EqualFold(strings.TrimSpace(line), "clear") {
			ln.ClearScreen(cli.stdout)
			continue
		}
		if cli.evalLine(line) {
			return
		}
	}
}

// evalLine handles one line typed at the prompt and reports whether the session
// should end.
func (cli *RespCli) evalLine(line string) bool {
	switch cmd := strings.TrimSpace(line); {
	case strings.EqualFold(cmd, "quit"), strings.EqualFold(cmd, "exit"):
		return true
	case strings.EqualFold(cmd, "help"):
		fmt.Fprintln(cli.stdout, `Type a RESP value using escapes, e.g. *2\r\n:1\r\n+OK\r\n`)
		fmt.Fprintln(cli.stdout, "Commands: help, clear, quit, exit")
		return false
	}

	input, err := unescape(line)
	if err != nil {
		fmt.Fprintln(cli.stdout, formatFailure(err, nil, cli.width, cli.styles))
		return false
	}
	cli.decodeAndPrint(input)
	return false
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func getDotfilePath(envOverride, dotFilename string) string {
	path := os.Getenv(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, dotFilename)
}
