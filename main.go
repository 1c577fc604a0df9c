package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonflat/internal/config"
	"github.com/mcncl/jsonflat/internal/errors"
	"github.com/mcncl/jsonflat/internal/flattener"
	"github.com/mcncl/jsonflat/internal/formatter"
	"github.com/mcncl/jsonflat/internal/logging"
	"github.com/mcncl/jsonflat/internal/models"
	"github.com/mcncl/jsonflat/internal/parser"
	"github.com/mcncl/jsonflat/internal/query"
	"github.com/sirupsen/logrus"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. If not specified, searches for .jsonflat.yml in current and parent directories." short:"c" type:"path"`
	Separator   string `help:"Separator used to join flattened key paths (default \".\")." short:"s"`
	KeyCase     string `help:"Rewrite object keys before joining them: none, snake, camel, lower_camel or kebab." name:"key-case"`
	Query       string `help:"JSONPath expression selecting the object to flatten, e.g. '$.data'." short:"q"`
	Format      string `help:"Output format: json or yaml." short:"F"`
	Quiet       bool   `help:"Only print the flattened document, not the input." short:"Q"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger logrus.FieldLogger
}

// Version information
const (
	Version = "0.1.0"
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonflat"),
		kong.Description("Flatten nested JSON objects into dot-separated keys, merging collisions into arrays"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Fprintf(stdout, "jsonflat version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.CLIOverrides{
		Separator: CLI.Separator,
		KeyCase:   CLI.KeyCase,
		Query:     CLI.Query,
		Format:    CLI.Format,
		Quiet:     CLI.Quiet,
		Debug:     CLI.Debug,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError(err.Error(), err)))
		os.Exit(1)
	}

	logger := logging.NewLogger(stderr, cfg.Dev.Debug)
	if configPath != "" {
		logger.WithField(logging.Source, configPath).Debug("Loaded configuration")
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(stderr, "\nFor help, run: jsonflat --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	log := ctx.Logger
	if log == nil {
		log = logging.Discard()
	}

	// 1. Build the pipeline from the configuration
	opts := parser.Options{MaxDepth: cfg.MaxDepth}
	if cfg.Query != "" {
		selector, err := query.Compile(cfg.Query)
		if err != nil {
			return err
		}
		opts.Query = selector
	}
	flat, err := flattener.NewFlattenerWithOptions(cfg.FlattenerOptions())
	if err != nil {
		return errors.NewConfigError("invalid flattener settings", err)
	}
	out := formatter.NewFormatterWithOptions(cfg.FormatterOptions())

	// 2. Parse JSON input
	doc, err := parseInput(parser.NewParser(opts))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		logging.Keys:  len(doc.Root),
		logging.Depth: doc.Depth,
		logging.Query: cfg.Query,
	}).Debug("Parsed input document")

	// 3. Flatten it
	result, stats := flat.FlattenWithStats(doc.Root)
	log.WithFields(logrus.Fields{
		logging.Subsys:     "flattener",
		logging.Keys:       stats.Keys,
		logging.Scalars:    stats.Scalars,
		logging.Collisions: stats.Collisions,
		logging.Extracted:  stats.Extracted,
		logging.Depth:      stats.MaxDepth,
	}).Debug("Flattened document")

	// 4. Render everything before writing so a failure leaves no partial output
	rendered, err := render(out, cfg, doc.Root, result)
	if err != nil {
		return err
	}

	// 5. Output the result
	return writeOutput(rendered)
}

// render formats the flattened document, preceded by the input document and
// the divider when echoing is enabled.
func render(out *formatter.Formatter, cfg *config.Config, input, result models.JSONObject) (string, error) {
	var sb strings.Builder
	if cfg.Output.EchoInput {
		original, err := out.Format(input)
		if err != nil {
			return "", errors.NewFormatError("failed to render input document", err)
		}
		sb.WriteString(original)
		sb.WriteString("\n\n")
		sb.WriteString(cfg.Output.Divider)
		sb.WriteString("\n\n")
	}

	flattened, err := out.Format(result)
	if err != nil {
		return "", errors.NewFormatError("failed to render flattened document", err)
	}
	sb.WriteString(flattened)
	return sb.String(), nil
}

// parseInput reads JSON from file or stdin
func parseInput(p *parser.Parser) (models.Document, error) {
	if CLI.Input != "" {
		return p.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput(p)
		}
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return p.ParseString(string(jsonData))
}

// writeOutput writes the rendered documents to file or stdout
func writeOutput(content string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(content+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(stderr, "Flattened JSON written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Fprintln(stdout, content)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(p *parser.Parser) (models.Document, error) {
	fmt.Fprintln(stderr, "jsonflat Interactive Mode")
	fmt.Fprintln(stderr, "Paste your JSON object below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(stderr, "\nProcessing JSON...")
	return p.ParseString(jsonData)
}
