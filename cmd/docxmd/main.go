// Command docxmd converts a .docx file into annotated Markdown.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/dgallion1/docxmd/internal/linearize"
	"github.com/dgallion1/docxmd/internal/parser"
	"github.com/dgallion1/docxmd/internal/preview"
)

// CLI defines the command-line interface using Kong.
type CLI struct {
	Input    string `arg:"" type:"path" help:"Input .docx file."`
	Output   string `arg:"" optional:"" default:"-" help:"Output file, or - for standard output."`
	Ordinals string `name:"ordinals" enum:"decimal,declared" default:"decimal" help:"Ordered list markers: decimal or declared (letters and Roman numerals)."`
	Labels   string `name:"labels" enum:"en,zh" default:"en" help:"Annotation label language."`
	HTML     bool   `name:"html" help:"Write a standalone HTML page instead of Markdown."`
	Verbose  bool   `name:"verbose" short:"v" help:"Verbose logging."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("docxmd"),
		kong.Description("Convert a Word document, with its comments and tracked changes, into annotated Markdown."),
		kong.UsageOnError(),
	)
	err := run(&cli, os.Stdout, newLogger(cli.Verbose))
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cli *CLI, stdout io.Writer, log *slog.Logger) error {
	opts, err := cli.options()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cli.Input)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("input file not found: %s", cli.Input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	filename := filepath.Base(cli.Input)
	p := &parser.DOCXParser{Log: log}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return fmt.Errorf("convert %s: %w", cli.Input, err)
	}
	out := linearize.Linearize(doc, opts)
	log.Debug("converted document",
		"input", cli.Input,
		"comments", len(doc.Comments),
		"styles", len(doc.Styles),
		"bytes", len(out),
	)

	if cli.HTML {
		title := strings.TrimSuffix(filename, filepath.Ext(filename))
		if out, err = preview.Page(title, out); err != nil {
			return err
		}
	}

	if strings.TrimSpace(cli.Output) == "" || cli.Output == "-" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cli.Output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(cli.Output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("wrote output", "path", cli.Output)
	return nil
}

func (c *CLI) options() (linearize.Options, error) {
	var opts linearize.Options
	ord, err := linearize.ParseOrdinals(c.Ordinals)
	if err != nil {
		return opts, err
	}
	labels, err := linearize.ParseLabels(c.Labels)
	if err != nil {
		return opts, err
	}
	opts.Ordinals = ord
	opts.Labels = labels
	return opts, nil
}
