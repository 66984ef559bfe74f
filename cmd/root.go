package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	minipas "go.minipas.dev/pkg"
)

var (
	cfgFile string
	verbose bool
	format  string
	noColor bool
)

// errHasDiagnostics makes the process exit non-zero without printing anything
// beyond the diagnostics themselves.
var errHasDiagnostics = errors.New("program has errors")

var kindStyles = map[minipas.ErrorKind]lipgloss.Style{
	minipas.LexicalErrorKind:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
	minipas.SyntaxErrorKind:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	minipas.SemanticErrorKind: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
}

var rootCmd = &cobra.Command{
	Use:   "minipas [file]",
	Short: "minipas - front end for a Pascal subset",
	Long: `minipas tokenizes, parses and type-checks a program written in a small
Pascal subset (program/type/var sections, if, while, assignment) and reports
every lexical, syntax and semantic error it finds.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errHasDiagnostics) {
		printError(rootCmd.ErrOrStderr(), err)
	}

	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, yaml or pascal")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

func loadConfig() (*minipas.Config, error) {
	cfg := minipas.DefaultConfig()
	if cfgFile != "" {
		loaded, err := minipas.LoadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if format != "" {
		cfg.Output.Format = format
	}
	if noColor {
		cfg.Output.Color = false
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ast, err := minipas.NewCompilerWithLogger(logger).Compile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch cfg.Output.Format {
	case minipas.FormatYAML:
		data, err := minipas.Dump(ast)
		if err != nil {
			return fmt.Errorf("dump tree: %w", err)
		}
		_, _ = out.Write(data)
	case minipas.FormatPascal:
		fmt.Fprint(out, minipas.Format(ast.Program))
	}

	if len(ast.Errors) == 0 {
		return nil
	}

	if cfg.Output.Format != minipas.FormatYAML {
		printDiagnostics(cmd.ErrOrStderr(), ast.Errors, cfg.Output)
	}

	return errHasDiagnostics
}

func printDiagnostics(w io.Writer, diags []*minipas.Diagnostic, cfg minipas.OutputConfig) {
	shown := diags
	if cfg.MaxErrors > 0 && len(shown) > cfg.MaxErrors {
		shown = shown[:cfg.MaxErrors]
	}

	for _, d := range shown {
		line := d.Error()
		if cfg.Color {
			label := d.Kind.String() + " Error"
			line = kindStyles[d.Kind].Render(label) + line[len(label):]
		}
		fmt.Fprintln(w, line)
	}

	if hidden := len(diags) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "... and %d more errors\n", hidden)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
