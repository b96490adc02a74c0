package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/praetorian-inc/line/pkg/config"
	"github.com/praetorian-inc/line/pkg/extract"
	"github.com/praetorian-inc/line/pkg/index"
	"github.com/praetorian-inc/line/pkg/input"
	"github.com/praetorian-inc/line/pkg/render"
	"github.com/praetorian-inc/line/pkg/selector"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	indexPath  string

	lineSelectors   string
	lineBefore      int
	lineAfter       int
	lineContext     int
	linePlain       bool
	lineColor       string
	lineAllowBinary bool
)

// stdoutIsTerminal decides decoration and auto color. Tests replace it.
var stdoutIsTerminal = func() bool {
	return input.IsTerminal(os.Stdout)
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line -n <selectors> <file>",
		Short: "Print lines of a file by number, range or step",
		Long: `line prints selected lines of a file.

Selectors are comma-separated and one-based. Negative numbers count from
the end of the file (-1 is the last line). Ranges follow start:end:step
with every part optional, for example 3, -2, 5:10, :4, 10:, ::2 or 9:1:-1.`,
		Args: cobra.ExactArgs(1),
		RunE: runLine,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/line/config.yaml)")
	cmd.PersistentFlags().StringVar(&indexPath, "index", "", "Path to line count index database (\":memory:\" for none on disk)")

	cmd.Flags().StringVarP(&lineSelectors, "line", "n", "", "Line selectors, comma-separated (e.g. 1,-2,3:9:2)")
	cmd.Flags().IntVarP(&lineBefore, "before", "B", 0, "Lines of context before each selected line")
	cmd.Flags().IntVarP(&lineAfter, "after", "A", 0, "Lines of context after each selected line")
	cmd.Flags().IntVarP(&lineContext, "context", "C", 0, "Lines of context before and after each selected line")
	cmd.Flags().BoolVarP(&linePlain, "plain", "p", false, "Print raw lines without numbers or headers")
	cmd.Flags().StringVar(&lineColor, "color", config.ColorAuto, "Color output: auto, always, never")
	cmd.Flags().BoolVar(&lineAllowBinary, "allow-binary-files", false, "Read files that look binary")

	_ = cmd.MarkFlagRequired("line")
	cmd.MarkFlagsMutuallyExclusive("context", "before")
	cmd.MarkFlagsMutuallyExclusive("context", "after")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runLine(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyConfig(cmd, cfg)

	if lineBefore < 0 || lineAfter < 0 || lineContext < 0 {
		return fmt.Errorf("context lines can't be negative")
	}
	if cmd.Flags().Changed("context") {
		lineBefore, lineAfter = lineContext, lineContext
	}

	raws, err := selector.ParseList(lineSelectors)
	if err != nil {
		return err
	}

	colored, err := colorEnabled(lineColor, stdoutIsTerminal())
	if err != nil {
		return err
	}
	style := render.StyleFor(stdoutIsTerminal() && !linePlain, colored)
	logf(cmd, "output style: %s", style)

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()

	f, err := input.Open(path)
	if errors.Is(err, input.ErrEmptyFile) {
		if !linePlain {
			return render.NewWriter(out, style).EmptyFile()
		}
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if f.StatErr != nil {
		warnf(cmd, "can't read metadata of `%s`, treating it as a file: %v", path, f.StatErr)
	}

	if !lineAllowBinary {
		binary, err := f.Sniff()
		if err != nil {
			return err
		}
		if binary {
			return fmt.Errorf("binary file (use --allow-binary-files to override)")
		}
	}

	var store index.Store
	if indexPath != "" {
		store, err = index.New(index.Config{Path: indexPath})
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		defer store.Close()
	}

	ex, err := extract.New(extract.Options{
		Context:         extract.Context{Before: lineBefore, After: lineAfter},
		Style:           style,
		EmptyFileNotice: !linePlain,
		Index:           store,
		Logf:            func(format string, a ...any) { logf(cmd, format, a...) },
		Warnf:           func(format string, a ...any) { warnf(cmd, format, a...) },
	})
	if err != nil {
		return err
	}

	if _, err := ex.Run(out, extract.Source{Reader: f, Key: f.Key}, raws); err != nil {
		return err
	}
	return out.Flush()
}

// loadConfig reads --config, or the default config file when it exists.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDefault()
}

// applyConfig copies config values into every flag the user didn't set.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("color") {
		lineColor = cfg.Color
	}
	if !flags.Changed("plain") {
		linePlain = cfg.Plain
	}
	if !flags.Changed("allow-binary-files") {
		lineAllowBinary = cfg.AllowBinaryFiles
	}
	if !flags.Changed("index") {
		indexPath = cfg.Index
	}
	if flags.Changed("context") {
		return
	}
	before, after := cfg.ContextLines()
	if !flags.Changed("before") {
		lineBefore = before
	}
	if !flags.Changed("after") {
		lineAfter = after
	}
}

// colorEnabled applies the color mode. Auto means a terminal with NO_COLOR
// unset.
func colorEnabled(mode string, tty bool) (bool, error) {
	switch mode {
	case config.ColorAlways:
		return true, nil
	case config.ColorNever:
		return false, nil
	case config.ColorAuto:
		return tty && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid color mode %q (want auto, always or never)", mode)
	}
}

func logf(cmd *cobra.Command, format string, args ...any) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
	}
}
