// Package cmd implements the pascals command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pascals/pkg/config"
	"pascals/pkg/lexer"
)

// errReported marks a failure whose message has already been printed.
var errReported = errors.New("reported")

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	vocab   string
	verbose bool
	noColor bool

	cfg    *config.Config
	log    *slog.Logger
	styles styles
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pascals",
		Short: "Pascal-S front end with English and Indonesian keywords",
		Long: `pascals runs the Pascal-S front end over source files.

Commands:
  lex      Print the token stream
  parse    Print the parse tree
  analyze  Print the symbol, array and block tables
  vocab    List keyword registers and their reserved words

Defaults are read from pascals.toml or pascals.yaml in the working
directory or one of its parents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: discovered pascals.toml or pascals.yaml)")
	root.PersistentFlags().StringVarP(&a.vocab, "vocab", "l", "", "keyword register: english or indonesian (default from config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log stage timings to stderr")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable styled output")

	root.AddCommand(
		newLexCmd(a),
		newParseCmd(a),
		newAnalyzeCmd(a),
		newVocabCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the config file and builds the logger. Flags win over the
// config.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("vocab") {
		if _, err := lexer.Lookup(a.vocab); err != nil {
			return err
		}
		cfg.Vocabulary = a.vocab
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if cfg.Path() != "" {
		a.log.Debug("config loaded", "path", cfg.Path())
	}

	a.styles = newStyles(!a.noColor && cfg.UseColor() && isTerminal(cmd.OutOrStdout()))
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		return config.Load(a.cfgFile)
	}
	path, err := config.Discover(".")
	if errors.Is(err, config.ErrNotFound) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
