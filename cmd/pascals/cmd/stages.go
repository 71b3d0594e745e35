package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pascals/pkg/compiler"
	"pascals/pkg/render"
)

func newLexCmd(a *app) *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "lex FILE...",
		Short: "Print the token stream of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd, &f, job{
				stage: compiler.StageLex,
				ext:   extFor(".txt"),
				render: func(res *compiler.Result, _ render.Format) (string, error) {
					return render.Tokens(res.Tokens), nil
				},
			}, args)
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newParseCmd(a *app) *cobra.Command {
	var f stageFlags
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Print the parse tree of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd, &f, job{
				stage: compiler.StageParse,
				ext:   extFor(".txt"),
				render: func(res *compiler.Result, format render.Format) (string, error) {
					return render.EncodeTree(format, res.Tree)
				},
			}, args)
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		f         stageFlags
		decorated bool
	)
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Run semantic analysis and print the symbol, array and block tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("decorated") {
				decorated = a.cfg.Decorated
			}
			j := job{
				stage: compiler.StageAnalyze,
				ext:   extFor(".symtab"),
				render: func(res *compiler.Result, format render.Format) (string, error) {
					return render.Encode(format, res.Symbols, res.Blocks)
				},
				success: "Semantic analysis completed without errors.",
			}
			if decorated {
				j.preface = func(w io.Writer, res *compiler.Result) {
					rule := strings.Repeat("=", 40)
					fmt.Fprintf(w, "%s\n%s\n%s\n%s\n\n",
						a.styles.render(a.styles.title, "Decorated AST:"), rule,
						strings.TrimRight(render.DecoratedAST(res.Program), "\n"), rule)
				}
			}
			return a.runStage(cmd, &f, j, args)
		},
	}
	f.bind(cmd, true)
	cmd.Flags().BoolVarP(&decorated, "decorated", "d", false, "print the decorated AST before the tables")
	return cmd
}
