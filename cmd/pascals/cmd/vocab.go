package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pascals/pkg/lexer"
	"pascals/pkg/token"
)

func newVocabCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vocab [NAME]",
		Short: "List keyword registers, or the words of one register",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				current, err := lexer.Lookup(a.cfg.Vocabulary)
				if err != nil {
					return err
				}
				for _, name := range lexer.Names() {
					v := lexer.MustLookup(name)
					mark := " "
					if v == current {
						mark = a.styles.render(a.styles.pass, "*")
					}
					line := fmt.Sprintf("%s %-12s %-16s %s", mark, v.Name, strings.Join(v.Aliases, ", "), v.Description)
					fmt.Fprintln(out, strings.TrimRight(line, " "))
				}
				return nil
			}

			v, err := lexer.Lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, a.styles.render(a.styles.title, v.Name))
			fmt.Fprintf(out, "%-12s %s\n", "SYMBOL", "WORD")
			for s := token.None + 1; s.IsWord(); s++ {
				fmt.Fprintf(out, "%-12s %s\n", s, v.Spelling(s))
			}
			return nil
		},
	}
}
