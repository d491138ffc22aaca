package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lox/internal/ast"
	"lox/internal/parser"
	"lox/internal/report"
	"lox/internal/scanner"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <script>",
		Short: "Print the token stream for a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				lastExitCode = ExitUsageError
				return err
			}
			r := report.New()
			for _, tok := range scanner.New(src, r).Scan() {
				fmt.Println(tok.String())
			}
			if r.HadError {
				lastExitCode = ExitCompileError
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <script>",
		Short: "Parse a script and print the AST printer's parenthesized rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				lastExitCode = ExitUsageError
				return err
			}
			r := report.New()
			toks := scanner.New(src, r).Scan()
			program := parser.New(toks, r).Parse()
			if r.HadError {
				lastExitCode = ExitCompileError
				return nil
			}
			fmt.Println(ast.Print(program))
			return nil
		},
	}
}

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <script>",
		Short: "Print the parenthesized AST form of each top-level statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				lastExitCode = ExitUsageError
				return err
			}
			r := report.New()
			toks := scanner.New(src, r).Scan()
			program := parser.New(toks, r).Parse()
			if r.HadError {
				lastExitCode = ExitCompileError
				return nil
			}

			label := color.New(color.FgYellow).SprintFunc()
			for i, stmt := range program {
				fmt.Printf("%s %s\n", label(fmt.Sprintf("[%d]", i)), stmt.String())
			}
			os.Stdout.Sync()
			return nil
		},
	}
}
