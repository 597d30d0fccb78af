package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-parsekit/lrcanon/driver"
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/symbol"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	lr1   *bool
	trace *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <input file path>",
		Short:   "Drive a canonical LR table over a file of test input lines",
		Example: `  lrtab test grammar.txt input.txt --lr1`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.lr1 = cmd.Flags().Bool("lr1", false, "build a canonical LR(1) table instead of LR(0)")
	testFlags.trace = cmd.Flags().Bool("trace", false, "print the state stack and lookahead before each step")
	rootCmd.AddCommand(cmd)
}

// tokensToSymbols resolves a whitespace-separated line of terminal
// names against g's symbol table and appends the END sentinel, per
// the "single-character token per symbol is the common case" surface
// syntax gramfile.Load shares with this command.
func tokensToSymbols(g *grammar.Grammar, line string) ([]symbol.Symbol, error) {
	fields := strings.Fields(line)
	syms := make([]symbol.Symbol, 0, len(fields)+1)
	for _, f := range fields {
		s, ok := g.Symbols.ToSymbol(f)
		if !ok || !s.IsTerminal() {
			return nil, fmt.Errorf("%q is not a known terminal", f)
		}
		syms = append(syms, s)
	}
	syms = append(syms, g.End)
	return syms, nil
}

func runTest(cmd *cobra.Command, args []string) error {
	g, _, tab, err := buildTable(args[0], *testFlags.lr1)
	if err != nil {
		return err
	}

	inFile, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("cannot open input file %s: %w", args[1], err)
	}
	defer inFile.Close()

	var trace driver.Trace
	if *testFlags.trace {
		trace = func(stack []lr.StateNum, lookahead symbol.Symbol) {
			fmt.Fprintf(os.Stdout, "stack=%v lookahead=%v\n", stack, lookahead)
		}
	}

	p := driver.New(tab, g.End)

	pass, fail := 0, 0
	sc := bufio.NewScanner(inFile)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		syms, err := tokensToSymbols(g, line)
		if err != nil {
			fmt.Fprintf(os.Stdout, "FAIL %q: %v\n", line, err)
			fail++
			continue
		}

		if err := p.Parse(syms, trace); err != nil {
			fmt.Fprintf(os.Stdout, "FAIL %q: %v\n", line, err)
			fail++
			continue
		}
		fmt.Fprintf(os.Stdout, "PASS %q\n", line)
		pass++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	fmt.Fprintf(os.Stdout, "%v passed, %v failed\n", pass, fail)
	if fail > 0 {
		return fmt.Errorf("%v of %v lines failed to parse", fail, pass+fail)
	}
	return nil
}
