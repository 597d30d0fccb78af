package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-parsekit/lrcanon/internal/firstset"
	"github.com/go-parsekit/lrcanon/internal/grammar"
	"github.com/go-parsekit/lrcanon/internal/gramfile"
	"github.com/go-parsekit/lrcanon/internal/lr"
	"github.com/go-parsekit/lrcanon/internal/lr0"
	"github.com/go-parsekit/lrcanon/internal/lr1"
	"github.com/spf13/cobra"
)

var buildFlags = struct {
	lr1 *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "build <grammar file path>",
		Short:   "Build a canonical LR parsing table and describe it",
		Example: `  lrtab build grammar.txt --lr1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runBuild,
	}
	buildFlags.lr1 = cmd.Flags().Bool("lr1", false, "build a canonical LR(1) table instead of LR(0)")
	rootCmd.AddCommand(cmd)
}

// buildTable loads a grammar and constructs either an LR(0) or an
// LR(1) canonical collection and table, per the --lr1 flag.
func buildTable(path string, useLR1 bool) (*grammar.Grammar, *lr.Collection, *lr.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot open grammar file %s: %w", path, err)
	}
	defer f.Close()

	g, err := gramfile.Load(f)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot read grammar: %w", err)
	}

	var coll *lr.Collection
	if useLR1 {
		fst := firstset.New(g)
		coll, err = lr1.Build(g, fst)
	} else {
		coll, err = lr0.Build(g)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot build canonical collection: %w", err)
	}

	tab, err := lr.Build(g.End, coll)
	if err != nil {
		return g, coll, nil, err
	}
	return g, coll, tab, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, coll, tab, err := buildTable(args[0], *buildFlags.lr1)
	if err != nil {
		if g != nil && coll != nil {
			var b strings.Builder
			lr.Describe(&b, g, coll)
			fmt.Fprint(os.Stdout, b.String())
		}
		return err
	}

	var b strings.Builder
	lr.Describe(&b, g, coll)
	fmt.Fprintf(&b, "%v states, initial state %v\n", tab.StateCount, tab.Initial)
	fmt.Fprint(os.Stdout, b.String())
	return nil
}
