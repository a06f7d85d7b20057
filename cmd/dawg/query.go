package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/milden6/dawg/v2"
)

// queryModes are the lookups query can run, one per flag. With none set,
// query tests membership.
var queryModes = []struct {
	flag string
	run  func(f dawg.Finder, word string) []string
}{
	{"prefix", func(f dawg.Finder, word string) []string {
		return f.StringsWithPrefix(word)
	}},
	{"suffix", func(f dawg.Finder, word string) []string {
		return f.StringsWithSuffix(word)
	}},
	{"contains", func(f dawg.Finder, word string) []string {
		return f.StringsContaining(word)
	}},
	{"longest", func(f dawg.Finder, word string) []string {
		return []string{word + "\t" + f.LongestAcceptedPrefix(word)}
	}},
	{"prefixes-of", func(f dawg.Finder, word string) []string {
		var lines []string
		for _, r := range f.FindAllPrefixesOf(word) {
			lines = append(lines, fmt.Sprintf("%s\t%d", r.Word, r.Index))
		}
		return lines
	}},
	{"index", func(f dawg.Finder, word string) []string {
		return []string{fmt.Sprintf("%s\t%d", word, f.IndexOf(word))}
	}},
}

func lookup(f dawg.Finder, word string) []string {
	return []string{fmt.Sprintf("%s\t%t", word, f.Contains(word))}
}

func (a *app) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [flags] word...",
		Short: "Look words up in a DAWG file",
		Long: `Query loads a DAWG file and runs one lookup for each argument. Without a
mode flag it prints whether each word is in the list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args)
		},
	}

	cmd.Flags().StringP("dawg", "d", "", "DAWG file to query")
	cmd.Flags().Bool("prefix", false, "list the words starting with each argument")
	cmd.Flags().Bool("suffix", false, "list the words ending with each argument")
	cmd.Flags().Bool("contains", false, "list the words containing each argument")
	cmd.Flags().Bool("longest", false, "print the longest word that is a prefix of each argument")
	cmd.Flags().Bool("prefixes-of", false, "list the words that are prefixes of each argument, with their index")
	cmd.Flags().Bool("index", false, "print the index of each argument, or -1")
	cmd.MarkFlagsMutuallyExclusive("prefix", "suffix", "contains", "longest", "prefixes-of", "index")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, args []string) error {
	run := lookup
	for _, mode := range queryModes {
		if a.v.GetBool(mode.flag) {
			run = mode.run
			break
		}
	}

	file, err := a.required("dawg")
	if err != nil {
		return err
	}
	c, err := dawg.Load(file)
	if err != nil {
		return errors.Wrapf(err, "load %s", file)
	}

	// a Compact is safe for concurrent readers
	results := make([][]string, len(args))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, word := range args {
		eg.Go(func() error {
			results[i] = run(c, word)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, lines := range results {
		if len(lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(out, strings.Join(lines, "\n")); err != nil {
			return errors.Wrap(err, "write results")
		}
	}
	return nil
}
