package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milden6/dawg/v2"
)

func (a *app) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a DAWG file from a word list",
		Long: `Build reads a word list, one word per line, builds a minimal DAWG from it,
optionally removes the words listed in a second file, and saves the result
in compact form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd)
		},
	}

	cmd.Flags().StringP("input", "i", "-", "word list to read, - for stdin")
	cmd.Flags().StringP("output", "o", "", "DAWG file to write")
	cmd.Flags().String("remove", "", "word list to remove after building")
	cmd.Flags().Bool("strict", false, "fail on words that are not sorted instead of sorting them")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command) error {
	output, err := a.required("output")
	if err != nil {
		return err
	}

	words, err := readWordFile(a.v.GetString("input"), cmd.InOrStdin())
	if err != nil {
		return err
	}

	g, err := a.buildGraph(words)
	if err != nil {
		return err
	}

	if file := a.v.GetString("remove"); file != "" {
		removals, err := readWordFile(file, cmd.InOrStdin())
		if err != nil {
			return err
		}
		for _, word := range removals {
			if err := g.Remove(word); err != nil {
				if !errors.Is(err, dawg.ErrWordNotFound) {
					return err
				}
				a.log.Warn("word to remove is not in the list", zap.String("word", word))
			}
		}
	}

	size, err := g.Compress().Save(output)
	if err != nil {
		return err
	}

	stats := g.Stats()
	a.log.Info("saved dawg",
		zap.String("file", output),
		zap.Int64("bytes", size),
		zap.Int("words", stats.Words),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges))
	return nil
}

// buildGraph sorts the words unless strict ordering was asked for, in which
// case they are added as they come.
func (a *app) buildGraph(words []string) (*dawg.Graph, error) {
	opts := []dawg.Option{dawg.WithLogger(a.log)}
	if !a.v.GetBool("strict") {
		return dawg.Build(words, opts...)
	}

	g := dawg.New(append(opts, dawg.WithStrictOrder())...)
	for i, word := range words {
		if err := g.Add(word); err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
	}
	g.Flush()
	return g, nil
}
