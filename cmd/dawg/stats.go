package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/milden6/dawg/v2"
)

type fileStats struct {
	File       string `yaml:"file"`
	Bytes      int64  `yaml:"bytes"`
	dawg.Stats `yaml:",inline"`
}

func (a *app) newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the size of a DAWG file as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStats(cmd)
		},
	}

	cmd.Flags().StringP("dawg", "d", "", "DAWG file to inspect")
	return cmd
}

func (a *app) runStats(cmd *cobra.Command) error {
	file, err := a.required("dawg")
	if err != nil {
		return err
	}
	info, err := os.Stat(file)
	if err != nil {
		return errors.Wrap(err, "stat dawg file")
	}

	c, err := dawg.Load(file)
	if err != nil {
		return errors.Wrapf(err, "load %s", file)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(fileStats{File: file, Bytes: info.Size(), Stats: c.Stats()}); err != nil {
		return errors.Wrap(err, "encode stats")
	}
	return errors.Wrap(enc.Close(), "encode stats")
}
