package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/milden6/dawg/v2"
)

func (a *app) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the encoded contents of a DAWG file",
		Long:  "Dump decodes a DAWG file field by field and prints each field with its bit offset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.required("dawg")
			if err != nil {
				return err
			}
			f, err := os.Open(file)
			if err != nil {
				return errors.Wrap(err, "open dawg file")
			}
			defer f.Close()

			return dawg.Dump(cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringP("dawg", "d", "", "DAWG file to dump")
	return cmd
}
