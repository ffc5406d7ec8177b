package main

import (
	"github.com/spf13/cobra"

	"github.com/FlyyToMoon/libtw2/snap"
)

func diffCmd() *cobra.Command {
	var from, to, out string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compute the delta between two serialized snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSnap, err := readSnapFile(from)
			if err != nil {
				return err
			}
			toSnap, err := readSnapFile(to)
			if err != nil {
				return err
			}

			d := snap.NewDelta()
			d.Create(fromSnap, toSnap)
			if err := writeDeltaFile(out, d); err != nil {
				return err
			}
			logger.Infof("delta: %d deleted, %d updated, wrote %s", d.NumDeleted(), d.NumUpdated(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "path to the reference snapshot")
	cmd.Flags().StringVar(&to, "to", "", "path to the target snapshot")
	cmd.Flags().StringVar(&out, "out", "delta.bin", "path to write the serialized delta")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
