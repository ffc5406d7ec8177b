package main

import (
	"github.com/spf13/cobra"

	"github.com/FlyyToMoon/libtw2/snap"
	"github.com/FlyyToMoon/libtw2/warn"
)

func roundtripCmd() *cobra.Command {
	var from, delta, out string
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Apply a serialized delta onto a base snapshot and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSnap, err := readSnapFile(from)
			if err != nil {
				return err
			}
			d, err := readDeltaFile(delta)
			if err != nil {
				return err
			}

			var collector warn.Collector[snap.Warning]
			target := snap.Empty()
			if err := d.Apply(target, fromSnap, &collector); err != nil {
				return err
			}
			for _, w := range collector.Warnings {
				logger.Warnf("apply: %s", w)
			}
			if err := writeSnapFile(out, target); err != nil {
				return err
			}
			logger.Infof("applied delta: %d items, crc=%d, wrote %s", target.Len(), target.CRC(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "path to the base snapshot")
	cmd.Flags().StringVar(&delta, "delta", "", "path to the serialized delta")
	cmd.Flags().StringVar(&out, "out", "applied.bin", "path to write the reconstructed snapshot")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("delta")
	return cmd
}
