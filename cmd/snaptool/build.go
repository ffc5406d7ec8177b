package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/FlyyToMoon/libtw2/cmd/snaptool/internal/fixture"
	"github.com/FlyyToMoon/libtw2/internal/size"
	"github.com/FlyyToMoon/libtw2/packer"
)

func buildCmd() *cobra.Command {
	var in, out, maxSize string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a serialized snapshot from a JSON item fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			maxBytes, err := size.Parse(maxSize)
			if err != nil {
				return errors.Wrap(err, "snaptool: --max-size")
			}

			items, err := fixture.Load(in)
			if err != nil {
				return err
			}
			s, err := fixture.BuildSnap(items)
			if err != nil {
				return err
			}
			p := packer.NewPacker(nil)
			if err := s.Write(p); err != nil {
				return errors.Wrap(err, "snaptool: write snap")
			}
			// The protocol's real MAX_SNAPSHOT_SIZE is a wire-compatibility
			// constant snap.Builder already enforces; --max-size lets a
			// fixture be checked against a tighter, test-local budget before
			// it ever gets near the real cap.
			if int64(len(p.Written())) > maxBytes {
				return errors.Errorf("snaptool: snapshot is %d bytes, exceeds --max-size %s", len(p.Written()), maxSize)
			}
			if err := os.WriteFile(out, p.Written(), 0o644); err != nil {
				return errors.Wrapf(err, "snaptool: write %s", out)
			}
			logger.Infof("wrote %d items, %d bytes, crc=%d to %s", s.Len(), len(p.Written()), s.CRC(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "path to a JSON item fixture")
	cmd.Flags().StringVar(&out, "out", "snap.bin", "path to write the serialized snapshot")
	cmd.Flags().StringVar(&maxSize, "max-size", "64k", "reject the built snapshot if its wire size exceeds this (b/k/m/g)")
	cmd.MarkFlagRequired("in")
	return cmd
}
