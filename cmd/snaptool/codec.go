package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/FlyyToMoon/libtw2/packer"
	"github.com/FlyyToMoon/libtw2/snap"
)

// variableObjectSize treats every item as variable-sized: snaptool has no
// entity schema to consult, so every updated item's length travels on the
// wire explicitly.
func variableObjectSize(uint16) (uint32, bool) { return 0, false }

func readSnapFile(path string) (*snap.Snap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "snaptool: read %s", path)
	}
	r := snap.NewSnapReader()
	s, err := r.Read(snap.Empty(), packer.NewUnpacker(data), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "snaptool: decode %s", path)
	}
	return s, nil
}

func writeSnapFile(path string, s *snap.Snap) error {
	p := packer.NewPacker(nil)
	if err := s.Write(p); err != nil {
		return errors.Wrap(err, "snaptool: encode snap")
	}
	if err := os.WriteFile(path, p.Written(), 0o644); err != nil {
		return errors.Wrapf(err, "snaptool: write %s", path)
	}
	return nil
}

func readDeltaFile(path string) (*snap.Delta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "snaptool: read %s", path)
	}
	d := snap.NewDelta()
	if err := d.Read(variableObjectSize, packer.NewUnpacker(data), nil); err != nil {
		return nil, errors.Wrapf(err, "snaptool: decode delta %s", path)
	}
	return d, nil
}

func writeDeltaFile(path string, d *snap.Delta) error {
	p := packer.NewPacker(nil)
	if err := d.Write(variableObjectSize, p); err != nil {
		return errors.Wrap(err, "snaptool: encode delta")
	}
	if err := os.WriteFile(path, p.Written(), 0o644); err != nil {
		return errors.Wrapf(err, "snaptool: write %s", path)
	}
	return nil
}
