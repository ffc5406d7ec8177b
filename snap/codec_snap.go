// Wire codec for Snap: a header describing counts, an offset table, then
// one record per item, all as packed ints.
package snap

import (
	"math"
	"sort"

	"github.com/FlyyToMoon/libtw2/packer"
	"github.com/FlyyToMoon/libtw2/warn"
)

// SnapHeader is the two-int header that precedes a serialized snapshot's
// offset table and item region.
type SnapHeader struct {
	DataSize int32
	NumItems int32
}

func (h SnapHeader) encode(p *packer.Packer) error {
	if err := p.WriteInt(h.DataSize); err != nil {
		return err
	}
	return p.WriteInt(h.NumItems)
}

func decodeSnapHeader(p *packer.Unpacker, warner warn.Sink[Warning]) (SnapHeader, error) {
	dataSize, err := readIntPlain(p, warner)
	if err != nil {
		return SnapHeader{}, err
	}
	numItems, err := readIntPlain(p, warner)
	if err != nil {
		return SnapHeader{}, err
	}
	return SnapHeader{DataSize: dataSize, NumItems: numItems}, nil
}

// wrapPackerWarn lets the int packer's own Warning values (currently just
// OverlongEncoding) ride the same sink a caller passed in for this
// package's Warning type.
func wrapPackerWarn(sink warn.Sink[Warning]) warn.Sink[packer.Warning] {
	if sink == nil {
		return nil
	}
	return warn.Wrap[packer.Warning, Warning](sink, func(packer.Warning) Warning {
		return WarnPackedIntOverlong
	})
}

// readIntPlain reads one packed int, translating the packer's own error
// types directly to their snap.Error equivalent -- used for header fields,
// which have no more specific contextual error kind to report.
func readIntPlain(p *packer.Unpacker, warner warn.Sink[Warning]) (int32, error) {
	v, err := p.ReadInt(wrapPackerWarn(warner))
	if err == nil {
		return v, nil
	}
	switch err.(type) {
	case packer.UnexpectedEnd:
		return 0, wrap(ErrUnexpectedEnd)
	case packer.IntOutOfRange:
		return 0, wrap(ErrIntOutOfRange)
	default:
		return 0, err
	}
}

// readIntErr reads one packed int, translating any packer failure into the
// caller-supplied contextual Error kind, so a caller learns where in the
// stream the fault occurred.
func readIntErr(p *packer.Unpacker, warner warn.Sink[Warning], kind Error) (int32, error) {
	v, err := p.ReadInt(wrapPackerWarn(warner))
	if err != nil {
		return 0, wrap(kind)
	}
	return v, nil
}

// Write serializes the snap as a sequence of packed ints: a header, an
// offsets table, then the items region, both tables in unsigned-ascending
// key order. Arithmetic overflow while computing sizes is a programmer
// error under the 64 KiB cap and panics.
func (s *Snap) Write(p *packer.Packer) error {
	keys := make([]int32, 0, len(s.offsets))
	for k := range s.offsets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessUnsigned(keys[i], keys[j]) })

	total := int64(len(s.buf)) + int64(len(s.offsets))
	dataSizeBytes := total * 4
	if dataSizeBytes > math.MaxInt32 {
		panic("snap: snapshot size overflow")
	}
	if err := (SnapHeader{
		DataSize: int32(dataSizeBytes),
		NumItems: int32(len(s.offsets)),
	}).encode(p); err != nil {
		return err
	}

	offset := int64(0)
	for _, k := range keys {
		if offset > math.MaxInt32 {
			panic("snap: offset overflow")
		}
		if err := p.WriteInt(int32(offset)); err != nil {
			return err
		}
		r := s.offsets[k]
		offset += (int64(r.len()) + 1) * 4
	}
	for _, k := range keys {
		if err := p.WriteInt(k); err != nil {
			return err
		}
		r := s.offsets[k]
		for _, w := range s.buf[r.start:r.end] {
			if err := p.WriteInt(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// SnapReader reuses a small sizes buffer across successive Read calls so
// repeated decodes don't reallocate it each time.
type SnapReader struct {
	sizes []int32
}

// NewSnapReader returns a SnapReader with no prior state.
func NewSnapReader() *SnapReader {
	return &SnapReader{}
}

// Read decodes a snapshot from p, recycling target's allocations into the
// result. target may be any previously-built Snap the caller no longer
// needs in its old form, including the zero result of a prior Read or
// Empty().
func (r *SnapReader) Read(target *Snap, p *packer.Unpacker, warner warn.Sink[Warning]) (*Snap, error) {
	r.sizes = r.sizes[:0]
	header, err := decodeSnapHeader(p, warner)
	if err != nil {
		return nil, err
	}

	var prevOffset int32
	havePrev := false
	for i := int32(0); i < header.NumItems; i++ {
		// This read could in principle fail even once the header has
		// decoded (a truncated or adversarial stream); report it as
		// OffsetsUnpacking like any other offset-table read rather than
		// assuming it can't happen.
		offset, err := readIntErr(p, warner, ErrOffsetsUnpacking)
		if err != nil {
			return nil, err
		}
		if havePrev {
			if prevOffset > offset {
				return nil, wrap(ErrInvalidOffset)
			}
			r.sizes = append(r.sizes, offset-prevOffset)
		} else if offset != 0 {
			return nil, wrap(ErrInvalidOffset)
		}
		prevOffset = offset
		havePrev = true
	}
	if havePrev {
		if prevOffset > header.DataSize {
			return nil, wrap(ErrInvalidOffset)
		}
		r.sizes = append(r.sizes, header.DataSize-prevOffset)
	}

	builder := target.Recycle()
	for _, size := range r.sizes {
		if size <= 0 || size%4 != 0 {
			return nil, wrap(ErrInvalidOffset)
		}
		words := size / 4
		key, err := readIntErr(p, warner, ErrItemsUnpacking)
		if err != nil {
			return nil, err
		}
		typeID, id := KeyTypeID(key), KeyID(key)
		if err := builder.addPacked(typeID, id, int(words)-1, p, warner); err != nil {
			return nil, err
		}
	}
	if !p.IsEmpty() {
		panic("snap: trailing bytes after a fully-sized snapshot decode")
	}
	return builder.Finish(), nil
}

// addPacked reads size packed words directly off the wire into a freshly
// allocated item under (typeID, id). Used only by SnapReader.Read.
func (b *Builder) addPacked(typeID, id uint16, size int, p *packer.Unpacker, warner warn.Sink[Warning]) error {
	dst, err := b.snap.prepareVacant(Key(typeID, id), size)
	if err != nil {
		return err
	}
	for i := range dst {
		v, err := readIntErr(p, warner, ErrItemsUnpacking)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
