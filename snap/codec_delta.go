// Wire codec for Delta: a header, the deleted-keys list, then the
// updated-items stream.
package snap

import (
	"github.com/FlyyToMoon/libtw2/packer"
	"github.com/FlyyToMoon/libtw2/warn"
)

// DeltaHeader is the two-int header preceding a delta's deleted-keys list
// and updated-items stream.
type DeltaHeader struct {
	NumDeletedItems int32
	NumUpdatedItems int32
}

func (h DeltaHeader) encode(p *packer.Packer) error {
	if err := p.WriteInt(h.NumDeletedItems); err != nil {
		return err
	}
	return p.WriteInt(h.NumUpdatedItems)
}

func decodeDeltaHeader(p *packer.Unpacker, warner warn.Sink[Warning]) (DeltaHeader, error) {
	numDeleted, err := readIntPlain(p, warner)
	if err != nil {
		return DeltaHeader{}, err
	}
	numUpdated, err := readIntPlain(p, warner)
	if err != nil {
		return DeltaHeader{}, err
	}
	return DeltaHeader{NumDeletedItems: numDeleted, NumUpdatedItems: numUpdated}, nil
}

// ObjectSize looks up the fixed word count for a given type_id, or ok=false
// if that type is variable-sized and its length must travel on the wire.
type ObjectSize func(typeID uint16) (size uint32, ok bool)

// Write serializes the delta: header, deleted keys (unspecified order),
// then updated items as (type_id, id, [size,] diff words...). objectSize
// must be the same lookup used by the matching Read.
func (d *Delta) Write(objectSize ObjectSize, p *packer.Packer) error {
	if err := (DeltaHeader{
		NumDeletedItems: int32(len(d.deleted)),
		NumUpdatedItems: int32(len(d.updated)),
	}).encode(p); err != nil {
		return err
	}
	for key := range d.deleted {
		if err := p.WriteInt(key); err != nil {
			return err
		}
	}
	for key, r := range d.updated {
		data := d.buf[r.start:r.end]
		typeID, id := KeyTypeID(key), KeyID(key)
		if err := p.WriteInt(int32(typeID)); err != nil {
			return err
		}
		if err := p.WriteInt(int32(id)); err != nil {
			return err
		}
		if fixed, ok := objectSize(typeID); ok {
			if int(fixed) != len(data) {
				panic("snap: object_size disagrees with actual item length")
			}
		} else {
			if err := p.WriteInt(int32(len(data))); err != nil {
				return err
			}
		}
		for _, w := range data {
			if err := p.WriteInt(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read decodes a delta from p using objectSize for types with a fixed word
// count. Read always clears the receiver first and always fully replaces
// its deleted/updated state, even on a later fatal error (the receiver is
// then in an undefined state and must be discarded, same as Delta.Apply's
// target).
func (d *Delta) Read(objectSize ObjectSize, p *packer.Unpacker, warner warn.Sink[Warning]) error {
	d.clear()

	header, err := decodeDeltaHeader(p, warner)
	if err != nil {
		return err
	}

	for i := int32(0); i < header.NumDeletedItems; i++ {
		key, err := readIntErr(p, warner, ErrDeletedItemsUnpacking)
		if err != nil {
			return err
		}
		d.deleted[key] = struct{}{}
	}
	if int(header.NumDeletedItems) != len(d.deleted) {
		if warner != nil {
			warner.Warn(WarnDuplicateDelete)
		}
	}

	numUpdates := 0
	for !p.IsEmpty() {
		rawTypeID, err := readIntErr(p, warner, ErrItemDiffsUnpacking)
		if err != nil {
			return err
		}
		rawID, err := readIntErr(p, warner, ErrItemDiffsUnpacking)
		if err != nil {
			return err
		}
		if rawTypeID < 0 || rawTypeID > 0xFFFF {
			return wrap(ErrTypeIDRange)
		}
		if rawID < 0 || rawID > 0xFFFF {
			return wrap(ErrIDRange)
		}
		typeID, id := uint16(rawTypeID), uint16(rawID)

		var size uint32
		if fixed, ok := objectSize(typeID); ok {
			size = fixed
		} else {
			rawSize, err := readIntErr(p, warner, ErrItemDiffsUnpacking)
			if err != nil {
				return err
			}
			if rawSize < 0 {
				return wrap(ErrNegativeSize)
			}
			size = uint32(rawSize)
		}

		start := len(d.buf)
		if uint64(start)+uint64(size) > 0xFFFFFFFF {
			return wrap(ErrTooLongDiff)
		}
		for j := uint32(0); j < size; j++ {
			w, err := readIntErr(p, warner, ErrItemDiffsUnpacking)
			if err != nil {
				return err
			}
			d.buf = append(d.buf, w)
		}

		key := Key(typeID, id)
		if _, existed := d.updated[key]; existed {
			if warner != nil {
				warner.Warn(WarnDuplicateUpdate)
			}
		}
		// Later occurrence wins, matching the reference implementation.
		d.updated[key] = itemRange{uint32(start), uint32(start) + size}

		if _, deleted := d.deleted[key]; deleted {
			if warner != nil {
				warner.Warn(WarnDeleteUpdate)
			}
		}
		numUpdates++
	}

	if int32(numUpdates) != header.NumUpdatedItems {
		if warner != nil {
			warner.Warn(WarnNumUpdatedItems)
		}
	}
	return nil
}
