// Package snap implements the snapshot delta codec core: a content-addressed
// store of fixed-or-variable-width entity records (Snap), the delta between
// two snaps (Delta), the engine that creates and applies deltas, the wire
// codec for both, and the chunk splitter that slices a serialized snapshot
// into network-sized messages.
//
// A Snap is a keyed store of variable-sized records backed by one shared
// allocation, with an append-only-build-then-read-only lifecycle: items are
// indexed as ranges of signed 32-bit words in one flat buffer rather than
// individually heap-allocated, so the whole store can be cleared and its
// allocations reused in O(1).
package snap

import "github.com/FlyyToMoon/libtw2/internal/tag"

// MaxSnapshotSize is the hard cap on a snapshot's item-word storage, in
// bytes (item words times 4). The per-item key word that Write adds on the
// wire is not counted against it.
const MaxSnapshotSize = 64 * 1024

// maxSnapshotWords is MaxSnapshotSize in signed 32-bit words -- the unit
// Snap's backing buffer is measured in.
const maxSnapshotWords = MaxSnapshotSize / 4

// itemRange indexes a half-open range of words in Snap.buf.
type itemRange struct {
	start, end uint32
}

func (r itemRange) len() int { return int(r.end - r.start) }

// Item is one (type_id, id, data) tuple borrowed from a Snap. Its Data
// slice aliases the Snap's backing buffer and is only valid until the Snap
// is next mutated (recycled).
type Item struct {
	TypeID uint16
	ID     uint16
	Data   []int32
}

// Key returns the packed key for this item. See Key.
func (i Item) Key() int32 { return Key(i.TypeID, i.ID) }

// Snap is a keyed collection of items sharing one contiguous word buffer.
// The zero value is not usable; construct with Empty.
type Snap struct {
	offsets map[int32]itemRange
	buf     []int32
}

// Empty returns a new, empty Snap.
func Empty() *Snap {
	return &Snap{offsets: make(map[int32]itemRange)}
}

// clear empties the snap in place, retaining its backing allocations.
func (s *Snap) clear() {
	clear(s.offsets)
	s.buf = s.buf[:0]
}

// Item returns the data for (typeID, id), or ok=false if no such item
// exists in this snap.
func (s *Snap) Item(typeID, id uint16) (data []int32, ok bool) {
	r, ok := s.offsets[Key(typeID, id)]
	if !ok {
		return nil, false
	}
	return s.buf[r.start:r.end], true
}

// itemByKey is Item's key-addressed twin, used internally where callers
// already have a packed key instead of a (typeID, id) pair.
func (s *Snap) itemByKey(key int32) (data []int32, ok bool) {
	r, ok := s.offsets[key]
	if !ok {
		return nil, false
	}
	return s.buf[r.start:r.end], true
}

// Len returns the number of items in the snap.
func (s *Snap) Len() int { return len(s.offsets) }

// Items returns a restartable iterator over this snap's items, in
// unspecified order. Calling Items again produces a fresh, independent
// cursor.
func (s *Snap) Items() *Items {
	keys := make([]int32, 0, len(s.offsets))
	for k := range s.offsets {
		keys = append(keys, k)
	}
	return &Items{snap: s, keys: keys}
}

// Items is a pull-style iterator bounded by the number of items the Snap
// had when it was created.
type Items struct {
	snap *Snap
	keys []int32
	idx  int
}

// Len returns the number of items not yet yielded.
func (it *Items) Len() int { return len(it.keys) - it.idx }

// Next yields the next item, or ok=false once exhausted.
func (it *Items) Next() (item Item, ok bool) {
	if it.idx >= len(it.keys) {
		return Item{}, false
	}
	key := it.keys[it.idx]
	it.idx++
	r := it.snap.offsets[key]
	return Item{TypeID: KeyTypeID(key), ID: KeyID(key), Data: it.snap.buf[r.start:r.end]}, true
}

// CRC reproduces the legacy "CRC" carried by the SnapSingle wire message:
// the wrapping 32-bit signed sum of every word in the backing buffer, in
// buffer order. Not a real CRC, but peers rely on this exact (non-)algorithm
// for bit-exact agreement.
func (s *Snap) CRC() int32 {
	var sum int32
	for _, w := range s.buf {
		sum += w // wrapping add: int32 arithmetic wraps on overflow in Go.
	}
	return sum
}

// Recycle converts the snap into a Builder, clearing it in place and
// reusing its allocations. The receiver must not be used after calling
// Recycle; only the returned Builder owns it.
func (s *Snap) Recycle() *Builder {
	s.clear()
	return &Builder{snap: s}
}

// allocate appends size zero words at the buffer's tail and registers a
// fresh range for key. Fails with ErrTooLongSnap if that would exceed
// MAX_SNAPSHOT_SIZE/4 words.
func (s *Snap) allocate(key int32, size int) ([]int32, error) {
	start := len(s.buf)
	if start+size > maxSnapshotWords {
		return nil, wrap(ErrTooLongSnap)
	}
	s.buf = append(s.buf, make([]int32, size)...)
	end := start + size
	s.offsets[key] = itemRange{uint32(start), uint32(end)}
	return s.buf[start:end], nil
}

// prepareItem returns the word slice backing key, allocating size fresh
// words if key is vacant or reusing its existing range in place if it is
// already occupied. Reuse only happens while applying a delta: a key can be
// carried forward from the reference snap and then overwritten by an
// update in the same build pass.
func (s *Snap) prepareItem(key int32, size int) ([]int32, error) {
	if r, ok := s.offsets[key]; ok {
		return s.buf[r.start:r.end], nil
	}
	return s.allocate(key, size)
}

// prepareVacant is prepareItem's strict twin: it fails with ErrDuplicateKey
// instead of reusing an occupied range. Used by Builder.AddItem, which must
// reject a repeated key rather than silently overwrite it.
func (s *Snap) prepareVacant(key int32, size int) ([]int32, error) {
	if _, ok := s.offsets[key]; ok {
		return nil, wrap(ErrDuplicateKey)
	}
	return s.allocate(key, size)
}

// Builder is an append-only façade over a Snap under construction. Once
// built, call Finish to get the read-only Snap.
type Builder struct {
	snap *Snap
}

// NewBuilder returns a Builder over a freshly Empty Snap.
func NewBuilder() *Builder {
	return &Builder{snap: Empty()}
}

// AddItem copies data into the store under (typeID, id). Fails with
// ErrDuplicateKey if that key is already present (the snap is left
// unchanged) or ErrTooLongSnap if it would exceed the size cap.
func (b *Builder) AddItem(typeID, id uint16, data []int32) error {
	dst, err := b.snap.prepareVacant(Key(typeID, id), len(data))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

// Finish returns the underlying Snap, ending the Builder's lifetime.
func (b *Builder) Finish() *Snap {
	if tag.Debug {
		b.snap.checkInvariants()
	}
	return b.snap
}
