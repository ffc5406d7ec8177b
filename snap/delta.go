// Delta and the delta engine: the difference between two snaps, and the
// pure functions that compute and apply it. Create walks two independent
// Snaps and emits either a deletion marker or a diff-word range per key;
// Apply replays that against a reference Snap to reconstruct the other one.
package snap

import "github.com/FlyyToMoon/libtw2/warn"

// Delta is the difference between two snaps: a set of keys deleted between
// from and to, and a map of keys to diff-word ranges in Delta's own backing
// buffer. Construct with NewDelta; Create and Apply both clear and reuse
// its allocations.
type Delta struct {
	deleted map[int32]struct{}
	updated map[int32]itemRange
	buf     []int32
}

// NewDelta returns an empty Delta.
func NewDelta() *Delta {
	return &Delta{
		deleted: make(map[int32]struct{}),
		updated: make(map[int32]itemRange),
	}
}

// NumDeleted returns the number of keys marked deleted.
func (d *Delta) NumDeleted() int { return len(d.deleted) }

// NumUpdated returns the number of keys with an updated diff.
func (d *Delta) NumUpdated() int { return len(d.updated) }

// Deleted reports whether key is marked deleted.
func (d *Delta) Deleted(key int32) bool {
	_, ok := d.deleted[key]
	return ok
}

// Updated returns the diff words for key, if any.
func (d *Delta) Updated(key int32) (diff []int32, ok bool) {
	r, ok := d.updated[key]
	if !ok {
		return nil, false
	}
	return d.buf[r.start:r.end], true
}

func (d *Delta) clear() {
	clear(d.deleted)
	clear(d.updated)
	d.buf = d.buf[:0]
}

// prepareUpdateItem appends size fresh words to the delta's buffer and
// registers key's range, returning the (uninitialized) destination slice.
// Unlike Snap.allocate this never fails: the only cap on a delta's total
// diff-word storage is ErrTooLongDiff, enforced on decode against the
// 32-bit offset space, not on creation.
func (d *Delta) prepareUpdateItem(key int32, size int) []int32 {
	start := len(d.buf)
	end := start + size
	d.buf = append(d.buf, make([]int32, size)...)
	d.updated[key] = itemRange{uint32(start), uint32(end)}
	return d.buf[start:end]
}

// Create computes the delta that transforms from into to. Diff words use
// two's-complement wrapping subtraction: Go's signed integer arithmetic
// already wraps, so to[i] - from[i] needs no special casing.
//
// Precondition: for every key present in both from and to, the two items
// must have the same length -- schema changes are out of band. Violating
// this is a programmer error and panics.
func (d *Delta) Create(from, to *Snap) {
	d.clear()
	for it := from.Items(); ; {
		item, ok := it.Next()
		if !ok {
			break
		}
		if _, stillPresent := to.itemByKey(item.Key()); !stillPresent {
			d.deleted[item.Key()] = struct{}{}
		}
	}
	for it := to.Items(); ; {
		item, ok := it.Next()
		if !ok {
			break
		}
		fromData, hasFrom := from.itemByKey(item.Key())
		if hasFrom && len(fromData) != len(item.Data) {
			panic("snap: item size changed between snapshots for the same key")
		}
		out := d.prepareUpdateItem(item.Key(), len(item.Data))
		if hasFrom {
			for i := range out {
				out[i] = item.Data[i] - fromData[i]
			}
		} else {
			copy(out, item.Data)
		}
	}
}

// Apply reconstructs a snapshot by applying the delta to from, writing the
// result into target (which is cleared first, reusing its allocations).
// target and from must be distinct snaps.
//
// Fatal errors: ErrTooLongSnap if the result would exceed MAX_SNAPSHOT_SIZE,
// ErrDeltaDifferingSizes if an item present in both the delta's updated map
// and from changed size. Non-fatal: WarnUnknownDelete if a deleted key in
// the delta didn't match anything in from.
//
// Application is not atomic: on failure target is left in a cleared-then-
// partially-rebuilt state and must be discarded by the caller.
func (d *Delta) Apply(target, from *Snap, warner warn.Sink[Warning]) error {
	target.clear()

	matchedDeletions := 0
	for it := from.Items(); ; {
		item, ok := it.Next()
		if !ok {
			break
		}
		if _, deleted := d.deleted[item.Key()]; deleted {
			matchedDeletions++
			continue
		}
		out, err := target.prepareItem(item.Key(), len(item.Data))
		if err != nil {
			return err
		}
		copy(out, item.Data)
	}
	if matchedDeletions != len(d.deleted) {
		if warner != nil {
			warner.Warn(WarnUnknownDelete)
		}
	}

	for key, r := range d.updated {
		diff := d.buf[r.start:r.end]
		fromData, hasFrom := from.itemByKey(key)
		if hasFrom && len(fromData) != len(diff) {
			return wrap(ErrDeltaDifferingSizes)
		}
		out, err := target.prepareItem(key, len(diff))
		if err != nil {
			return err
		}
		if hasFrom {
			for i := range out {
				out[i] = fromData[i] + diff[i]
			}
		} else {
			copy(out, diff)
		}
	}
	return nil
}
