// Chunk splitter: slices a serialized snapshot payload into network-sized
// messages. The surrounding transport and the full message framing live
// outside this package; package system carries only the minimal message
// shapes this needs.
package snap

import "github.com/FlyyToMoon/libtw2/system"

// SnapMsg is a tagged union over the three message shapes Chunks can
// produce. Exactly one field is non-nil.
type SnapMsg struct {
	Empty  *system.SnapEmpty
	Single *system.SnapSingle
	Part   *system.Snap
}

// Chunks splits a serialized snapshot payload into a finite sequence of
// network-sized messages:
//
//   - an empty payload produces exactly one SnapEmpty;
//   - a payload fitting in one packet produces exactly one SnapSingle;
//   - otherwise it produces ceil(len(data)/MAX_SNAPSHOT_PACKSIZE) Snap
//     messages, each a MAX_SNAPSHOT_PACKSIZE-byte slice except the last.
//
// deltaTick is the tick of the snapshot this payload is a delta against;
// the wire field transmitted is the relative offset tick-deltaTick, per
// the legacy wire format.
func Chunks(tick, deltaTick int32, data []byte, crc int32) *DeltaChunks {
	numParts := int32((len(data) + system.MaxSnapshotPacksize - 1) / system.MaxSnapshotPacksize)
	curPart := int32(-1)
	if len(data) != 0 {
		curPart = 0
	}
	return &DeltaChunks{
		tick:      tick,
		deltaTick: tick - deltaTick,
		crc:       crc,
		curPart:   curPart,
		numParts:  numParts,
		data:      data,
	}
}

// DeltaChunks is Chunks' iterator. Pull the next message with Next until it
// reports ok=false.
type DeltaChunks struct {
	tick      int32
	deltaTick int32
	crc       int32
	curPart   int32
	numParts  int32
	data      []byte
}

// Next returns the next message, or ok=false once the sequence is
// exhausted.
func (c *DeltaChunks) Next() (msg SnapMsg, ok bool) {
	if c.curPart == c.numParts {
		return SnapMsg{}, false
	}
	switch {
	case c.numParts == 0:
		msg = SnapMsg{Empty: &system.SnapEmpty{Tick: c.tick, DeltaTick: c.deltaTick}}
	case c.numParts == 1:
		msg = SnapMsg{Single: &system.SnapSingle{
			Tick: c.tick, DeltaTick: c.deltaTick, Crc: c.crc, Data: c.data,
		}}
	default:
		idx := int(c.curPart)
		start := system.MaxSnapshotPacksize * idx
		end := start + system.MaxSnapshotPacksize
		if end > len(c.data) {
			end = len(c.data)
		}
		msg = SnapMsg{Part: &system.Snap{
			Tick: c.tick, DeltaTick: c.deltaTick,
			NumParts: c.numParts, Part: c.curPart,
			Crc: c.crc, Data: c.data[start:end],
		}}
	}
	c.curPart++
	return msg, true
}
