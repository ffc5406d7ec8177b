package snap

import (
	"github.com/facebookgo/stackerr"

	"github.com/FlyyToMoon/libtw2/internal/util"
)

// Error is the closed set of fatal failures the codec and delta engine can
// return. Callers that care about the exact kind recover it with Cause
// (stackerr does not implement the stdlib Unwrap interface, so
// errors.Is/As do not see through it); callers that don't can just check
// err != nil. Every return site wraps the sentinel with stackerr.Wrap, for
// attaching a stack trace without losing the underlying sentinel.
type Error struct {
	kind errKind
}

type errKind int

const (
	errUnexpectedEnd errKind = iota
	errIntOutOfRange
	errDeletedItemsUnpacking
	errItemDiffsUnpacking
	errTypeIDRange
	errIDRange
	errNegativeSize
	errTooLongDiff
	errTooLongSnap
	errDeltaDifferingSizes
	errOffsetsUnpacking
	errInvalidOffset
	errItemsUnpacking
	errDuplicateKey
)

var errMessages = map[errKind]string{
	errUnexpectedEnd:         "unexpected end of packed input",
	errIntOutOfRange:         "packed int out of range",
	errDeletedItemsUnpacking: "error unpacking deleted items",
	errItemDiffsUnpacking:    "error unpacking item diffs",
	errTypeIDRange:           "type_id does not fit in 16 bits",
	errIDRange:               "id does not fit in 16 bits",
	errNegativeSize:          "item size is negative",
	errTooLongDiff:           "delta diff buffer exceeds 32-bit offset range",
	errTooLongSnap:           "snapshot exceeds MAX_SNAPSHOT_SIZE",
	errDeltaDifferingSizes:   "delta apply found an existing item with a different size",
	errOffsetsUnpacking:      "error unpacking snapshot offsets",
	errInvalidOffset:         "malformed snapshot offset table",
	errItemsUnpacking:        "error unpacking snapshot items",
	errDuplicateKey:          "duplicate (type_id, id) key",
}

func (e Error) Error() string { return "snap: " + errMessages[e.kind] }

// Sentinel errors, one per fatal kind. Because stackerr predates the
// stdlib Unwrap() error convention, these cannot be recovered with
// errors.Is/As -- use Cause instead, e.g.
// if c, ok := snap.Cause(err); ok && c == snap.ErrTooLongSnap { ... }.
var (
	ErrUnexpectedEnd         = Error{errUnexpectedEnd}
	ErrIntOutOfRange         = Error{errIntOutOfRange}
	ErrDeletedItemsUnpacking = Error{errDeletedItemsUnpacking}
	ErrItemDiffsUnpacking    = Error{errItemDiffsUnpacking}
	ErrTypeIDRange           = Error{errTypeIDRange}
	ErrIDRange               = Error{errIDRange}
	ErrNegativeSize          = Error{errNegativeSize}
	ErrTooLongDiff           = Error{errTooLongDiff}
	ErrTooLongSnap           = Error{errTooLongSnap}
	ErrDeltaDifferingSizes   = Error{errDeltaDifferingSizes}
	ErrOffsetsUnpacking      = Error{errOffsetsUnpacking}
	ErrInvalidOffset         = Error{errInvalidOffset}
	ErrItemsUnpacking        = Error{errItemsUnpacking}
	ErrDuplicateKey          = Error{errDuplicateKey}
)

// wrap is the package-local stackerr.Wrap call site: every fatal return
// goes through here so a stack trace is attached exactly once, at the
// point of detection, the way protocol.go does for every returned error.
func wrap(e Error) error {
	return stackerr.Wrap(e)
}

// Cause walks the Underlying() chain stackerr builds back to the snap.Error
// sentinel that started it, for callers that want to switch on error kind:
//
//	if cause, ok := snap.Cause(err); ok && cause == snap.ErrTooLongSnap { ... }
//
// Every wrap site in this package wraps a bare sentinel exactly once, so
// one util.Unwrap call always suffices; the loop only guards against a
// caller that wrapped an already-wrapped error a second time.
func Cause(err error) (Error, bool) {
	for {
		if e, ok := err.(Error); ok {
			return e, true
		}
		next := util.Unwrap(err)
		if next == err {
			return Error{}, false
		}
		err = next
	}
}
