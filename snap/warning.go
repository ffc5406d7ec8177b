package snap

// Warning enumerates non-fatal decode quirks that peers have long accepted
// silently and that this codec instead surfaces as an observable event.
// None of these ever fail a decode; they are reported to a
// warn.Sink[Warning] the caller supplies and processing continues.
type Warning int

const (
	// WarnUnknownDelete: a delete-key in the delta did not match any item
	// in the from-snap (a stale delete).
	WarnUnknownDelete Warning = iota
	// WarnDuplicateDelete: the deleted-keys list on the wire contained the
	// same key more than once.
	WarnDuplicateDelete
	// WarnDuplicateUpdate: the updated-items stream contained the same key
	// twice; the later occurrence wins.
	WarnDuplicateUpdate
	// WarnDeleteUpdate: a key appears in both the deleted set and the
	// updated map.
	WarnDeleteUpdate
	// WarnNumUpdatedItems: the actually-counted update records disagreed
	// with the header's num_updated_items.
	WarnNumUpdatedItems
	// WarnPackedIntOverlong forwards the int packer's own OverlongEncoding
	// warning onto the same sink.
	WarnPackedIntOverlong
)

func (w Warning) String() string {
	switch w {
	case WarnUnknownDelete:
		return "UnknownDelete"
	case WarnDuplicateDelete:
		return "DuplicateDelete"
	case WarnDuplicateUpdate:
		return "DuplicateUpdate"
	case WarnDeleteUpdate:
		return "DeleteUpdate"
	case WarnNumUpdatedItems:
		return "NumUpdatedItems"
	case WarnPackedIntOverlong:
		return "PackedIntOverlong"
	default:
		return "Warning(unknown)"
	}
}
