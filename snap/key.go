package snap

// Key packs (typeID, id) into the signed 32-bit token used both as the
// internal map key and the wire key: key = (type_id << 16) | id,
// interpreted as a signed 32-bit integer.
func Key(typeID, id uint16) int32 {
	return int32(uint32(typeID)<<16 | uint32(id))
}

// KeyTypeID extracts the type_id half of a key.
func KeyTypeID(key int32) uint16 {
	return uint16(uint32(key) >> 16)
}

// KeyID extracts the id half of a key.
func KeyID(key int32) uint16 {
	return uint16(uint32(key))
}

// lessUnsigned orders two keys the way the wire format requires: as if they
// were unsigned 32-bit integers, so that keys with type_id >= 0x8000 (which
// are negative as int32) still sort after every positive key.
func lessUnsigned(a, b int32) bool {
	return uint32(a) < uint32(b)
}
