// Package container reads and writes the persisted compiled artifact.
//
// The on-disk layout is a 16-byte little-endian header followed by a
// length-prefixed payload:
//
//	offset  size  field
//	0       4     magic "LUMC"
//	4       2     format version (uint16)
//	6       2     header length, >= 16 (uint16)
//	8       4     payload length (uint32)
//	12      4     CRC-32 of the producing engine version string
//
// Readers reject mismatched magic, any format version other than the
// supported one (distinguishing newer from older), and any checksum
// mismatch, before touching the payload. Header lengths beyond 16
// leave room for forward-compatible extensions; the extra bytes are
// skipped.
//
// The payload is the JSON-serialized artifact: the compiled animation,
// the scene runtime, and the path registry table. Serialization avoids
// interface unions and typed map keys so it round-trips through plain
// reflection byte-for-byte.
package container
