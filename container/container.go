package container

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"log/slog"

	"github.com/lumakit/luma"
)

// magic identifies a luma compiled artifact.
var magic = [4]byte{'L', 'U', 'M', 'C'}

const (
	// Version is the supported container format version. Readers accept
	// exactly this version.
	Version uint16 = 1

	// headerLen is the fixed header size this writer produces.
	headerLen = 16
)

// engineChecksum is the CRC-32 of this engine's version string.
func engineChecksum() uint32 {
	return crc32.ChecksumIEEE([]byte(luma.EngineVersion))
}

// Marshal serializes an artifact into container bytes.
func Marshal(a *Artifact) ([]byte, error) {
	payload, err := encodePayload(a)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, headerLen+len(payload))
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], Version)
	binary.LittleEndian.PutUint16(buf[6:8], headerLen)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[12:16], engineChecksum())
	copy(buf[headerLen:], payload)
	return buf, nil
}

// Unmarshal parses container bytes, validating the header before the
// payload is touched.
func Unmarshal(data []byte) (*Artifact, error) {
	if len(data) < headerLen {
		return nil, ErrTruncated
	}

	var got [4]byte
	copy(got[:], data[0:4])
	if got != magic {
		return nil, &MagicError{Got: got}
	}

	version := binary.LittleEndian.Uint16(data[4:6])
	if version != Version {
		return nil, &VersionError{Got: version, Supported: Version}
	}

	hlen := binary.LittleEndian.Uint16(data[6:8])
	if hlen < headerLen {
		return nil, &HeaderError{Reason: "header length below minimum"}
	}
	if int(hlen) > len(data) {
		return nil, ErrTruncated
	}

	payloadLen := binary.LittleEndian.Uint32(data[8:12])
	if int(hlen)+int(payloadLen) > len(data) {
		return nil, ErrTruncated
	}

	checksum := binary.LittleEndian.Uint32(data[12:16])
	if want := engineChecksum(); checksum != want {
		return nil, &ChecksumError{Got: checksum, Want: want}
	}

	a, err := decodePayload(data[hlen : uint32(hlen)+payloadLen])
	if err != nil {
		return nil, err
	}
	luma.Logger().Info("artifact loaded",
		slog.Int("payloadBytes", int(payloadLen)),
		slog.Int("comps", len(a.Anim.Comps)),
		slog.Int("paths", a.Registry.Len()))
	return a, nil
}

// Write serializes an artifact to a writer.
func Write(w io.Writer, a *Artifact) error {
	data, err := Marshal(a)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read parses an artifact from a reader, consuming it fully.
func Read(r io.Reader) (*Artifact, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Header is the parsed container header, for inspection tools.
type Header struct {
	Version    uint16
	HeaderLen  uint16
	PayloadLen uint32
	Checksum   uint32
}

// ReadHeader parses and validates only the header.
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < headerLen {
		return nil, ErrTruncated
	}
	var got [4]byte
	copy(got[:], data[0:4])
	if got != magic {
		return nil, &MagicError{Got: got}
	}
	h := &Header{
		Version:    binary.LittleEndian.Uint16(data[4:6]),
		HeaderLen:  binary.LittleEndian.Uint16(data[6:8]),
		PayloadLen: binary.LittleEndian.Uint32(data[8:12]),
		Checksum:   binary.LittleEndian.Uint32(data[12:16]),
	}
	if h.Version != Version {
		return nil, &VersionError{Got: h.Version, Supported: Version}
	}
	if h.HeaderLen < headerLen {
		return nil, &HeaderError{Reason: "header length below minimum"}
	}
	return h, nil
}
