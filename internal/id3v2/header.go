package id3v2

import (
	"github.com/pkg/errors"

	"github.com/morganp/mp3tag/internal/mp3tagerr"
)

// HeaderSize is the fixed length of an ID3v2 outer header.
const HeaderSize = 10

// DefaultPadding is the amount of zero padding a fresh rewrite allocates
// beyond the serialized frame body, matching the 4096-byte default the
// source reserves so a handful of subsequent in-place edits don't
// immediately force another rewrite.
const DefaultPadding = 4096

const (
	flagUnsynchronisation = 1 << 7
	flagExtendedHeader    = 1 << 6
	flagFooterPresent     = 1 << 4
)

// V2Header is a parsed ID3v2 outer header.
type V2Header struct {
	Major     byte
	Revision  byte
	Flags     byte
	TagSize   uint32 // syncsafe-decoded size of frames+padding
	HasFooter bool
}

// Syncsafe decodes a 4-byte big-endian syncsafe integer (each byte's high
// bit clear) into its 28-bit value.
func Syncsafe(b [4]byte) uint32 {
	return uint32(b[0])<<21 | uint32(b[1])<<14 | uint32(b[2])<<7 | uint32(b[3])
}

// EncodeSyncsafe is the inverse of Syncsafe.
func EncodeSyncsafe(n uint32) [4]byte {
	return [4]byte{
		byte((n >> 21) & 0x7f),
		byte((n >> 14) & 0x7f),
		byte((n >> 7) & 0x7f),
		byte(n & 0x7f),
	}
}

// syncsafeHighBitsClear reports whether every byte in b has its high bit
// clear, the structural requirement for a valid syncsafe-encoded field.
func syncsafeHighBitsClear(b [4]byte) bool {
	for _, c := range b {
		if c&0x80 != 0 {
			return false
		}
	}
	return true
}

// ParseHeader reads and validates the 10-byte ID3v2 header from buf.
func ParseHeader(buf [HeaderSize]byte) (*V2Header, error) {
	if buf[0] != 'I' || buf[1] != 'D' || buf[2] != '3' {
		return nil, mp3tagerr.New(mp3tagerr.NotMP3)
	}
	major := buf[3]
	if major != 3 && major != 4 {
		return nil, mp3tagerr.New(mp3tagerr.Unsupported)
	}
	var sizeBytes [4]byte
	copy(sizeBytes[:], buf[6:10])
	if !syncsafeHighBitsClear(sizeBytes) {
		return nil, mp3tagerr.New(mp3tagerr.BadID3v2)
	}
	flags := buf[5]
	h := &V2Header{
		Major:     major,
		Revision:  buf[4],
		Flags:     flags,
		TagSize:   Syncsafe(sizeBytes),
		HasFooter: major == 4 && flags&flagFooterPresent != 0,
	}
	return h, nil
}

// BuildHeader emits the 10-byte outer header for a body (frames+padding) of
// bodySize bytes. The library always writes ID3v2.4 with no flags, per the
// serialization rule that every write upgrades to v2.4.
func BuildHeader(bodySize uint32) [HeaderSize]byte {
	var out [HeaderSize]byte
	out[0], out[1], out[2] = 'I', 'D', '3'
	out[3] = 4
	out[4] = 0
	out[5] = 0
	sb := EncodeSyncsafe(bodySize)
	copy(out[6:10], sb[:])
	return out
}

// extHeaderSkipSize computes how many bytes (including the leading 4-byte
// size field already consumed by the caller) the extended header occupies
// for the given major version, given the raw leading 4 bytes already read.
// v2.4's size is syncsafe and counts itself; v2.3's is plain big-endian and
// excludes itself, matching id3v2_reader.c.
func extHeaderSkipSize(major byte, leading [4]byte) (totalSize uint32, err error) {
	if major >= 4 {
		if !syncsafeHighBitsClear(leading) {
			return 0, errors.New("id3v2: malformed extended header size")
		}
		return Syncsafe(leading), nil
	}
	be := uint32(leading[0])<<24 | uint32(leading[1])<<16 | uint32(leading[2])<<8 | uint32(leading[3])
	return be + 4, nil
}
