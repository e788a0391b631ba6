package id3v2

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Text encoding byte values, as stored in byte 0 of every text/TXXX/COMM
// frame body.
const (
	encISO88591 byte = 0
	encUTF16BOM byte = 1
	encUTF16BE  byte = 2
	encUTF8     byte = 3
)

var errUnknownEncoding = errors.New("id3v2: unknown text encoding byte")

// decodeText decodes buf (the frame body after the encoding byte, up to and
// including any trailing terminator or padding) according to enc, stopping
// at the first terminator found per the rules in terminatorLen.
func decodeText(enc byte, buf []byte) (string, error) {
	term := terminatorLen(enc)
	if end := findTerminator(buf, term); end >= 0 {
		buf = buf[:end]
	}

	switch enc {
	case encISO88591:
		return decodeLatin1(buf)
	case encUTF16BOM:
		return decodeUTF16(buf, true)
	case encUTF16BE:
		return decodeUTF16(buf, false)
	case encUTF8:
		return string(buf), nil
	default:
		return "", errUnknownEncoding
	}
}

// terminatorLen returns the width of the terminator unit for enc: two bytes
// for the UTF-16 variants (a single zero 16-bit code unit), one byte
// otherwise.
func terminatorLen(enc byte) int {
	if enc == encUTF16BOM || enc == encUTF16BE {
		return 2
	}
	return 1
}

// findTerminator returns the offset of the first terminator in buf, or -1
// if none is present (the whole buffer is the value, as happens for
// standalone text frames with no trailing NUL). For two-byte terminators
// the search only considers offsets aligned on an even boundary, matching
// the requirement that a UTF-16 NUL code unit can't straddle two code
// units.
func findTerminator(buf []byte, width int) int {
	if width == 1 {
		return bytes.IndexByte(buf, 0)
	}
	for i := 0; i+1 < len(buf); i += 2 {
		if buf[i] == 0 && buf[i+1] == 0 {
			return i
		}
	}
	return -1
}

// decodeLatin1 converts ISO-8859-1 bytes to UTF-8 via x/text's charmap
// decoder, which performs exactly the single-byte-to-two-byte expansion the
// format calls for (bytes <= 0x7F pass through, bytes >= 0x80 become a
// two-byte UTF-8 sequence).
func decodeLatin1(buf []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(buf)
	if err != nil {
		return "", errors.Wrap(err, "id3v2: decode latin1")
	}
	return string(out), nil
}

// decodeUTF16 decodes buf as a sequence of 16-bit code units (little-endian
// if bom is true and a BOM is present, big-endian otherwise) into UTF-8,
// handling surrogate pairs by hand rather than delegating to
// golang.org/x/text/encoding/unicode: that package rejects or substitutes
// U+FFFD for a lone surrogate, whereas this format's source material emits
// CESU-8 (a 3-byte UTF-8 encoding of the bare surrogate value) for a lone
// surrogate, and reimplementations are expected to preserve that rather
// than silently tighten it.
func decodeUTF16(buf []byte, bom bool) (string, error) {
	little := false
	if bom {
		if len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE {
			little = true
			buf = buf[2:]
		} else if len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF {
			little = false
			buf = buf[2:]
		}
	}

	units := make([]uint16, 0, len(buf)/2)
	for i := 0; i+1 < len(buf); i += 2 {
		if little {
			units = append(units, uint16(buf[i])|uint16(buf[i+1])<<8)
		} else {
			units = append(units, uint16(buf[i])<<8|uint16(buf[i+1]))
		}
	}

	var out bytes.Buffer
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF:
			lo := units[i+1]
			cp := 0x10000 + (uint32(u-0xD800) << 10) + uint32(lo-0xDC00)
			writeUTF8Rune(&out, cp)
			i++
		case u >= 0xD800 && u <= 0xDFFF:
			// Lone surrogate: emit CESU-8, three bytes encoding the raw
			// 16-bit value as if it were a standalone code point.
			writeCESU8(&out, u)
		default:
			writeUTF8Rune(&out, uint32(u))
		}
	}
	return out.String(), nil
}

// writeUTF8Rune appends the UTF-8 encoding of a valid Unicode code point.
func writeUTF8Rune(out *bytes.Buffer, cp uint32) {
	out.WriteRune(rune(cp))
}

// writeCESU8 appends the 3-byte UTF-8-shaped encoding of a bare 16-bit
// surrogate value, which is not a valid Unicode scalar value and so cannot
// be produced via WriteRune.
func writeCESU8(out *bytes.Buffer, u uint16) {
	out.WriteByte(0xE0 | byte(u>>12))
	out.WriteByte(0x80 | byte((u>>6)&0x3F))
	out.WriteByte(0x80 | byte(u&0x3F))
}

// encodeTextUTF8 is the serialization-side counterpart: the library always
// writes frames with the UTF-8 encoding byte, so "encoding" a value is just
// appending its bytes.
func encodeTextUTF8(s string) []byte {
	return []byte(s)
}
