package id3v2

import (
	"bytes"
	"strings"

	"github.com/morganp/mp3tag/internal/tagmodel"
)

// SerializeCollection produces the contiguous frame-bytes buffer for c,
// following the precedence rules: binary data under a valid frame id first,
// then COMMENT, then a name the table maps, then a name that is itself a
// frame id, and finally TXXX as the catch-all. Binary SimpleTags whose name
// is not a valid frame id are silently dropped, matching the source.
func SerializeCollection(c *tagmodel.Collection) []byte {
	var buf bytes.Buffer
	for _, tag := range c.Tags {
		for _, st := range tag.Simple {
			writeSimpleTag(&buf, st)
		}
	}
	return buf.Bytes()
}

func writeSimpleTag(buf *bytes.Buffer, st *tagmodel.SimpleTag) {
	switch {
	case st.IsBinary() && isFrameID(st.Name):
		writeFrame(buf, st.Name, st.Binary)

	case st.IsBinary():
		// Binary data with a non-frame-id name has nowhere valid to go;
		// dropped rather than stored under TXXX, which is text-only.
		return

	case strings.EqualFold(st.Name, "COMMENT"):
		writeFrame(buf, "COMM", serializeCOMM(st))

	default:
		if id, ok := frameIDForName(st.Name); ok {
			writeFrame(buf, id, serializeTextBody(st.Value))
			return
		}
		upper := toUpperASCII(st.Name)
		if isFrameID(upper) {
			writeFrame(buf, upper, serializeTextBody(st.Value))
			return
		}
		writeFrame(buf, "TXXX", serializeTXXX(st.Name, st.Value))
	}
}

func serializeTextBody(value string) []byte {
	body := make([]byte, 0, 1+len(value))
	body = append(body, encUTF8)
	body = append(body, encodeTextUTF8(value)...)
	return body
}

func serializeTXXX(name, value string) []byte {
	body := make([]byte, 0, 2+len(name)+len(value))
	body = append(body, encUTF8)
	body = append(body, encodeTextUTF8(name)...)
	body = append(body, 0)
	body = append(body, encodeTextUTF8(value)...)
	return body
}

func serializeCOMM(st *tagmodel.SimpleTag) []byte {
	lang := normalizeLanguage(st.Language)
	body := make([]byte, 0, 5+len(st.Value))
	body = append(body, encUTF8)
	body = append(body, lang[0], lang[1], lang[2])
	body = append(body, 0) // empty short description
	body = append(body, encodeTextUTF8(st.Value)...)
	return body
}

// normalizeLanguage returns a 3-byte language code: "und" if lang is empty,
// otherwise lang truncated/space-padded to exactly 3 bytes.
func normalizeLanguage(lang string) [3]byte {
	var out [3]byte
	if lang == "" {
		return [3]byte{'u', 'n', 'd'}
	}
	for i := 0; i < 3; i++ {
		if i < len(lang) {
			out[i] = lang[i]
		} else {
			out[i] = ' '
		}
	}
	return out
}

func writeFrame(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString(id)
	sb := EncodeSyncsafe(uint32(len(body)))
	buf.Write(sb[:])
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.Write(body)
}
