// Package id3v2 implements the bit-level ID3v2.3/2.4 frame codec: header
// parsing and building, the extended-header skip, the frame walk and its
// conversion to/from the shared tag model, and text-frame encoding/decoding
// across the four character encodings the format supports.
package id3v2

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/morganp/mp3tag/internal/mp3tagerr"
	"github.com/morganp/mp3tag/internal/tagmodel"
)

const (
	frameCompressed = 1 << 3
	frameEncrypted  = 1 << 2
)

// Frame is one decoded ID3v2 frame: a 4-byte id, its two status/format flag
// bytes, and its raw payload.
type Frame struct {
	ID    string
	Flags uint16
	Data  []byte
}

// Log receives non-fatal diagnostics from the frame walker.
// Session injects its configured logger; code that doesn't care passes nil,
// in which case diagnostics are dropped.
type Log interface {
	Printf(format string, args ...interface{})
}

type nopLog struct{}

func (nopLog) Printf(string, ...interface{}) {}

// SkipExtendedHeader consumes the extended header (if flagExtendedHeader is
// set) from the front of body and returns the remaining frame bytes.
func SkipExtendedHeader(body []byte, major, flags byte) ([]byte, error) {
	if flags&flagExtendedHeader == 0 {
		return body, nil
	}
	if len(body) < 4 {
		return nil, mp3tagErrTruncated()
	}
	var leading [4]byte
	copy(leading[:], body[:4])
	total, err := extHeaderSkipSize(major, leading)
	if err != nil {
		return nil, err
	}
	if uint32(len(body)) < total {
		return nil, mp3tagErrTruncated()
	}
	return body[total:], nil
}

// ReadFrames walks body (the frame region of a tag, after any extended
// header has been stripped) and decodes it into a sequence of raw Frames.
// It never fails the whole parse on a single malformed frame past the
// first: on such a frame it stops and returns what was already decoded,
// logging a diagnostic to log (which may be nil).
func ReadFrames(body []byte, major byte, log Log) []Frame {
	if log == nil {
		log = nopLog{}
	}
	var frames []Frame
	pos := 0
	for pos < len(body) {
		if pos+10 > len(body) {
			break
		}
		if body[pos] == 0 {
			// Padding: the rest of the tag body is zero-filled.
			break
		}
		id := string(body[pos : pos+4])
		if !isFrameID(id) {
			log.Printf("id3v2: frame walk stopped at offset %d: invalid frame id %q", pos, body[pos:pos+4])
			break
		}

		var size uint32
		if major >= 4 {
			var sb [4]byte
			copy(sb[:], body[pos+4:pos+8])
			size = Syncsafe(sb)
		} else {
			size = binary.BigEndian.Uint32(body[pos+4 : pos+8])
		}
		flags := binary.BigEndian.Uint16(body[pos+8 : pos+10])

		headerEnd := pos + 10
		if uint32(headerEnd)+size > uint32(len(body)) {
			log.Printf("id3v2: frame walk stopped at offset %d: frame %q size %d exceeds tag bound", pos, id, size)
			break
		}

		data := make([]byte, size)
		copy(data, body[headerEnd:headerEnd+int(size)])

		frames = append(frames, Frame{ID: id, Flags: flags, Data: data})
		pos = headerEnd + int(size)
	}
	return frames
}

// FramesToCollection converts raw Frames into the shared tag Collection
// model. Frames whose flags enable compression or encryption are skipped,
// matching the non-goal of supporting either.
func FramesToCollection(frames []Frame) (*tagmodel.Collection, error) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)

	for _, f := range frames {
		// Format flags occupy the low byte of the 16-bit frame flags field
		// in both v2.3 and v2.4.
		if byte(f.Flags)&(frameCompressed|frameEncrypted) != 0 {
			continue
		}

		switch {
		case f.ID == "TXXX":
			st, err := decodeTXXXFrame(f.Data)
			if err != nil {
				return nil, errors.Wrap(err, "id3v2: decode TXXX")
			}
			tag.Simple = append(tag.Simple, st)

		case f.ID == "COMM":
			st, err := decodeCOMMFrame(f.Data)
			if err != nil {
				return nil, errors.Wrap(err, "id3v2: decode COMM")
			}
			tag.Simple = append(tag.Simple, st)

		case len(f.ID) == 4 && f.ID[0] == 'T':
			if len(f.Data) < 1 {
				continue
			}
			s, err := decodeText(f.Data[0], f.Data[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "id3v2: decode text frame %s", f.ID)
			}
			name, ok := nameForFrameID(f.ID)
			if !ok {
				name = f.ID
			}
			tag.Simple = append(tag.Simple, &tagmodel.SimpleTag{Name: name, Value: s})

		default:
			tag.Simple = append(tag.Simple, &tagmodel.SimpleTag{Name: f.ID, Binary: f.Data})
		}
	}

	return c, nil
}

func decodeTXXXFrame(data []byte) (*tagmodel.SimpleTag, error) {
	if len(data) < 1 {
		return nil, errors.New("id3v2: TXXX frame too short")
	}
	enc := data[0]
	rest := data[1:]
	descEnd := findTerminator(rest, terminatorLen(enc))
	if descEnd < 0 {
		return nil, errors.New("id3v2: TXXX missing description terminator")
	}
	desc, err := decodeText(enc, rest[:descEnd])
	if err != nil {
		return nil, err
	}
	value, err := decodeText(enc, rest[descEnd+terminatorLen(enc):])
	if err != nil {
		return nil, err
	}
	return &tagmodel.SimpleTag{Name: desc, Value: value}, nil
}

func decodeCOMMFrame(data []byte) (*tagmodel.SimpleTag, error) {
	if len(data) < 4 {
		return nil, errors.New("id3v2: COMM frame too short")
	}
	enc := data[0]
	lang := string(data[1:4])
	rest := data[4:]
	descEnd := findTerminator(rest, terminatorLen(enc))
	if descEnd < 0 {
		return nil, errors.New("id3v2: COMM missing description terminator")
	}
	value, err := decodeText(enc, rest[descEnd+terminatorLen(enc):])
	if err != nil {
		return nil, err
	}
	return &tagmodel.SimpleTag{Name: "COMMENT", Value: value, Language: lang}, nil
}

func mp3tagErrTruncated() error {
	return mp3tagerr.New(mp3tagerr.Truncated)
}
