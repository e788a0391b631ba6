// Package container implements carrier detection and ID3 chunk handling for
// the IFF/AIFF and RIFF/WAVE/AVI container shapes: sniffing the carrier
// kind from the first 12 bytes, walking the chunk list to find (or confirm
// the absence of) an ID3 chunk, and appending or rewriting that chunk while
// maintaining the FORM/RIFF total-size field.
package container

import (
	"encoding/binary"

	"code.cloudfoundry.org/bytefmt"

	"github.com/morganp/mp3tag/internal/fileio"
	"github.com/morganp/mp3tag/internal/mp3tagerr"
)

// Kind identifies the carrier shape.
type Kind int

const (
	RawStream Kind = iota
	AIFF
	WAV
	AVI
)

// chunkCopyBufferSize sizes the scratch buffer used while streaming
// untouched chunks during a rewrite; named via bytefmt for readability at
// the call site rather than a bare numeric literal.
var chunkCopyBufferSize = int(4 * bytefmt.KILOBYTE)

// id3ChunkID returns the 4-byte chunk id this carrier uses for an embedded
// ID3v2 tag: "ID3 " (trailing space) for AIFF, "id3 " (lower case,
// trailing space) for WAV/AVI.
func (k Kind) id3ChunkID() string {
	if k == AIFF {
		return "ID3 "
	}
	return "id3 "
}

func (k Kind) bigEndian() bool { return k == AIFF }

// Geometry describes the carrier shape and, for IFF/RIFF carriers, the
// location of its ID3 chunk.
type Geometry struct {
	Kind               Kind
	FormTotalSize      uint32
	HasID3Chunk        bool
	ID3ChunkOffset     int64
	ID3ChunkDataSize   uint32
	ID3ChunkDataOffset int64
}

// Detect reads the first 12 bytes of f and classifies the carrier, walking
// the chunk list for IFF/RIFF carriers to locate any existing ID3 chunk.
func Detect(f *fileio.File) (*Geometry, error) {
	size, err := f.Size()
	if err != nil {
		return nil, err
	}
	if size < 12 {
		return &Geometry{Kind: RawStream, ID3ChunkOffset: -1}, nil
	}

	var head [12]byte
	if err := f.ReadAt(head[:], 0); err != nil {
		return nil, err
	}

	g := &Geometry{ID3ChunkOffset: -1}
	switch {
	case string(head[0:4]) == "FORM" && (string(head[8:12]) == "AIFF" || string(head[8:12]) == "AIFC"):
		g.Kind = AIFF
		g.FormTotalSize = binary.BigEndian.Uint32(head[4:8])
	case string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		g.Kind = WAV
		g.FormTotalSize = binary.LittleEndian.Uint32(head[4:8])
	case string(head[0:4]) == "RIFF" && string(head[8:12]) == "AVI ":
		g.Kind = AVI
		g.FormTotalSize = binary.LittleEndian.Uint32(head[4:8])
	default:
		g.Kind = RawStream
		return g, nil
	}

	if err := scanChunks(f, g, size); err != nil {
		return nil, err
	}
	return g, nil
}

// scanChunks walks the chunk list starting at offset 12, bounded by
// min(fileSize, 8+FormTotalSize), looking for the carrier's ID3 chunk id.
func scanChunks(f *fileio.File, g *Geometry, fileSize int64) error {
	bound := int64(8) + int64(g.FormTotalSize)
	if fileSize < bound {
		bound = fileSize
	}

	target := g.Kind.id3ChunkID()
	pos := int64(12)
	for pos+8 <= bound {
		var hdr [8]byte
		if err := f.ReadAt(hdr[:], pos); err != nil {
			return err
		}
		id := string(hdr[0:4])
		var size uint32
		if g.Kind.bigEndian() {
			size = binary.BigEndian.Uint32(hdr[4:8])
		} else {
			size = binary.LittleEndian.Uint32(hdr[4:8])
		}

		if id == target {
			g.HasID3Chunk = true
			g.ID3ChunkOffset = pos
			g.ID3ChunkDataSize = size
			g.ID3ChunkDataOffset = pos + 8
			return nil
		}

		advance := int64(8) + int64(size)
		if size&1 != 0 {
			advance++
		}
		pos += advance
	}
	return nil
}

// Append writes a new ID3 chunk containing tagBytes at the end of the file
// and patches the form-size field, growing the carrier by
// 8+len(tagBytes)(+1 pad byte if odd).
func Append(f *fileio.File, g *Geometry, tagBytes []byte) error {
	end, err := f.Size()
	if err != nil {
		return err
	}
	if _, err := f.Seek(end, 0); err != nil {
		return err
	}

	var hdr [8]byte
	copy(hdr[0:4], g.Kind.id3ChunkID())
	writeSize(hdr[4:8], g.Kind.bigEndian(), uint32(len(tagBytes)))
	if err := f.Write(hdr[:]); err != nil {
		return err
	}
	if err := f.Write(tagBytes); err != nil {
		return err
	}
	grown := int64(8) + int64(len(tagBytes))
	if len(tagBytes)&1 != 0 {
		if err := f.Write([]byte{0}); err != nil {
			return err
		}
		grown++
	}

	newForm := g.FormTotalSize + uint32(grown)
	if err := patchFormSize(f, g, newForm); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}

	g.FormTotalSize = newForm
	g.HasID3Chunk = true
	g.ID3ChunkOffset = end
	g.ID3ChunkDataSize = uint32(len(tagBytes))
	g.ID3ChunkDataOffset = end + 8
	return nil
}

// Rewrite builds path+".tmp" containing every non-ID3 chunk of the source
// file (read via f) followed by a fresh ID3 chunk holding tagBytes, patches
// its form-size field, then renames it over path. On success it returns a
// reopened *fileio.File positioned like a freshly opened file and the new
// Geometry; on rename failure it removes the temp file, attempts to reopen
// the original path and returns mp3tagerr.RenameFailed. copyBuf is scratch space for streaming
// untouched chunks; if nil, a buffer is allocated for this call.
func Rewrite(f *fileio.File, g *Geometry, path string, writable bool, tagBytes []byte, copyBuf []byte) (*fileio.File, *Geometry, error) {
	tmpPath := path + ".tmp"
	tmp, err := fileio.Create(tmpPath)
	if err != nil {
		return nil, nil, err
	}

	if copyBuf == nil {
		copyBuf = make([]byte, chunkCopyBufferSize)
	}
	if err := rewriteBody(f, g, tmp, tagBytes, copyBuf); err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, nil, err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, nil, err
	}
	if err := tmp.Close(); err != nil {
		removeTemp(tmpPath)
		return nil, nil, err
	}
	if err := f.Close(); err != nil {
		removeTemp(tmpPath)
		return nil, nil, err
	}

	if err := renameFile(tmpPath, path); err != nil {
		removeTemp(tmpPath)
		reopened, reopenErr := reopen(path, writable)
		if reopenErr != nil {
			return nil, nil, mp3tagerr.New(mp3tagerr.RenameFailed)
		}
		return reopened, g, mp3tagerr.New(mp3tagerr.RenameFailed)
	}

	reopened, err := reopen(path, writable)
	if err != nil {
		return nil, nil, err
	}
	newGeom, err := Detect(reopened)
	if err != nil {
		reopened.Close()
		return nil, nil, err
	}
	return reopened, newGeom, nil
}

func rewriteBody(src *fileio.File, g *Geometry, tmp *fileio.File, tagBytes []byte, buf []byte) error {
	var head [12]byte
	if err := src.ReadAt(head[:], 0); err != nil {
		return err
	}
	if err := tmp.Write(head[:]); err != nil {
		return err
	}

	srcSize, err := src.Size()
	if err != nil {
		return err
	}
	bound := int64(8) + int64(g.FormTotalSize)
	if srcSize < bound {
		bound = srcSize
	}

	target := g.Kind.id3ChunkID()
	pos := int64(12)
	for pos+8 <= bound {
		var hdr [8]byte
		if err := src.ReadAt(hdr[:], pos); err != nil {
			return err
		}
		id := string(hdr[0:4])
		var size uint32
		if g.Kind.bigEndian() {
			size = binary.BigEndian.Uint32(hdr[4:8])
		} else {
			size = binary.LittleEndian.Uint32(hdr[4:8])
		}
		chunkLen := int64(8) + int64(size)
		if size&1 != 0 {
			chunkLen++
		}

		if id != target {
			if err := copyRange(src, tmp, pos, chunkLen, buf); err != nil {
				return err
			}
		}
		pos += chunkLen
	}

	var newHdr [8]byte
	copy(newHdr[0:4], target)
	writeSize(newHdr[4:8], g.Kind.bigEndian(), uint32(len(tagBytes)))
	if err := tmp.Write(newHdr[:]); err != nil {
		return err
	}
	if err := tmp.Write(tagBytes); err != nil {
		return err
	}
	if len(tagBytes)&1 != 0 {
		if err := tmp.Write([]byte{0}); err != nil {
			return err
		}
	}

	tmpSize, err := tmp.Size()
	if err != nil {
		return err
	}
	newForm := uint32(tmpSize - 8)
	var formBuf [4]byte
	writeSize(formBuf[:], g.Kind.bigEndian(), newForm)
	if err := tmp.WriteAt(formBuf[:], 4); err != nil {
		return err
	}
	return nil
}

func copyRange(src, dst *fileio.File, off, n int64, buf []byte) error {
	if _, err := src.Seek(off, 0); err != nil {
		return err
	}
	return fileio.CopyFrom(dst, src, n, buf)
}

func patchFormSize(f *fileio.File, g *Geometry, newSize uint32) error {
	var buf [4]byte
	writeSize(buf[:], g.Kind.bigEndian(), newSize)
	return f.WriteAt(buf[:], 4)
}

func writeSize(dst []byte, big bool, size uint32) {
	if big {
		binary.BigEndian.PutUint32(dst, size)
	} else {
		binary.LittleEndian.PutUint32(dst, size)
	}
}

// renameFile is the seam tests substitute to simulate a rename failure;
// production code calls os.Rename through the thin osRename wrapper defined
// in rename.go.
var renameFile = osRename

func reopen(path string, writable bool) (*fileio.File, error) {
	if writable {
		return fileio.OpenRW(path)
	}
	return fileio.Open(path)
}

func removeTemp(path string) {
	_ = osRemove(path)
}
