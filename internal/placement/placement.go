// Package placement implements the tag-write placement strategy: attempt
// an in-place overwrite of the existing tag's allocated region first, and
// fall back to a full atomic rewrite (temp file + rename) with default
// padding when the new frame body doesn't fit.
package placement

import (
	"github.com/morganp/mp3tag/internal/container"
	"github.com/morganp/mp3tag/internal/fileio"
	"github.com/morganp/mp3tag/internal/id3v2"
	"github.com/morganp/mp3tag/internal/mp3tagerr"
)

// RawStreamResult reports the outcome of placing a tag in a raw-stream
// (headerless MP3/AAC) carrier.
type RawStreamResult struct {
	// NewTagSize is the tag_size of the header now on disk (unchanged on
	// in-place success, DefaultPadding-larger than the frame body on
	// rewrite).
	NewTagSize uint32
	// AudioOffset is the offset at which audio now begins.
	AudioOffset int64
	// Rewrote is true if a full rewrite (rather than an in-place write)
	// was performed.
	Rewrote bool
	// File is set only when a rewrite reopened the file handle.
	File *fileio.File
}

// PlaceRawStream writes frameBody as the new tag content for a raw-stream
// carrier. currentTagSize is the tag_size of the existing header (0 if
// there was none); audioOffset is the first byte of audio in the file as it
// stands before this call. copyBuf is scratch space for the audio-streaming
// copy during a rewrite; it is not touched on the in-place path.
func PlaceRawStream(f *fileio.File, path string, writable bool, currentTagSize uint32, audioOffset int64, frameBody []byte, copyBuf []byte) (*RawStreamResult, error) {
	if uint32(len(frameBody)) <= currentTagSize && currentTagSize > 0 {
		if err := writeInPlace(f, 0, currentTagSize, frameBody); err != nil {
			return nil, err
		}
		return &RawStreamResult{NewTagSize: currentTagSize, AudioOffset: audioOffset, Rewrote: false}, nil
	}

	newTagSize := uint32(len(frameBody)) + id3v2.DefaultPadding
	newFile, err := rewriteRawStream(f, path, writable, audioOffset, frameBody, newTagSize, copyBuf)
	if err != nil {
		if newFile != nil {
			// Rename failed but the original file was successfully
			// reopened; surface both so the caller's session stays usable.
			return &RawStreamResult{File: newFile, Rewrote: true}, err
		}
		return nil, err
	}
	return &RawStreamResult{
		NewTagSize:  newTagSize,
		AudioOffset: int64(id3v2.HeaderSize) + int64(newTagSize),
		Rewrote:     true,
		File:        newFile,
	}, nil
}

// writeInPlace overwrites the tag region [offset, offset+10+allocated) with a
// 10-byte header declaring tagSize=allocated, the new frames, and zero
// padding to fill the remainder.
func writeInPlace(f *fileio.File, offset int64, allocated uint32, frameBody []byte) error {
	if uint32(len(frameBody)) > allocated {
		return mp3tagerr.New(mp3tagerr.NoSpace)
	}
	hdr := id3v2.BuildHeader(allocated)
	if err := f.WriteAt(hdr[:], offset); err != nil {
		return mp3tagerr.New(mp3tagerr.WriteFailed)
	}
	if err := f.WriteAt(frameBody, offset+int64(id3v2.HeaderSize)); err != nil {
		return mp3tagerr.New(mp3tagerr.WriteFailed)
	}
	padLen := int64(allocated) - int64(len(frameBody))
	if padLen > 0 {
		if err := writeZeros(f, offset+int64(id3v2.HeaderSize)+int64(len(frameBody)), padLen); err != nil {
			return mp3tagerr.New(mp3tagerr.WriteFailed)
		}
	}
	return f.Sync()
}

func writeZeros(f *fileio.File, offset int64, n int64) error {
	const chunk = 8192
	buf := make([]byte, chunk)
	for n > 0 {
		c := int64(chunk)
		if n < c {
			c = n
		}
		if err := f.WriteAt(buf[:c], offset); err != nil {
			return err
		}
		offset += c
		n -= c
	}
	return nil
}

func rewriteRawStream(f *fileio.File, path string, writable bool, audioOffset int64, frameBody []byte, newTagSize uint32, copyBuf []byte) (*fileio.File, error) {
	tmpPath := path + ".tmp"
	tmp, err := fileio.Create(tmpPath)
	if err != nil {
		return nil, err
	}

	if err := writeRawHeaderAndFrames(tmp, newTagSize, frameBody); err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, err
	}

	audioSize, err := f.Size()
	if err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, err
	}
	audioSize -= audioOffset

	if err := streamAudio(f, tmp, audioOffset, audioSize, copyBuf); err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		removeTemp(tmpPath)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		removeTemp(tmpPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		removeTemp(tmpPath)
		return nil, err
	}

	if err := renameFile(tmpPath, path); err != nil {
		// The rename failed, but the rewrite never reached the point of
		// touching the original file's bytes, so it remains intact.
		// Remove the temp file and reopen the original so the session
		// stays usable even as RenameFailed surfaces to the caller.
		removeTemp(tmpPath)
		reopened, reopenErr := reopen(path, writable)
		if reopenErr != nil {
			return nil, mp3tagerr.New(mp3tagerr.RenameFailed)
		}
		return reopened, mp3tagerr.New(mp3tagerr.RenameFailed)
	}

	return reopen(path, writable)
}

func writeRawHeaderAndFrames(tmp *fileio.File, tagSize uint32, frameBody []byte) error {
	hdr := id3v2.BuildHeader(tagSize)
	if err := tmp.Write(hdr[:]); err != nil {
		return err
	}
	if err := tmp.Write(frameBody); err != nil {
		return err
	}
	pad := int64(tagSize) - int64(len(frameBody))
	return writeZeros(tmp, int64(id3v2.HeaderSize)+int64(len(frameBody)), pad)
}

func streamAudio(src, dst *fileio.File, offset, size int64, buf []byte) error {
	if _, err := src.Seek(offset, 0); err != nil {
		return err
	}
	return fileio.CopyFrom(dst, src, size, buf)
}

// ContainerResult reports the outcome of placing a tag in an IFF/RIFF
// container.
type ContainerResult struct {
	Rewrote  bool
	File     *fileio.File
	Geometry *container.Geometry
}

// PlaceContainer writes frameBody as the new ID3 tag content for an
// IFF/RIFF carrier described by g. In-place succeeds if the frame body (plus
// its 10-byte header) fits the existing chunk's allocated data size;
// otherwise a fresh tag (header+frames+default padding) is appended (no
// existing chunk) or the whole container is rewritten (existing chunk too
// small). copyBuf is scratch space for the chunk-streaming copy a rewrite
// performs; it is not touched on the in-place or append paths.
func PlaceContainer(f *fileio.File, g *container.Geometry, path string, writable bool, frameBody []byte, copyBuf []byte) (*ContainerResult, error) {
	needed := uint32(id3v2.HeaderSize) + uint32(len(frameBody))
	if g.HasID3Chunk && needed <= g.ID3ChunkDataSize {
		tagSize := g.ID3ChunkDataSize - id3v2.HeaderSize
		if err := writeInPlace(f, g.ID3ChunkDataOffset, tagSize, frameBody); err != nil {
			return nil, err
		}
		return &ContainerResult{Rewrote: false, Geometry: g}, nil
	}

	full := buildFullTag(frameBody)
	if !g.HasID3Chunk {
		if err := container.Append(f, g, full); err != nil {
			return nil, err
		}
		return &ContainerResult{Rewrote: false, Geometry: g}, nil
	}

	newFile, newGeom, err := container.Rewrite(f, g, path, writable, full, copyBuf)
	if err != nil {
		if newFile != nil {
			return &ContainerResult{Rewrote: true, File: newFile, Geometry: newGeom}, err
		}
		return nil, err
	}
	return &ContainerResult{Rewrote: true, File: newFile, Geometry: newGeom}, nil
}

func buildFullTag(frameBody []byte) []byte {
	tagSize := uint32(len(frameBody)) + id3v2.DefaultPadding
	hdr := id3v2.BuildHeader(tagSize)
	out := make([]byte, 0, id3v2.HeaderSize+int(tagSize))
	out = append(out, hdr[:]...)
	out = append(out, frameBody...)
	out = append(out, make([]byte, id3v2.DefaultPadding)...)
	return out
}
