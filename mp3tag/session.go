// Package mp3tag reads and writes embedded ID3v2/ID3v1 metadata tags across
// raw MP3/AAC streams and IFF/AIFF, RIFF/WAVE and RIFF/AVI containers. A
// Session is the per-file handle: open a path, read or mutate its tags, and
// close it when done.
package mp3tag

import (
	"log"

	"github.com/morganp/mp3tag/internal/container"
	"github.com/morganp/mp3tag/internal/fileio"
	"github.com/morganp/mp3tag/internal/id3v1"
	"github.com/morganp/mp3tag/internal/id3v2"
	"github.com/morganp/mp3tag/internal/mp3tagerr"
	"github.com/morganp/mp3tag/internal/placement"
)

// copyBufferSize is the size of the scratch buffer a Session allocates
// through its Allocator at construction and hands down to the placement
// engine for streaming audio/chunk bytes during a rewrite.
const copyBufferSize = 64 * 1024

// Session is a per-open context: file handle, path, writable flag, probed
// carrier/tag geometry, and a cached parsed Collection that is invalidated
// on every mutating operation. A Session is not safe for concurrent use
// from multiple goroutines; callers must not issue concurrent operations
// against one Session.
type Session struct {
	log   *log.Logger
	alloc Allocator

	copyBuf  []byte
	allocErr error

	f        *fileio.File
	path     string
	writable bool

	geometry *container.Geometry
	hasV2    bool
	v2Header *id3v2.V2Header
	v2Offset int64
	hasV1    bool

	audioOffset int64

	cached *Collection
}

// NewSession constructs an unopened Session. Per the allocator-hook design
// note, opts may install an Allocator that is honored only here and in
// Close's teardown, nowhere else: NewSession allocates the session's
// rewrite scratch buffer through it immediately, and a failure there
// surfaces as NoMemory from the first Open/OpenRW call rather than a
// return value NewSession itself doesn't have.
func NewSession(opts ...Option) *Session {
	s := &Session{log: defaultLogger(), alloc: defaultAllocator{}}
	for _, opt := range opts {
		opt(s)
	}
	buf, err := s.alloc.Alloc(copyBufferSize)
	if err != nil {
		s.allocErr = mp3tagerr.New(mp3tagerr.NoMemory)
	} else {
		s.copyBuf = buf
	}
	return s
}

// Open opens path read-only and probes its carrier and tag geometry.
func (s *Session) Open(path string) error {
	return s.open(path, false)
}

// OpenRW opens path for reading and writing and probes its carrier and tag
// geometry.
func (s *Session) OpenRW(path string) error {
	return s.open(path, true)
}

func (s *Session) open(path string, writable bool) error {
	if s.allocErr != nil {
		return s.allocErr
	}
	if s.f != nil {
		return mp3tagerr.New(mp3tagerr.AlreadyOpen)
	}

	var (
		f   *fileio.File
		err error
	)
	if writable {
		f, err = fileio.OpenRW(path)
	} else {
		f, err = fileio.Open(path)
	}
	if err != nil {
		return mp3tagerr.New(mp3tagerr.IO)
	}

	s.f = f
	s.path = path
	s.writable = writable

	if err := s.probe(); err != nil {
		s.f.Close()
		s.f = nil
		return err
	}
	return nil
}

// probe detects the carrier, then locates an ID3v2 header (at offset 0 for
// a raw stream, or at the id3 chunk's data offset for a container), falling
// back to an independent ID3v1 trailer check.
func (s *Session) probe() error {
	g, err := container.Detect(s.f)
	if err != nil {
		return mp3tagerr.New(mp3tagerr.IO)
	}
	s.geometry = g
	s.hasV2 = false
	s.v2Header = nil

	var headerOffset int64 = -1
	switch g.Kind {
	case container.RawStream:
		headerOffset = 0
	default:
		if g.HasID3Chunk {
			headerOffset = g.ID3ChunkDataOffset
		}
	}

	if headerOffset >= 0 {
		var hdrBuf [id3v2.HeaderSize]byte
		if err := s.f.ReadAt(hdrBuf[:], headerOffset); err == nil {
			if h, err := id3v2.ParseHeader(hdrBuf); err == nil {
				s.hasV2 = true
				s.v2Header = h
				s.v2Offset = headerOffset
				if g.Kind == container.RawStream {
					s.audioOffset = int64(id3v2.HeaderSize) + int64(h.TagSize)
					if h.HasFooter {
						s.audioOffset += int64(id3v2.HeaderSize)
					}
				}
			}
		}
	}

	s.hasV1 = false
	if size, err := s.f.Size(); err == nil && size >= int64(id3v1.Size) {
		var trailer [id3v1.Size]byte
		if err := s.f.ReadAt(trailer[:], size-int64(id3v1.Size)); err == nil {
			s.hasV1 = id3v1.Detect(trailer)
		}
	}

	return nil
}

// Close invalidates the cache, closes the handle, clears geometry, and
// releases the session-owned scratch buffer NewSession allocated.
func (s *Session) Close() error {
	if s.f == nil {
		return mp3tagerr.New(mp3tagerr.NotOpen)
	}
	s.cached = nil
	s.copyBuf = nil
	err := s.f.Close()
	s.f = nil
	s.geometry = nil
	s.hasV2 = false
	s.hasV1 = false
	if err != nil {
		return mp3tagerr.New(mp3tagerr.IO)
	}
	return nil
}

// ReadTags returns the session's Collection, built from ID3v2 if present,
// else ID3v1, else NoTags. The returned Collection is cached on the session
// and becomes invalid at the next mutating call or Close.
func (s *Session) ReadTags() (*Collection, error) {
	if s.f == nil {
		return nil, mp3tagerr.New(mp3tagerr.NotOpen)
	}
	if s.cached != nil {
		return s.cached, nil
	}

	if s.hasV2 {
		c, err := s.readV2Collection()
		if err != nil {
			return nil, err
		}
		s.cached = c
		return c, nil
	}

	if s.hasV1 {
		size, err := s.f.Size()
		if err != nil {
			return nil, mp3tagerr.New(mp3tagerr.IO)
		}
		var trailer [id3v1.Size]byte
		if err := s.f.ReadAt(trailer[:], size-int64(id3v1.Size)); err != nil {
			return nil, mp3tagerr.New(mp3tagerr.IO)
		}
		c, err := id3v1.Decode(trailer)
		if err != nil {
			return nil, err
		}
		s.cached = c
		return c, nil
	}

	return nil, mp3tagerr.New(mp3tagerr.NoTags)
}

func (s *Session) readV2Collection() (*Collection, error) {
	bodyBuf := make([]byte, s.v2Header.TagSize)
	if err := s.f.ReadAt(bodyBuf, s.v2Offset+int64(id3v2.HeaderSize)); err != nil {
		return nil, mp3tagerr.New(mp3tagerr.Truncated)
	}

	frameBytes, err := id3v2.SkipExtendedHeader(bodyBuf, s.v2Header.Major, s.v2Header.Flags)
	if err != nil {
		return nil, normalizeDecodeErr(err)
	}

	frames := id3v2.ReadFrames(frameBytes, s.v2Header.Major, s.log)
	c, err := id3v2.FramesToCollection(frames)
	if err != nil {
		return nil, normalizeDecodeErr(err)
	}
	return c, nil
}

// normalizeDecodeErr reduces an internal decode error to a Code, defaulting
// to Corrupt for anything that didn't already carry a recognized one (e.g.
// a malformed TXXX/COMM frame body).
func normalizeDecodeErr(err error) error {
	if code, ok := mp3tagerr.Cause(err); ok {
		return mp3tagerr.New(code)
	}
	return mp3tagerr.New(mp3tagerr.Corrupt)
}

// ReadTagString returns the first SimpleTag's value whose name
// case-insensitively matches name.
func (s *Session) ReadTagString(name string) (string, error) {
	c, err := s.ReadTags()
	if err != nil {
		return "", err
	}
	v, ok := c.FindString(name)
	if !ok {
		return "", mp3tagerr.New(mp3tagerr.TagNotFound)
	}
	return v, nil
}

// ReadTagBytes copies the first matching tag's value into buf, returning
// the number of bytes written. It preserves the bounded-buffer semantics of
// a fixed-size caller buffer: TagTooLarge if buf cannot hold the value.
func (s *Session) ReadTagBytes(name string, buf []byte) (int, error) {
	v, err := s.ReadTagString(name)
	if err != nil {
		return 0, err
	}
	if len(v) > len(buf) {
		return 0, mp3tagerr.New(mp3tagerr.TagTooLarge)
	}
	return copy(buf, v), nil
}

// WriteTags serializes collection, invalidates the cache, and writes it
// via the placement engine (in-place, else atomic rewrite). The session
// must be writable.
func (s *Session) WriteTags(collection *Collection) error {
	if s.f == nil {
		return mp3tagerr.New(mp3tagerr.NotOpen)
	}
	if !s.writable {
		return mp3tagerr.New(mp3tagerr.ReadOnly)
	}

	frameBody := id3v2.SerializeCollection(collection)
	s.cached = nil

	var err error
	if s.geometry.Kind == container.RawStream {
		err = s.writeRawStream(frameBody)
	} else {
		err = s.writeContainer(frameBody)
	}
	if err != nil {
		return err
	}

	return s.probe()
}

func (s *Session) writeRawStream(frameBody []byte) error {
	var currentTagSize uint32
	if s.hasV2 {
		currentTagSize = s.v2Header.TagSize
	}
	res, err := placement.PlaceRawStream(s.f, s.path, s.writable, currentTagSize, s.audioOffset, frameBody, s.copyBuf)
	if res != nil && res.File != nil {
		s.f = res.File
	}
	if err != nil {
		return translatePlacementErr(err)
	}
	return nil
}

func (s *Session) writeContainer(frameBody []byte) error {
	res, err := placement.PlaceContainer(s.f, s.geometry, s.path, s.writable, frameBody, s.copyBuf)
	if res != nil {
		if res.File != nil {
			s.f = res.File
		}
		if res.Geometry != nil {
			s.geometry = res.Geometry
		}
	}
	if err != nil {
		return translatePlacementErr(err)
	}
	return nil
}

func translatePlacementErr(err error) error {
	if _, ok := mp3tagerr.Cause(err); ok {
		return err
	}
	return mp3tagerr.New(mp3tagerr.WriteFailed)
}

// SetTagString sets name to value, replacing any existing SimpleTag whose
// name case-equals name. An empty value still sets the tag (use RemoveTag
// to remove one); callers that want C's "NULL value removes" semantics
// should call RemoveTag directly.
func (s *Session) SetTagString(name, value string) error {
	current, err := s.readForMutation()
	if err != nil {
		return err
	}
	next := current.WithoutName(name)
	if len(next.Tags) == 0 {
		next.AddTag(TargetAlbum)
	}
	next.Tags[0].AddSimple(name, value)
	return s.WriteTags(next)
}

// RemoveTag removes every SimpleTag named name (case-insensitively).
func (s *Session) RemoveTag(name string) error {
	current, err := s.readForMutation()
	if err != nil {
		return err
	}
	next := current.WithoutName(name)
	return s.WriteTags(next)
}

// readForMutation reads the current Collection, tolerating its absence
// (NoTags) so SetTagString/RemoveTag work on a file with no prior tags.
func (s *Session) readForMutation() (*Collection, error) {
	c, err := s.ReadTags()
	if err != nil {
		if code, ok := mp3tagerr.Cause(err); ok && code == mp3tagerr.NoTags {
			return NewCollection(), nil
		}
		return nil, err
	}
	return c, nil
}
