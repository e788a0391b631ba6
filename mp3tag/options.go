package mp3tag

import (
	"io"
	"log"
)

// Allocator is a pluggable allocation hook. Per the design note it carries
// forward from the source, it is honored only for Session construction and
// teardown, not for every allocation the library makes internally.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// defaultAllocator is the Allocator installed when the caller supplies none:
// a plain make, never failing.
type defaultAllocator struct{}

func (defaultAllocator) Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithLogger directs non-fatal diagnostics (the frame walk stopping early
// on a malformed frame) to logger instead of the default, which discards
// them. The placement engine does not log.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.log = logger }
}

// WithAllocator installs alloc as the Session's allocator hook.
func WithAllocator(alloc Allocator) Option {
	return func(s *Session) { s.alloc = alloc }
}

func defaultLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
