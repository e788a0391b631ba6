// Package mp3tagerr defines the library's error-code taxonomy. It lives
// below the public mp3tag package (which re-exports it via type/const
// aliases) so that the internal codec, container and placement packages can
// return and wrap these codes without importing the public package that
// depends on them.
package mp3tagerr

import "github.com/pkg/errors"

// Code is a signed integer error taxonomy: zero is success, negative is
// failure. It implements error directly.
type Code int

const (
	OK Code = 0

	InvalidArg  Code = -1
	NoMemory    Code = -2
	IO          Code = -3
	NotOpen     Code = -4
	AlreadyOpen Code = -5
	ReadOnly    Code = -6

	NotMP3      Code = -10
	BadID3v2    Code = -11
	Corrupt     Code = -12
	Truncated   Code = -13
	Unsupported Code = -14

	NoTags      Code = -20
	TagNotFound Code = -21
	TagTooLarge Code = -22

	NoSpace      Code = -30
	WriteFailed  Code = -31
	SeekFailed   Code = -32
	RenameFailed Code = -33
)

var strings = map[Code]string{
	OK:           "ok",
	InvalidArg:   "invalid argument",
	NoMemory:     "out of memory",
	IO:           "i/o error",
	NotOpen:      "not open",
	AlreadyOpen:  "already open",
	ReadOnly:     "read-only session",
	NotMP3:       "not an mp3/id3 stream",
	BadID3v2:     "malformed id3v2 header",
	Corrupt:      "corrupt tag data",
	Truncated:    "truncated file",
	Unsupported:  "unsupported id3v2 version",
	NoTags:       "no tags present",
	TagNotFound:  "tag not found",
	TagTooLarge:  "tag value too large for buffer",
	NoSpace:      "no space in existing tag allocation",
	WriteFailed:  "write failed",
	SeekFailed:   "seek failed",
	RenameFailed: "rename failed",
}

func (c Code) Error() string { return c.String() }

func (c Code) String() string {
	if s, ok := strings[c]; ok {
		return s
	}
	return "unknown error"
}

// New wraps code with a stack trace captured at the call site, so a
// higher layer can log a precise origin while still comparing the
// underlying cause against a Code via errors.Cause / Is.
func New(code Code) error {
	return errors.WithStack(code)
}

// Cause unwraps err (as produced by New, or any github.com/pkg/errors
// wrapping) down to its originating Code, returning (code, true) if one is
// found.
func Cause(err error) (Code, bool) {
	for err != nil {
		if c, ok := err.(Code); ok {
			return c, true
		}
		type causer interface{ Cause() error }
		cu, ok := err.(causer)
		if !ok {
			return 0, false
		}
		err = cu.Cause()
	}
	return 0, false
}
