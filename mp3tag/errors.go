package mp3tag

import "github.com/morganp/mp3tag/internal/mp3tagerr"

// Code is the library's error taxonomy: zero is success, negative is
// failure. It satisfies the error interface directly so it can be returned
// (optionally wrapped with github.com/pkg/errors for a stack-annotated
// cause) from any public call.
type Code = mp3tagerr.Code

// Error codes, grouped exactly as the general/format/tag/write categories of
// the taxonomy this library implements.
const (
	OK Code = mp3tagerr.OK

	InvalidArg  Code = mp3tagerr.InvalidArg
	NoMemory    Code = mp3tagerr.NoMemory
	IO          Code = mp3tagerr.IO
	NotOpen     Code = mp3tagerr.NotOpen
	AlreadyOpen Code = mp3tagerr.AlreadyOpen
	ReadOnly    Code = mp3tagerr.ReadOnly

	NotMP3      Code = mp3tagerr.NotMP3
	BadID3v2    Code = mp3tagerr.BadID3v2
	Corrupt     Code = mp3tagerr.Corrupt
	Truncated   Code = mp3tagerr.Truncated
	Unsupported Code = mp3tagerr.Unsupported

	NoTags      Code = mp3tagerr.NoTags
	TagNotFound Code = mp3tagerr.TagNotFound
	TagTooLarge Code = mp3tagerr.TagTooLarge

	NoSpace      Code = mp3tagerr.NoSpace
	WriteFailed  Code = mp3tagerr.WriteFailed
	SeekFailed   Code = mp3tagerr.SeekFailed
	RenameFailed Code = mp3tagerr.RenameFailed
)

// StrError returns the human-readable string for code, mirroring the C
// library's process-level mp3tag_strerror accessor.
func StrError(code Code) string {
	return code.String()
}

// Cause reduces err (as returned by any Session method, possibly wrapped
// with github.com/pkg/errors context) to its underlying Code, defaulting to
// IO for anything it doesn't recognize.
func Cause(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := mp3tagerr.Cause(err); ok {
		return c
	}
	return IO
}
