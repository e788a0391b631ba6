// Package id3v1 decodes the legacy 128-byte ID3v1/1.1 trailer, used by
// Session only as a fallback read path when no ID3v2 tag is present.
package id3v1

import (
	"strconv"

	"github.com/morganp/mp3tag/internal/mp3tagerr"
	"github.com/morganp/mp3tag/internal/tagmodel"
)

// Size is the fixed length of an ID3v1 trailer.
const Size = 128

var genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient", "Trip-Hop",
	"Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical", "Instrumental", "Acid",
	"House", "Game", "Sound Clip", "Gospel", "Noise", "Alternative Rock", "Bass",
	"Soul", "Punk", "Space", "Meditative", "Instrumental Pop", "Instrumental Rock",
	"Ethnic", "Gothic", "Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk",
	"Eurodance", "Dream", "Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40",
	"Christian Rap", "Pop/Funk", "Jungle", "Native US", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal", "Acid Punk",
	"Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll", "Hard Rock", "Folk",
	"Folk-Rock", "National Folk", "Swing", "Fast Fusion", "Bebop", "Latin",
	"Revival", "Celtic", "Bluegrass", "Avantgarde", "Gothic Rock",
	"Progressive Rock", "Psychedelic Rock", "Symphonic Rock", "Slow Rock",
	"Big Band", "Chorus", "Easy Listening", "Acoustic", "Humour", "Speech",
	"Chanson", "Opera", "Chamber Music", "Sonata", "Symphony", "Booty Bass",
	"Primus", "Porn Groove", "Satire", "Slow Jam", "Club", "Tango", "Samba",
	"Folklore", "Ballad", "Power Ballad", "Rhytmic Soul", "Freestyle", "Duet",
	"Punk Rock", "Drum Solo", "Acapella", "Euro-House", "Dance Hall", "Goa",
	"Drum & Bass",
}

// Detect reports whether trailer, the final Size bytes of a file, begins
// with the "TAG" magic.
func Detect(trailer [Size]byte) bool {
	return trailer[0] == 'T' && trailer[1] == 'A' && trailer[2] == 'G'
}

// Decode parses a 128-byte ID3v1/1.1 trailer into the shared tag model, one
// Tag under the album target holding TITLE/ARTIST/ALBUM/DATE_RELEASED/
// COMMENT/TRACK_NUMBER/GENRE SimpleTags for every non-empty field.
func Decode(trailer [Size]byte) (*tagmodel.Collection, error) {
	if !Detect(trailer) {
		return nil, mp3tagerr.New(mp3tagerr.Corrupt)
	}

	title := trimFixed(trailer[3:33])
	artist := trimFixed(trailer[33:63])
	album := trimFixed(trailer[63:93])
	year := trimFixed(trailer[93:97])

	var (
		comment string
		track   int
		isV1_1  bool
	)
	if trailer[125] == 0 && trailer[126] != 0 {
		comment = trimFixed(trailer[97:125])
		track = int(trailer[126])
		isV1_1 = true
	} else {
		comment = trimFixed(trailer[97:127])
	}

	genreIdx := trailer[127]
	var genre string
	if genreIdx != 0xFF && int(genreIdx) < len(genres) {
		genre = genres[genreIdx]
	}

	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	addSimple(tag, "TITLE", title)
	addSimple(tag, "ARTIST", artist)
	addSimple(tag, "ALBUM", album)
	addSimple(tag, "DATE_RELEASED", year)
	addSimple(tag, "COMMENT", comment)
	if isV1_1 {
		addSimple(tag, "TRACK_NUMBER", strconv.Itoa(track))
	}
	addSimple(tag, "GENRE", genre)

	return c, nil
}

func addSimple(tag *tagmodel.Tag, name, value string) {
	if value == "" {
		return
	}
	tag.AddSimple(name, value)
}

// trimFixed trims trailing NUL and space padding from a fixed-width ID3v1
// field, stopping at the first embedded NUL as the source does.
func trimFixed(b []byte) string {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	return string(b[:n])
}
