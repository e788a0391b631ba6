package id3v1

import "testing"

func buildTrailer(title, artist, album, year, comment string, track byte, genre byte) [Size]byte {
	var t [Size]byte
	t[0], t[1], t[2] = 'T', 'A', 'G'
	copy(t[3:33], title)
	copy(t[33:63], artist)
	copy(t[63:93], album)
	copy(t[93:97], year)
	if track != 0 {
		copy(t[97:125], comment)
		t[125] = 0
		t[126] = track
	} else {
		copy(t[97:127], comment)
	}
	t[127] = genre
	return t
}

func TestDetect(t *testing.T) {
	trailer := buildTrailer("Old", "Artist", "Album", "1999", "hi", 0, 0)
	if !Detect(trailer) {
		t.Error("Detect should find the TAG magic")
	}

	var bad [Size]byte
	if Detect(bad) {
		t.Error("Detect should reject a trailer with no TAG magic")
	}
}

func TestDecodeBasicFields(t *testing.T) {
	trailer := buildTrailer("Old Title", "The Artist", "The Album", "1999", "a comment", 0, 0)
	c, err := Decode(trailer)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []struct{ name, value string }{
		{"TITLE", "Old Title"},
		{"ARTIST", "The Artist"},
		{"ALBUM", "The Album"},
		{"DATE_RELEASED", "1999"},
		{"COMMENT", "a comment"},
	} {
		v, ok := c.FindString(want.name)
		if !ok || v != want.value {
			t.Errorf("%s = %q, %v, want %q, true", want.name, v, ok, want.value)
		}
	}
	if _, ok := c.FindString("TRACK_NUMBER"); ok {
		t.Error("v1.0 trailer should not produce a TRACK_NUMBER tag")
	}
}

func TestDecodeV1_1TrackNumber(t *testing.T) {
	trailer := buildTrailer("T", "A", "Al", "2001", "short comment", 7, 0)
	c, err := Decode(trailer)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := c.FindString("TRACK_NUMBER")
	if !ok || v != "7" {
		t.Errorf("TRACK_NUMBER = %q, %v, want 7, true", v, ok)
	}
	cv, ok := c.FindString("COMMENT")
	if !ok || cv != "short comment" {
		t.Errorf("COMMENT = %q, %v, want %q, true", cv, ok, "short comment")
	}
}

func TestDecodeGenreLookup(t *testing.T) {
	trailer := buildTrailer("T", "A", "Al", "2001", "", 0, 0) // genre index 0 = Blues
	c, err := Decode(trailer)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := c.FindString("GENRE"); !ok || v != "Blues" {
		t.Errorf("GENRE = %q, %v, want Blues, true", v, ok)
	}
}

func TestDecodeGenreNoGenre(t *testing.T) {
	trailer := buildTrailer("T", "A", "Al", "2001", "", 0, 0xFF)
	c, err := Decode(trailer)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.FindString("GENRE"); ok {
		t.Error("0xFF genre index should produce no GENRE tag")
	}
}

func TestDecodeRejectsMissingMagic(t *testing.T) {
	var trailer [Size]byte
	if _, err := Decode(trailer); err == nil {
		t.Fatal("expected error for missing TAG magic")
	}
}

func TestTrimFixedStopsAtEmbeddedNUL(t *testing.T) {
	buf := append([]byte("abc"), 0, 'd', 'e')
	if got := trimFixed(buf); got != "abc" {
		t.Errorf("trimFixed = %q, want abc", got)
	}
}

func TestTrimFixedStripsTrailingSpaces(t *testing.T) {
	buf := []byte("abc   ")
	if got := trimFixed(buf); got != "abc" {
		t.Errorf("trimFixed = %q, want abc", got)
	}
}
