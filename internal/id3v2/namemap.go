package id3v2

import "sort"

// nameEntry binds one human-readable tag name to its canonical (v2.4) frame
// id and, where one exists, a v2.3-only alias id that decodes to the same
// name.
type nameEntry struct {
	name  string
	id    string
	alias string
}

// nameTable is kept sorted by name so frameIDForName can use binary search
// rather than a linear scan or a map, per the "sorted array with binary
// search" guidance for a small static dispatch table. The reverse lookup,
// nameForFrameID, uses the idToName map built from this table below.
var nameTable = []nameEntry{
	{"ALBUM", "TALB", ""},
	{"ALBUM_ARTIST", "TPE2", ""},
	{"ARTIST", "TPE1", ""},
	{"BPM", "TBPM", ""},
	{"COMMENT", "COMM", ""},
	{"COMPOSER", "TCOM", ""},
	{"CONDUCTOR", "TPE3", ""},
	{"COPYRIGHT", "TCOP", ""},
	{"DATE_RELEASED", "TDRC", "TYER"},
	{"DISC_NUMBER", "TPOS", ""},
	{"ENCODED_BY", "TENC", ""},
	{"ENCODER", "TSSE", ""},
	{"GENRE", "TCON", ""},
	{"GROUPING", "TIT1", ""},
	{"ISRC", "TSRC", ""},
	{"LYRICIST", "TEXT", ""},
	{"ORIGINAL_DATE", "TDOR", "TORY"},
	{"PUBLISHER", "TPUB", ""},
	{"SORT_ALBUM", "TSOA", ""},
	{"SORT_ALBUM_ARTIST", "TSO2", ""},
	{"SORT_ARTIST", "TSOP", ""},
	{"SORT_TITLE", "TSOT", ""},
	{"SUBTITLE", "TIT3", ""},
	{"TITLE", "TIT2", ""},
	{"TRACK_NUMBER", "TRCK", ""},
}

func init() {
	sort.Slice(nameTable, func(i, j int) bool { return nameTable[i].name < nameTable[j].name })
}

// idToName maps every frame id (canonical or v2.3 alias) back to its
// human-readable name. Built once from nameTable rather than hand-duplicated,
// so the two directions can never drift apart.
var idToName = func() map[string]string {
	m := make(map[string]string, len(nameTable)*2)
	for _, e := range nameTable {
		m[e.id] = e.name
		if e.alias != "" {
			m[e.alias] = e.name
		}
	}
	return m
}()

// frameIDForName returns the canonical v2.4 frame id for name, performed
// case-insensitively (ASCII-only, matching the source's comparison rule).
func frameIDForName(name string) (string, bool) {
	upper := toUpperASCII(name)
	i := sort.Search(len(nameTable), func(i int) bool { return nameTable[i].name >= upper })
	if i < len(nameTable) && nameTable[i].name == upper {
		return nameTable[i].id, true
	}
	return "", false
}

// nameForFrameID returns the human-readable name for id, or false if id is
// not one of the well-known frames.
func nameForFrameID(id string) (string, bool) {
	name, ok := idToName[id]
	return name, ok
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// isFrameID reports whether s is exactly four bytes drawn from A-Z/0-9, the
// shape a valid ID3v2.3/2.4 frame identifier must have.
func isFrameID(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !(('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')) {
			return false
		}
	}
	return true
}
