// Package tagmodel defines the in-memory tag data model shared by the
// public mp3tag package and the internal codec/container/placement
// packages. It lives separately from mp3tag so those internal packages can
// depend on the data shapes without importing the package that depends on
// them, avoiding an import cycle.
package tagmodel

// TargetType identifies the target level a Tag is attached to. The library
// recognizes exactly one level today.
type TargetType int

// TargetAlbum is the only target level ID3v2 tags are attached to,
// matching the original MP3TAG_TARGET_ALBUM = 50.
const TargetAlbum TargetType = 50

// SimpleTag is a single name/value atom. Exactly one of Value or Binary
// should be set; Language is meaningful only for a SimpleTag named COMMENT.
type SimpleTag struct {
	Name     string
	Value    string
	Binary   []byte
	Language string
	Nested   []*SimpleTag
}

// IsBinary reports whether st carries binary data rather than text.
func (st *SimpleTag) IsBinary() bool { return st.Binary != nil }

// Tag groups SimpleTags under a TargetType and carries the auxiliary uid
// arrays the builder API exposes but ID3v2 does not persist.
type Tag struct {
	Target      TargetType
	Simple      []*SimpleTag
	TrackUIDs   []uint64
	EditionUIDs []uint64
	ChapterUIDs []uint64
	Attachments []uint64
}

// AddSimple appends a new text SimpleTag to t and returns it for further
// configuration (SetLanguage, AddNested).
func (t *Tag) AddSimple(name, value string) *SimpleTag {
	st := &SimpleTag{Name: name, Value: value}
	t.Simple = append(t.Simple, st)
	return st
}

// AddNested appends a nested SimpleTag under parent. Nested tags are a
// reserved shape: the codec never serializes them.
func (parent *SimpleTag) AddNested(name, value string) *SimpleTag {
	child := &SimpleTag{Name: name, Value: value}
	parent.Nested = append(parent.Nested, child)
	return child
}

// SetLanguage sets the 3-letter language code used when st is serialized as
// a COMM frame.
func (st *SimpleTag) SetLanguage(lang string) { st.Language = lang }

// AddTrackUID appends uid to t's track uid array.
func (t *Tag) AddTrackUID(uid uint64) { t.TrackUIDs = append(t.TrackUIDs, uid) }

// Collection is an ordered sequence of Tags.
type Collection struct {
	Tags []*Tag
}

// NewCollection returns an empty Collection, the Go analog of
// mp3tag_collection_create.
func NewCollection() *Collection {
	return &Collection{}
}

// AddTag appends a new Tag under target and returns it.
func (c *Collection) AddTag(target TargetType) *Tag {
	t := &Tag{Target: target}
	c.Tags = append(c.Tags, t)
	return t
}

// Len returns the number of Tags in the collection.
func (c *Collection) Len() int { return len(c.Tags) }

// FindString scans all SimpleTags across all Tags, case-insensitively by
// name, and returns the first match.
func (c *Collection) FindString(name string) (string, bool) {
	for _, tag := range c.Tags {
		for _, st := range tag.Simple {
			if st.IsBinary() {
				continue
			}
			if equalFoldASCII(st.Name, name) {
				return st.Value, true
			}
		}
	}
	return "", false
}

// WithoutName returns a new Collection containing every SimpleTag from c
// whose name does not case-equal name, preserving Tag/target structure. It
// is the basis for SetTagString/RemoveTag's read-modify-write.
func (c *Collection) WithoutName(name string) *Collection {
	out := NewCollection()
	for _, tag := range c.Tags {
		nt := out.AddTag(tag.Target)
		nt.TrackUIDs = append([]uint64(nil), tag.TrackUIDs...)
		for _, st := range tag.Simple {
			if equalFoldASCII(st.Name, name) {
				continue
			}
			nt.Simple = append(nt.Simple, st)
		}
	}
	return out
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
