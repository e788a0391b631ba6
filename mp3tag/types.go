package mp3tag

import "github.com/morganp/mp3tag/internal/tagmodel"

// These aliases re-export the shared tag data model so callers never need
// to import the internal package directly, while internal/id3v2 and
// internal/id3v1 can operate on the same concrete types without importing
// this package (which imports them).

type (
	// TargetType identifies the target level a Tag is attached to.
	TargetType = tagmodel.TargetType

	// SimpleTag is a single name/value atom.
	SimpleTag = tagmodel.SimpleTag

	// Tag groups SimpleTags under a TargetType.
	Tag = tagmodel.Tag

	// Collection is an ordered sequence of Tags.
	Collection = tagmodel.Collection
)

// TargetAlbum is the only target level ID3v2 tags are attached to.
const TargetAlbum = tagmodel.TargetAlbum

// NewCollection returns an empty Collection, for use with the builder API
// ahead of a WriteTags call.
func NewCollection() *Collection {
	return tagmodel.NewCollection()
}
