package mp3tag

// The builder API is the in-process tag collection constructor: build a
// Collection by hand (rather than reading one from a file) ahead of a
// WriteTags call. NewCollection, Collection.AddTag, Tag.AddSimple,
// SimpleTag.AddNested, SimpleTag.SetLanguage and Tag.AddTrackUID are all
// plain ordered-slice appends defined on the aliased types in types.go; this
// file exists to document the builder surface as a unit, matching how the
// source groups it as one API area distinct from the read/write path.
