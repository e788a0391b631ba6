package mp3tag

import "testing"

func TestBuilderAPI(t *testing.T) {
	c := NewCollection()
	tag := c.AddTag(TargetAlbum)
	simple := tag.AddSimple("TITLE", "A Song")
	simple.SetLanguage("eng")
	simple.AddNested("PART", "one")
	tag.AddTrackUID(1234)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	v, ok := c.FindString("TITLE")
	if !ok || v != "A Song" {
		t.Errorf("FindString(TITLE) = %q, %v, want %q, true", v, ok, "A Song")
	}
	if len(tag.TrackUIDs) != 1 || tag.TrackUIDs[0] != 1234 {
		t.Errorf("TrackUIDs = %v, want [1234]", tag.TrackUIDs)
	}
	if len(simple.Nested) != 1 || simple.Nested[0].Name != "PART" {
		t.Errorf("expected a nested PART tag, got %+v", simple.Nested)
	}
}

func TestStrErrorAndCause(t *testing.T) {
	if StrError(NotMP3) == "" {
		t.Error("StrError(NotMP3) should not be empty")
	}
	if Cause(nil) != OK {
		t.Errorf("Cause(nil) = %v, want OK", Cause(nil))
	}
}

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version() should not be empty")
	}
}
