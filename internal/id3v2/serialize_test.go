package id3v2

import (
	"testing"

	"github.com/morganp/mp3tag/internal/tagmodel"
)

func TestSerializeCollectionRoundtrip(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.AddSimple("TITLE", "Test Title")
	tag.AddSimple("ARTIST", "Test Artist")
	tag.AddSimple("TRACK_NUMBER", "7")
	comment := tag.AddSimple("COMMENT", "a remark")
	comment.SetLanguage("eng")

	body := SerializeCollection(c)
	frames := ReadFrames(body, 4, nil)
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4", len(frames))
	}

	got, err := FramesToCollection(frames)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []struct{ name, value string }{
		{"TITLE", "Test Title"},
		{"ARTIST", "Test Artist"},
		{"TRACK_NUMBER", "7"},
		{"COMMENT", "a remark"},
	} {
		v, ok := got.FindString(want.name)
		if !ok || v != want.value {
			t.Errorf("%s = %q, %v, want %q, true", want.name, v, ok, want.value)
		}
	}
}

func TestSerializeUnknownNameUsesTXXX(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.AddSimple("MOOD", "Happy")

	body := SerializeCollection(c)
	frames := ReadFrames(body, 4, nil)
	if len(frames) != 1 || frames[0].ID != "TXXX" {
		t.Fatalf("expected a single TXXX frame, got %v", frames)
	}

	got, err := FramesToCollection(frames)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := got.FindString("MOOD"); !ok || v != "Happy" {
		t.Errorf("MOOD = %q, %v, want Happy, true", v, ok)
	}
}

func TestSerializeNameThatIsItselfAFrameID(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.AddSimple("TSSE", "a custom encoder string")

	body := SerializeCollection(c)
	frames := ReadFrames(body, 4, nil)
	if len(frames) != 1 || frames[0].ID != "TSSE" {
		t.Fatalf("expected TSSE emitted directly, got %v", frames)
	}
}

func TestSerializeBinaryWithFrameIDName(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.Simple = append(tag.Simple, &tagmodel.SimpleTag{Name: "APIC", Binary: []byte{1, 2, 3}})

	body := SerializeCollection(c)
	frames := ReadFrames(body, 4, nil)
	if len(frames) != 1 || frames[0].ID != "APIC" {
		t.Fatalf("expected APIC frame, got %v", frames)
	}
	if string(frames[0].Data) != "\x01\x02\x03" {
		t.Errorf("binary payload mismatch: %v", frames[0].Data)
	}
}

func TestSerializeBinaryWithNonFrameIDNameIsDropped(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.Simple = append(tag.Simple, &tagmodel.SimpleTag{Name: "NOT_A_FRAME_ID", Binary: []byte{1, 2, 3}})

	body := SerializeCollection(c)
	if len(body) != 0 {
		t.Errorf("expected binary tag with non-frame-id name to be dropped, got %d bytes", len(body))
	}
}

func TestSerializeCommentDefaultLanguage(t *testing.T) {
	c := tagmodel.NewCollection()
	tag := c.AddTag(tagmodel.TargetAlbum)
	tag.AddSimple("COMMENT", "no language set")

	body := SerializeCollection(c)
	frames := ReadFrames(body, 4, nil)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	lang := string(frames[0].Data[1:4])
	if lang != "und" {
		t.Errorf("default language = %q, want und", lang)
	}
}
