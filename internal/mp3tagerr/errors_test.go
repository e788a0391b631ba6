package mp3tagerr

import "testing"

func TestCodeStringKnownAndUnknown(t *testing.T) {
	if s := NotMP3.String(); s == "unknown error" {
		t.Error("NotMP3 should have a specific string")
	}
	unknown := Code(-999)
	if s := unknown.String(); s != "unknown error" {
		t.Errorf("unmapped code String() = %q, want %q", s, "unknown error")
	}
}

func TestCodeSatisfiesError(t *testing.T) {
	var err error = Corrupt
	if err.Error() != Corrupt.String() {
		t.Errorf("Error() = %q, want %q", err.Error(), Corrupt.String())
	}
}

func TestNewAndCauseRoundtrip(t *testing.T) {
	err := New(BadID3v2)
	code, ok := Cause(err)
	if !ok || code != BadID3v2 {
		t.Errorf("Cause(New(BadID3v2)) = %v, %v, want BadID3v2, true", code, ok)
	}
}

func TestCauseOnPlainError(t *testing.T) {
	if _, ok := Cause(errPlain{}); ok {
		t.Error("Cause should report false for an error with no wrapped Code")
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "plain" }
