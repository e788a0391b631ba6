package id3v2

import "testing"

func TestSyncsafeRoundtrip(t *testing.T) {
	cases := []uint32{0, 1, 0x7f, 0x80, 0xff, 0x3fff, 0x4000, 0xfffffff}
	for _, n := range cases {
		enc := EncodeSyncsafe(n)
		for i, b := range enc {
			if b&0x80 != 0 {
				t.Fatalf("EncodeSyncsafe(0x%x) byte %d has high bit set: 0x%02x", n, i, b)
			}
		}
		if got := Syncsafe(enc); got != n {
			t.Errorf("Syncsafe(EncodeSyncsafe(0x%x)) = 0x%x, want 0x%x", n, got, n)
		}
	}
}

func TestSyncsafeRoundtripExhaustiveSample(t *testing.T) {
	// Cover every power-of-two boundary within the 28-bit range rather
	// than all 2^28 values.
	for shift := uint(0); shift < 28; shift++ {
		n := uint32(1) << shift
		if got := Syncsafe(EncodeSyncsafe(n)); got != n {
			t.Errorf("roundtrip failed for 1<<%d: got 0x%x", shift, got)
		}
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	var buf [HeaderSize]byte
	copy(buf[:], "XD3\x04\x00\x00\x00\x00\x00\x00")
	if _, err := ParseHeader(buf); err == nil {
		t.Fatal("expected error for bad magic, got nil")
	}
}

func TestParseHeaderRejectsUnsupportedVersion(t *testing.T) {
	var buf [HeaderSize]byte
	copy(buf[:], "ID3\x02\x00\x00\x00\x00\x00\x00")
	if _, err := ParseHeader(buf); err == nil {
		t.Fatal("expected error for major version 2, got nil")
	}
}

func TestParseHeaderRejectsHighBitInSize(t *testing.T) {
	var buf [HeaderSize]byte
	copy(buf[:], "ID3\x04\x00\x00")
	buf[6] = 0x80
	if _, err := ParseHeader(buf); err == nil {
		t.Fatal("expected error for high bit set in syncsafe size byte, got nil")
	}
}

func TestHeaderBuildParseIdempotence(t *testing.T) {
	for _, size := range []uint32{0, 14, 4096, 1<<28 - 1} {
		hdr := BuildHeader(size)
		h, err := ParseHeader(hdr)
		if err != nil {
			t.Fatalf("ParseHeader(BuildHeader(%d)): %v", size, err)
		}
		if h.Major != 4 {
			t.Errorf("BuildHeader major = %d, want 4", h.Major)
		}
		if h.TagSize != size {
			t.Errorf("TagSize = %d, want %d", h.TagSize, size)
		}
	}
}

func TestSkipExtendedHeaderNoFlag(t *testing.T) {
	body := []byte("TIT2")
	out, err := SkipExtendedHeader(body, 4, 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "TIT2" {
		t.Errorf("expected body unchanged, got %q", out)
	}
}

func TestSkipExtendedHeaderV4Syncsafe(t *testing.T) {
	ext := EncodeSyncsafe(10)
	body := append(append([]byte{}, ext[:]...), make([]byte, 6)...)
	body = append(body, []byte("TAIL")...)
	out, err := SkipExtendedHeader(body, 4, flagExtendedHeader)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "TAIL" {
		t.Errorf("got %q, want TAIL", out)
	}
}

func TestSkipExtendedHeaderV3BigEndianExcludesSelf(t *testing.T) {
	// v2.3 extended header size is big-endian and excludes its own 4
	// bytes, so a declared size of 6 plus the 4-byte field itself skips
	// 10 bytes total.
	body := []byte{0, 0, 0, 6, 0, 0, 0, 0, 0, 0}
	body = append(body, []byte("TAIL")...)
	out, err := SkipExtendedHeader(body, 3, flagExtendedHeader)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "TAIL" {
		t.Errorf("got %q, want TAIL", out)
	}
}
