package checksum

import "testing"

func TestLinesEmpty(t *testing.T) {
	// SHA-256 of the empty input.
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Lines(nil); got != empty {
		t.Errorf("Lines(nil) = %s", got)
	}
}

func TestLines(t *testing.T) {
	a := Lines([]string{"Title", "body"})
	if a != Lines([]string{"Title", "body"}) {
		t.Error("digest is not deterministic")
	}
	if a == Lines([]string{"Title", "body", ""}) {
		t.Error("trailing empty line not reflected")
	}
	if Lines([]string{"a\nb"}) == Lines([]string{"a", "b"}) {
		t.Error("line boundaries not reflected")
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
}
