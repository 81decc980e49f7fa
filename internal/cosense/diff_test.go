package cosense

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/starford/cosense-mcp/internal/models"
)

func linesOf(texts ...string) []models.Line {
	out := make([]models.Line, len(texts))
	for i, t := range texts {
		out[i] = models.Line{ID: fmt.Sprintf("L%d", i), Text: t}
	}
	return out
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("N%d", n)
	}
}

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name string
		old  []string
		next []string
		want []Change
	}{
		{
			name: "identical",
			old:  []string{"T", "a", "b"},
			next: []string{"T", "a", "b"},
			want: nil,
		},
		{
			name: "append",
			old:  []string{"T", "a"},
			next: []string{"T", "a", "b"},
			want: []Change{{Insert: "_end", Lines: insertedLine{ID: "N1", Text: "b"}}},
		},
		{
			name: "insert in the middle anchors on the following line",
			old:  []string{"T", "a", "c"},
			next: []string{"T", "a", "b", "c"},
			want: []Change{{Insert: "L2", Lines: insertedLine{ID: "N1", Text: "b"}}},
		},
		{
			name: "edit keeps the line id",
			old:  []string{"T", "a", "c"},
			next: []string{"T", "b", "c"},
			want: []Change{{Update: "L1", Lines: updatedLine{Text: "b"}}},
		},
		{
			name: "delete",
			old:  []string{"T", "a", "b"},
			next: []string{"T", "b"},
			want: []Change{{Delete: "L1", Lines: -1}},
		},
		{
			name: "replace two lines with three",
			old:  []string{"T", "x", "y"},
			next: []string{"T", "p", "q", "r"},
			want: []Change{
				{Update: "L1", Lines: updatedLine{Text: "p"}},
				{Update: "L2", Lines: updatedLine{Text: "q"}},
				{Insert: "_end", Lines: insertedLine{ID: "N1", Text: "r"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffLines(linesOf(tt.old...), tt.next, seqIDs())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("diffLines =\n %+v\nwant\n %+v", got, tt.want)
			}
		})
	}
}

func TestMakeChangesNewPage(t *testing.T) {
	page := &models.Page{Title: "New", Lines: linesOf("New"), Persistent: false}

	got := makeChanges(page, []string{"New", "first", "second"}, seqIDs())

	want := []Change{
		{Insert: "_end", Lines: insertedLine{ID: "N1", Text: "first"}},
		{Insert: "_end", Lines: insertedLine{ID: "N2", Text: "second"}},
		{Title: "New", TitleLc: "new"},
		{Descriptions: []string{"first", "second"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("makeChanges =\n %+v\nwant\n %+v", got, want)
	}
}

func TestMakeChangesExistingPage(t *testing.T) {
	page := &models.Page{Title: "Old Title", Lines: linesOf("Old Title", "a", "b", "c", "d", "e", "f"), Persistent: true}

	t.Run("body edit past descriptions", func(t *testing.T) {
		next := []string{"Old Title", "a", "b", "c", "d", "e", "changed"}
		got := makeChanges(page, next, seqIDs())
		want := []Change{{Update: "L6", Lines: updatedLine{Text: "changed"}}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("retitle", func(t *testing.T) {
		next := []string{"New Title", "a", "b", "c", "d", "e", "f"}
		got := makeChanges(page, next, seqIDs())
		want := []Change{
			{Update: "L0", Lines: updatedLine{Text: "New Title"}},
			{Title: "New Title", TitleLc: "new_title"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("no change", func(t *testing.T) {
		if got := makeChanges(page, page.Texts(), seqIDs()); len(got) != 0 {
			t.Errorf("expected no changes, got %+v", got)
		}
	})
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"New Page":      "New%20Page",
		"it's (fine)!*": "it's%20(fine)!*",
		"a+b=c&d":       "a%2Bb%3Dc%26d",
		"a/b?c#d":       "a%2Fb%3Fc%23d",
		"日本":            "%E6%97%A5%E6%9C%AC",
		"~-_.":          "~-_.",
	}
	for in, want := range tests {
		if got := EncodeURIComponent(in); got != want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewLineID(t *testing.T) {
	id := newLineID("5ef2bdebb60650001e1280f0", time.Unix(0x5f000000, 0))
	if len(id) != 24 {
		t.Fatalf("len(id) = %d, want 24", len(id))
	}
	if id[:8] != "5f000000" || id[8:14] != "1280f0" || id[14:18] != "0000" {
		t.Errorf("id = %q", id)
	}
}
