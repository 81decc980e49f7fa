package cosense

import (
	"slices"
	"strings"

	"github.com/starford/cosense-mcp/internal/models"
)

// lastLineAnchor inserts at the end of the page.
const lastLineAnchor = "_end"

// Change is one entry of a commit's change list.
type Change struct {
	Insert       string   `json:"_insert,omitempty"`
	Update       string   `json:"_update,omitempty"`
	Delete       string   `json:"_delete,omitempty"`
	Lines        any      `json:"lines,omitempty"`
	Title        string   `json:"title,omitempty"`
	TitleLc      string   `json:"titleLc,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
	Deleted      bool     `json:"deleted,omitempty"`
}

type insertedLine struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type updatedLine struct {
	Text string `json:"text"`
}

// diffLines turns the edit from old to next into line changes. Runs of removed and
// added lines are paired into in-place updates first so line ids survive edits.
func diffLines(old []models.Line, next []string, newID func() string) []Change {
	n, m := len(old), len(next)

	// lcs[i][j] is the length of the longest common subsequence of old[i:] and next[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if old[i].Text == next[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var changes []Change
	i, j := 0, 0
	for i < n || j < m {
		if i < n && j < m && old[i].Text == next[j] {
			i++
			j++
			continue
		}

		var dels, adds []int
		for (i < n || j < m) && !(i < n && j < m && old[i].Text == next[j]) {
			if j < m && (i == n || lcs[i][j+1] >= lcs[i+1][j]) {
				adds = append(adds, j)
				j++
			} else {
				dels = append(dels, i)
				i++
			}
		}

		paired := min(len(dels), len(adds))
		for k := 0; k < paired; k++ {
			changes = append(changes, Change{
				Update: old[dels[k]].ID,
				Lines:  updatedLine{Text: next[adds[k]]},
			})
		}
		for _, d := range dels[paired:] {
			changes = append(changes, Change{Delete: old[d].ID, Lines: -1})
		}
		anchor := lastLineAnchor
		if i < n {
			anchor = old[i].ID
		}
		for _, a := range adds[paired:] {
			changes = append(changes, Change{
				Insert: anchor,
				Lines:  insertedLine{ID: newID(), Text: next[a]},
			})
		}
	}
	return changes
}

// makeChanges builds the full change list for replacing page's lines with next,
// including the title and description metadata the remote keeps per page.
func makeChanges(page *models.Page, next []string, newID func() string) []Change {
	changes := diffLines(page.Lines, next, newID)

	if len(next) > 0 && (next[0] != page.Title || !page.Persistent) {
		changes = append(changes, Change{Title: next[0], TitleLc: titleLc(next[0])})
	}

	oldDesc := descriptions(page.Texts())
	newDesc := descriptions(next)
	if len(newDesc) > 0 && (!slices.Equal(oldDesc, newDesc) || !page.Persistent) {
		changes = append(changes, Change{Descriptions: newDesc})
	}
	return changes
}

// descriptions are the first five body lines.
func descriptions(lines []string) []string {
	if len(lines) <= 1 {
		return []string{}
	}
	end := min(len(lines), 6)
	return append([]string{}, lines[1:end]...)
}

func titleLc(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}
