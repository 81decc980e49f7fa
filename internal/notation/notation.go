// Package notation extracts page links and hashtags from Scrapbox-notation text.
package notation

import (
	"regexp"
	"strings"
)

var (
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	strongRe     = regexp.MustCompile(`\[\[[^\[\]]*\]\]`)
	bracketRe    = regexp.MustCompile(`\[([^\[\]]+)\]`)
	hashtagRe    = regexp.MustCompile(`(?:^|\s)#([^\s\[\]#]+)`)
	decorationRe = regexp.MustCompile(`^[*\-/!"#%&'()~|+<>{},._]+\s`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	iconRe       = regexp.MustCompile(`^(.+)\.icon(?:\*\d+)?$`)
)

// Result holds the page references found in a body.
type Result struct {
	Links []string
	Tags  []string
}

// All returns links followed by tags, without duplicates.
func (r *Result) All() []string {
	seen := make(map[string]struct{}, len(r.Links)+len(r.Tags))
	out := make([]string, 0, len(r.Links)+len(r.Tags))
	for _, s := range append(append([]string{}, r.Links...), r.Tags...) {
		k := Key(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Key normalizes a page title the way the server compares titles.
func Key(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "_"))
}

// Scan extracts links and hashtags from lines. Code blocks and inline code are
// skipped.
func Scan(lines []string) *Result {
	r := &Result{Links: []string{}, Tags: []string{}}
	links := make(map[string]struct{})
	tags := make(map[string]struct{})

	codeIndent := -1
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		trimmed := strings.TrimSpace(line)

		if codeIndent >= 0 {
			if indent > codeIndent && trimmed != "" {
				continue
			}
			codeIndent = -1
		}
		if strings.HasPrefix(trimmed, "code:") {
			codeIndent = indent
			continue
		}

		text := inlineCodeRe.ReplaceAllString(line, "")
		text = strongRe.ReplaceAllString(text, "")

		for _, m := range bracketRe.FindAllStringSubmatch(text, -1) {
			if target, ok := linkTarget(m[1]); ok {
				add(&r.Links, links, target)
			}
		}
		for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
			add(&r.Tags, tags, m[1])
		}
	}
	return r
}

// ScanText is Scan over a newline-separated body.
func ScanText(body string) *Result {
	return Scan(strings.Split(body, "\n"))
}

// linkTarget classifies the inside of a bracket. Decorations, math, external URLs
// and cross-project links are not page links; icons link to the icon page.
func linkTarget(inner string) (string, bool) {
	switch {
	case strings.TrimSpace(inner) == "":
		return "", false
	case decorationRe.MatchString(inner):
		return "", false
	case strings.HasPrefix(inner, "$ "), strings.HasPrefix(inner, "/"):
		return "", false
	case urlRe.MatchString(inner):
		return "", false
	}
	if m := iconRe.FindStringSubmatch(inner); m != nil {
		return m[1], true
	}
	return strings.TrimSpace(inner), true
}

func add(dst *[]string, seen map[string]struct{}, title string) {
	k := Key(title)
	if _, ok := seen[k]; ok {
		return
	}
	seen[k] = struct{}{}
	*dst = append(*dst, title)
}
