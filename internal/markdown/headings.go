package markdown

import (
	"regexp"
	"strings"

	"github.com/sanzoku-labs/linkcheck/internal/util/sets"
)

// Heading is one markdown heading line paired with its canonical anchor slug.
type Heading struct {
	Raw    string // The heading line, surrounding whitespace trimmed
	Anchor string // Canonical slug the rendered site addresses it by
}

var (
	headingPrefixRe = regexp.MustCompile(`^#+\s*`)
	codeSpanRe      = regexp.MustCompile("`([^`]+)`")
	bracketCharRe   = regexp.MustCompile(`[<>(){}\[\]]`)
	nonAlnumRunRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// ExtractHeadings returns every heading line in content, in file order.
// A heading is any line beginning with '#' once surrounding whitespace is
// trimmed. Fenced code blocks are not tracked: a '#' line inside a fence
// registers like any other heading.
func ExtractHeadings(content []byte) []Heading {
	var headings []Heading
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		headings = append(headings, Heading{Raw: line, Anchor: Slugify(line)})
	}
	return headings
}

// Slugify converts a heading line to its canonical anchor form: strip the
// leading '#' run and its trailing whitespace, unwrap inline code spans
// keeping their inner text, drop bracket characters, lowercase, collapse
// every run of non-alphanumerics to a single hyphen, and trim hyphens at
// both ends. The result contains only [a-z0-9-].
func Slugify(heading string) string {
	clean := headingPrefixRe.ReplaceAllString(heading, "")
	clean = codeSpanRe.ReplaceAllString(clean, "$1")
	clean = bracketCharRe.ReplaceAllString(clean, "")
	anchor := strings.ToLower(strings.TrimSpace(clean))
	anchor = nonAlnumRunRe.ReplaceAllString(anchor, "-")
	return strings.Trim(anchor, "-")
}

// HeadingSlugs returns the set of anchor slugs content defines. Headings
// whose slugs collide collapse into a single membership entry; anchor
// resolution only asks whether a slug exists, never how many headings
// produced it.
func HeadingSlugs(content []byte) sets.Set[string] {
	slugs := sets.New[string]()
	for _, h := range ExtractHeadings(content) {
		slugs.Add(h.Anchor)
	}
	return slugs
}
