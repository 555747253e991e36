package markdown

import (
	"regexp"
	"strings"
)

// Link is one inline markdown link occurrence: [Text](Destination).
type Link struct {
	Text        string
	Destination string
}

var inlineLinkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)

// linkPrefixes are the shapes a real docs link target starts with. Targets
// carrying one of these bypass the code-snippet heuristics in ExtractLinks.
var linkPrefixes = []string{"http://", "https://", "/", "#", "./"}

// ExtractLinks returns every [text](destination) pair in content, in file
// order, duplicates retained. Documentation prose quotes a lot of source
// code, so two heuristics drop candidates that are code rather than links:
//   - a destination containing ", " without a recognized link prefix is
//     treated as a function parameter list, e.g. service[method](url, config)
//   - a destination containing none of '/', '#', '.', no "http" substring
//     and no space is treated as a bare identifier, e.g. array[index](value)
//
// A candidate directly preceded or followed by a backtick sits inside an
// inline code span and is skipped.
func ExtractLinks(content []byte) []Link {
	matches := inlineLinkRe.FindAllSubmatchIndex(content, -1)
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && content[start-1] == '`' {
			continue
		}
		if end < len(content) && content[end] == '`' {
			continue
		}

		text := string(content[m[2]:m[3]])
		dest := string(content[m[4]:m[5]])

		if strings.Contains(dest, ", ") && !hasLinkPrefix(dest) {
			continue
		}
		if !strings.ContainsAny(dest, "/#.") &&
			!strings.Contains(dest, "http") &&
			!strings.Contains(dest, " ") {
			continue
		}

		links = append(links, Link{Text: text, Destination: dest})
	}
	return links
}

func hasLinkPrefix(dest string) bool {
	for _, p := range linkPrefixes {
		if strings.HasPrefix(dest, p) {
			return true
		}
	}
	return false
}
