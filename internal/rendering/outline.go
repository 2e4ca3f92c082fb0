package rendering

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// outlineSelector matches every element that carries a visible line of resume text.
const outlineSelector = "h1, .contact, h2, .entry, .placeholder, li"

// Lines extracts the text outline of the rendered document in document order.
// Bold runs are written as **text** and whitespace is collapsed.
func (d *Document) Lines() ([]string, error) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(d.HTML))
	if err != nil {
		return nil, &RenderError{Message: "failed to parse rendered document", Cause: err}
	}

	preview := gq.Find("#resume-preview")
	if preview.Length() == 0 {
		return nil, &RenderError{Message: "rendered document has no preview region"}
	}

	var lines []string
	preview.Find(outlineSelector).Each(func(_ int, s *goquery.Selection) {
		var sb strings.Builder
		for _, n := range s.Nodes {
			writeText(&sb, n)
		}
		if line := strings.Join(strings.Fields(sb.String()), " "); line != "" {
			lines = append(lines, line)
		}
	})
	return lines, nil
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "b" || n.Data == "strong" {
			sb.WriteString("**")
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				writeText(sb, c)
			}
			sb.WriteString("**")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}
