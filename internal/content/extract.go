// Package content pulls short job descriptions out of platform HTML.
//
// Board markup is company-specific and changes without notice, so there is
// no single canonical selector. Extraction is an ordered list of strategies
// tried most-specific first; the first one that yields text wins.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MaxBlocks caps how many text blocks make it into a stored description.
const MaxBlocks = 3

// blockTags are the elements collected as description blocks, in document
// order.
const blockTags = "p, li, h1, h2, h3, h4, h5, h6"

// A Strategy names one container selector to try.
type Strategy struct {
	Name     string
	Selector string
}

// GenericStrategies is the shared fallback chain for detail pages whose
// primary container is missing. Ordered from specific to generic.
var GenericStrategies = []Strategy{
	{"content", ".content"},
	{"job-description", ".job-description"},
	{"description-attr", `[class*="description"]`},
	{"posting-content", ".posting-content"},
	{"job-content", ".job-content"},
	{"description", ".description"},
	{"content-div", `div[class*="content"]`},
	{"description-div", `div[class*="description"]`},
	{"main-content", ".main-content"},
	{"section-content", ".section-content"},
	{"job-details", ".job-details"},
}

// ExtractDescription runs the strategy chain over an HTML document and
// returns up to MaxBlocks newline-joined text blocks, or "".
func ExtractDescription(htmlDoc string, strategies []Strategy) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return ""
	}
	return ExtractFromDoc(doc, strategies)
}

// ExtractFromDoc is ExtractDescription over an already-parsed document.
func ExtractFromDoc(doc *goquery.Document, strategies []Strategy) string {
	for _, st := range strategies {
		sel := doc.Find(st.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		if text := blocksFrom(sel); text != "" {
			return text
		}
	}

	// Last resort: any div whose class mentions content or description.
	var text string
	doc.Find("div[class]").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		class, _ := div.Attr("class")
		lower := strings.ToLower(class)
		if !strings.Contains(lower, "content") && !strings.Contains(lower, "description") {
			return true
		}
		text = blocksFrom(div)
		return text == ""
	})
	return text
}

// FirstBlocks collects up to MaxBlocks blocks from a bare HTML fragment,
// such as the descriptionHtml field of a GraphQL posting or the content
// field of a JSON detail response.
func FirstBlocks(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	blocks := collectBlocks(doc.Selection, MaxBlocks)
	return strings.Join(blocks, "\n")
}

// blocksFrom returns the joined blocks of a container, falling back to the
// container's flattened text when it has no block children at all.
func blocksFrom(sel *goquery.Selection) string {
	blocks := collectBlocks(sel, MaxBlocks)
	if len(blocks) > 0 {
		return strings.Join(blocks, "\n")
	}
	if raw, err := goquery.OuterHtml(sel); err == nil {
		return Flatten(raw)
	}
	return ""
}

func collectBlocks(sel *goquery.Selection, n int) []string {
	var blocks []string
	sel.Find(blockTags).EachWithBreak(func(_ int, tag *goquery.Selection) bool {
		if text := cleanText(tag.Text()); text != "" {
			blocks = append(blocks, text)
		}
		return len(blocks) < n
	})
	return blocks
}

// Flatten parses an HTML fragment and returns its whitespace-collapsed
// text content.
func Flatten(fragment string) string {
	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return cleanText(sb.String())
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
