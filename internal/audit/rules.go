// Package audit checks rendered storefront pages for accessibility
// problems by walking the parsed HTML tree.
package audit

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Impact ranks how badly a violation hurts assistive technology users.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
)

// Rule is one check applied to a whole document.
type Rule struct {
	ID          string
	Description string
	Impact      Impact
	HelpURL     string
	check       func(doc *html.Node, report func(n *html.Node, msg string))
}

// Rules are applied in this order.
var Rules = []Rule{
	{
		ID:          "image-alt",
		Description: "Images must have alternative text",
		Impact:      ImpactCritical,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/image-alt",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			walk(doc, func(n *html.Node) {
				if n.DataAtom != atom.Img {
					return
				}
				if _, ok := attr(n, "alt"); !ok && attrValue(n, "role") != "presentation" {
					report(n, "img is missing an alt attribute")
				}
			})
		},
	},
	{
		ID:          "button-name",
		Description: "Buttons must have accessible names",
		Impact:      ImpactCritical,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/button-name",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			walk(doc, func(n *html.Node) {
				if n.DataAtom == atom.Button && !hasAccessibleName(n) {
					report(n, "button has no text, aria-label or aria-labelledby")
				}
			})
		},
	},
	{
		ID:          "page-has-heading-one",
		Description: "Pages must have exactly one level-one heading",
		Impact:      ImpactSerious,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/page-has-heading-one",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			var h1s []*html.Node
			walk(doc, func(n *html.Node) {
				if n.DataAtom == atom.H1 {
					h1s = append(h1s, n)
				}
			})
			switch {
			case len(h1s) == 0:
				report(doc, "page has no h1")
			case len(h1s) > 1:
				for _, n := range h1s[1:] {
					report(n, "page has more than one h1")
				}
			}
		},
	},
	{
		ID:          "landmark-nav-label",
		Description: "Navigation landmarks must be labelled",
		Impact:      ImpactModerate,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/landmark-unique",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			walk(doc, func(n *html.Node) {
				if n.DataAtom != atom.Nav {
					return
				}
				if strings.TrimSpace(attrValue(n, "aria-label")) == "" && attrValue(n, "aria-labelledby") == "" {
					report(n, "nav has no aria-label")
				}
			})
		},
	},
	{
		ID:          "pagination-current",
		Description: "Pagination must mark the current page",
		Impact:      ImpactSerious,
		HelpURL:     "https://www.w3.org/TR/wai-aria-1.2/#aria-current",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			walk(doc, func(n *html.Node) {
				if n.DataAtom != atom.Nav || !strings.EqualFold(attrValue(n, "aria-label"), "pagination") {
					return
				}
				current := 0
				walk(n, func(c *html.Node) {
					if attrValue(c, "aria-current") == "page" {
						current++
					}
				})
				if current != 1 {
					report(n, "pagination must mark exactly one link aria-current=\"page\"")
				}
			})
		},
	},
	{
		ID:          "html-has-lang",
		Description: "The html element must have a lang attribute",
		Impact:      ImpactSerious,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/html-has-lang",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			walk(doc, func(n *html.Node) {
				if n.DataAtom == atom.Html && strings.TrimSpace(attrValue(n, "lang")) == "" {
					report(n, "html element has no lang")
				}
			})
		},
	},
	{
		ID:          "document-title",
		Description: "Documents must have a non-empty title",
		Impact:      ImpactSerious,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/document-title",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			found := false
			walk(doc, func(n *html.Node) {
				if n.DataAtom == atom.Title && strings.TrimSpace(textContent(n)) != "" {
					found = true
				}
			})
			if !found {
				report(doc, "document has no title")
			}
		},
	},
	{
		ID:          "label",
		Description: "Form inputs must have labels",
		Impact:      ImpactCritical,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/label",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			labelled := make(map[string]bool)
			walk(doc, func(n *html.Node) {
				if n.DataAtom == atom.Label {
					if id := attrValue(n, "for"); id != "" {
						labelled[id] = true
					}
				}
			})
			walk(doc, func(n *html.Node) {
				if n.DataAtom != atom.Input || attrValue(n, "type") == "hidden" {
					return
				}
				if attrValue(n, "aria-label") != "" || labelled[attrValue(n, "id")] || insideLabel(n) {
					return
				}
				report(n, "input has no associated label")
			})
		},
	},
	{
		ID:          "duplicate-id",
		Description: "Element ids must be unique",
		Impact:      ImpactModerate,
		HelpURL:     "https://dequeuniversity.com/rules/axe/4.4/duplicate-id",
		check: func(doc *html.Node, report func(*html.Node, string)) {
			seen := make(map[string]bool)
			walk(doc, func(n *html.Node) {
				id := attrValue(n, "id")
				if id == "" {
					return
				}
				if seen[id] {
					report(n, "id "+id+" is used more than once")
				}
				seen[id] = true
			})
		},
	},
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrValue(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			b.WriteString(attrValue(n, "alt"))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

func hasAccessibleName(n *html.Node) bool {
	return strings.TrimSpace(textContent(n)) != "" ||
		strings.TrimSpace(attrValue(n, "aria-label")) != "" ||
		attrValue(n, "aria-labelledby") != "" ||
		strings.TrimSpace(attrValue(n, "title")) != ""
}

func insideLabel(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.DataAtom == atom.Label {
			return true
		}
	}
	return false
}

// describe renders a short selector-like name such as button#close.cta.
func describe(n *html.Node) string {
	if n.Type == html.DocumentNode {
		return "document"
	}
	s := n.Data
	if id := attrValue(n, "id"); id != "" {
		s += "#" + id
	}
	if class := strings.Fields(attrValue(n, "class")); len(class) > 0 {
		s += "." + class[0]
	}
	if label := attrValue(n, "aria-label"); label != "" {
		s += `[aria-label="` + label + `"]`
	}
	return s
}
