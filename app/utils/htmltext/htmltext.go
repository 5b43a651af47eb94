// Package htmltext pulls plain text out of scraped product description markup.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the text content of fragment with tags treated as word
// breaks and whitespace collapsed.
func Text(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseSpaces(fragment)
	}
	return selectionText(doc.Selection)
}

// ListItems returns the text of every <li> element in document order,
// skipping empty ones.
func ListItems(fragment string) []string {
	items := []string{}
	if strings.TrimSpace(fragment) == "" {
		return items
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return items
	}
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := selectionText(li); text != "" {
			items = append(items, text)
		}
	})
	return items
}

// CollapseSpaces replaces whitespace runs with one space and trims the ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func selectionText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return CollapseSpaces(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
