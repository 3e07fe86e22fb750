package crawler

import (
	"bytes"
	"net/url"

	"golang.org/x/net/html"
)

// ExtractLinks parses HTML and returns the outbound references a
// crawler should follow: anchor hrefs, form actions and script srcs,
// resolved against base. Order follows document order, duplicates
// removed.
func ExtractLinks(body []byte, base *url.URL) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	seen := map[string]bool{}
	add := func(ref string) {
		resolved := resolveRef(ref, base)
		if resolved != "" && !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				add(attr(n, "href"))
			case "form":
				add(attr(n, "action"))
			case "script", "iframe", "frame":
				add(attr(n, "src"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// resolveRef resolves a raw href against the page URL, dropping
// non-navigable schemes.
func resolveRef(ref string, base *url.URL) string {
	if ref == "" || ref == "#" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "", "http", "https":
	default:
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	u.Fragment = ""
	return u.String()
}
