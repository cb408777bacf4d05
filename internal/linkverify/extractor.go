// Package linkverify extracts link destinations from emitted HTML so the
// build can check that internal references point at files it actually
// wrote.
package linkverify

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// Link is one extracted destination.
type Link struct {
	URL        string // raw attribute value
	Tag        string // a, img, link or script
	Attribute  string // href or src
	IsInternal bool
}

// ExtractFromReader parses HTML and collects every link-bearing attribute.
// baseURL marks absolute links into the own site as internal; empty means
// every absolute URL is external.
func ExtractFromReader(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var base *url.URL
	if baseURL != "" {
		if b, err := url.Parse(baseURL); err == nil {
			base = b
		}
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if tag, attr, ok := linkAttribute(n.Data); ok {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{
						URL:        v,
						Tag:        tag,
						Attribute:  attr,
						IsInternal: isInternal(v, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func linkAttribute(tag string) (string, string, bool) {
	switch tag {
	case "a", "link":
		return tag, "href", true
	case "img", "script":
		return tag, "src", true
	}
	return "", "", false
}

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func isInternal(raw string, base *url.URL) bool {
	if strings.HasPrefix(raw, "//") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return base != nil && u.Host == base.Host
}

// TargetPath reduces an internal href to the output-relative file path it
// references. The second result is false for fragment-only links, external
// destinations and templated values that cannot name a file.
func TargetPath(href, prefix string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	if strings.HasPrefix(href, "//") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		return "", false
	}
	if prefix != "" && prefix != "/" {
		p = strings.TrimPrefix(p, strings.TrimSuffix(prefix, "/"))
	}
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", false
	}
	return path.Clean(p), true
}
