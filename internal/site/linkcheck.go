package site

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/errors"
)

// Link is a reference found in a generated page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
}

// CheckLinks parses the written pages and reports, as warnings, relative
// links whose target file does not exist in dir.
func CheckLinks(dir string, pages []*Page) *diagnostic.Diagnostic {
	diag := diagnostic.New(diagnostic.StatusOK, "Check links")
	for _, p := range pages {
		if p.External() {
			continue
		}
		file := filepath.Join(dir, filepath.FromSlash(p.Path))
		links, err := ExtractLinks(file)
		if err != nil {
			diag.Warn("Cannot check links of "+p.Path+": "+err.Error(), p.Marker)
			continue
		}
		seen := make(map[string]bool)
		for _, l := range links {
			target, ok := localTarget(file, l.URL)
			if !ok || seen[l.URL] {
				continue
			}
			seen[l.URL] = true
			if _, err := os.Stat(target); err != nil {
				diag.Warn(fmt.Sprintf("Broken link '%s' in %s", l.URL, p.Path), p.Marker)
			}
		}
	}
	return diag
}

// ExtractLinks extracts link references from an HTML file.
func ExtractLinks(htmlPath string) ([]Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").WithContext("html_path", htmlPath).Build()
	}
	defer func() {
		_ = file.Close()
	}()
	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts link references from HTML.
func ExtractLinksFromReader(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	var links []Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr := linkAttribute(n.Data); attr != "" {
				if v := getAttr(n, attr); v != "" {
					links = append(links, Link{URL: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return links, nil
}

func linkAttribute(tag string) string {
	switch tag {
	case "a", "link":
		return "href"
	case "img", "script", "source", "video", "audio":
		return "src"
	}
	return ""
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// localTarget maps a relative link in the page file to a filesystem path.
// Absolute URLs, scheme links and pure fragments are not local.
func localTarget(pageFile, link string) (string, bool) {
	if strings.HasPrefix(link, "#") {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return filepath.Join(filepath.Dir(pageFile), filepath.FromSlash(u.Path)), true
}
