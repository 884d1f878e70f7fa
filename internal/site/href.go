package site

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/source"
)

// href returns a reference to target usable from the page at from. Targets
// outside the base URI stay absolute.
func href(from, target *url.URL) string {
	if target.Scheme != from.Scheme || target.Host != from.Host {
		return target.String()
	}
	rel := source.Deresolve(target.Path, path.Dir(from.Path))
	if target.RawQuery != "" {
		rel += "?" + target.RawQuery
	}
	if target.Fragment != "" {
		rel += "#" + target.EscapedFragment()
	}
	return rel
}

// assetHref resolves a template asset, relative to the site root, for the
// page at from.
func (t *tree) assetHref(from *url.URL, asset string) string {
	if !strings.HasPrefix(asset, "//") {
		asset = strings.TrimPrefix(asset, "/")
	}
	ref, err := url.Parse(asset)
	if err != nil {
		return asset
	}
	return href(from, t.base.ResolveReference(ref))
}

// docHref links a model element type to its documentation under docURI.
func docHref(docURI, typeName string) string {
	if docURI == "" || typeName == "" {
		return ""
	}
	if !strings.HasSuffix(docURI, "/") {
		docURI += "/"
	}
	base, err := url.Parse(docURI)
	if err != nil {
		return ""
	}
	ref := &url.URL{Path: strings.ToLower(typeName) + pageExtension}
	return base.ResolveReference(ref).String()
}
