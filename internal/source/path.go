package source

import (
	stderrors "errors"
	"io/fs"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/errors"
)

// LocationPath parses location as a hierarchical file URI and returns the local
// filesystem path it references. Relative references, other schemes, opaque
// URIs, remote hosts, queries and fragments are rejected.
func LocationPath(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", errors.WrapError(err, errors.CategorySource, "location is not a valid URI").
			WithContext("location", location).Build()
	}
	var reason string
	switch {
	case !strings.EqualFold(u.Scheme, "file"):
		reason = "location is not a file URI"
	case u.Opaque != "":
		reason = "location URI is not hierarchical"
	case u.Host != "" && u.Host != "localhost":
		reason = "location URI has a remote authority"
	case u.RawQuery != "" || u.ForceQuery:
		reason = "location URI has a query component"
	case u.Fragment != "":
		reason = "location URI has a fragment component"
	case u.Path == "":
		reason = "location URI has an empty path"
	}
	if reason != "" {
		return "", errors.SourceError(reason).WithContext("location", location).Build()
	}
	p := u.Path
	if runtime.GOOS == "windows" && len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// CanonicalPath returns the absolute, cleaned form of path with symbolic links
// resolved. The path does not have to exist: links are resolved on the longest
// existing ancestor and the remaining segments are appended unchanged.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WrapError(err, errors.CategorySource, "cannot make path absolute").
			WithPath(path).Build()
	}
	dir, rest := abs, ""
	for {
		real, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(real, rest), nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.WrapError(err, errors.CategorySource, "cannot canonicalize path").
				WithPath(path).Build()
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// FileURI converts an absolute filesystem path into a "file:/..." URI.
func FileURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, OmitHost: true}
	return u.String()
}

// Deresolve computes target relative to the directory baseDir using the longest
// common prefix of their segments. The result may ascend with "../" segments
// and keeps a trailing slash of target. When the two paths share no root
// (different volumes) the absolute file URI of target is returned. A target
// equal to baseDir yields ".".
func Deresolve(target, baseDir string) string {
	if !strings.EqualFold(filepath.VolumeName(target), filepath.VolumeName(baseDir)) {
		return FileURI(target)
	}
	t := filepath.ToSlash(target[len(filepath.VolumeName(target)):])
	b := filepath.ToSlash(baseDir[len(filepath.VolumeName(baseDir)):])
	trailing := len(t) > 1 && strings.HasSuffix(t, "/")

	ts, bs := segments(t), segments(b)
	k := 0
	for k < len(ts) && k < len(bs) && ts[k] == bs[k] {
		k++
	}

	parts := make([]string, 0, len(bs)-k+len(ts)-k)
	for range len(bs) - k {
		parts = append(parts, "..")
	}
	parts = append(parts, ts[k:]...)

	rel := strings.Join(parts, "/")
	if rel == "" {
		rel = "."
	}
	if trailing {
		rel += "/"
	}
	u := url.URL{Path: rel}
	return u.EscapedPath()
}

func segments(p string) []string {
	raw := strings.Split(p, "/")
	out := raw[:0]
	for _, s := range raw {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

// Normalize turns a marker location into a path relative to baseDir, which
// must already be canonical. Canonicalization drops a trailing slash of the
// location, so Deresolve never sees one here.
func Normalize(location, baseDir string) (string, error) {
	p, err := LocationPath(location)
	if err != nil {
		return "", err
	}
	canonical, err := CanonicalPath(p)
	if err != nil {
		return "", err
	}
	return Deresolve(canonical, baseDir), nil
}
