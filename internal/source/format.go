package source

import (
	"strconv"
	"strings"
)

const (
	// DefaultKnownPrefix is the build-output segment that mirrors the public test resources.
	DefaultKnownPrefix = "engineering-demo/target/test-classes/"
	// DefaultPublicBaseURL is where DefaultKnownPrefix is published.
	DefaultPublicBaseURL = "https://github.com/Nasdanika/engineering-demo/blob/main/src/test/resources/"
	// DefaultLocalPrefix replaces DefaultKnownPrefix in link labels.
	DefaultLocalPrefix = "src/test/resources/"
)

// Prefixes controls how relative paths are rewritten into public links.
type Prefixes struct {
	Known         string `yaml:"known_prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
	Local         string `yaml:"local_prefix"`
}

// DefaultPrefixes returns the engineering demo prefixes.
func DefaultPrefixes() Prefixes {
	return Prefixes{
		Known:         DefaultKnownPrefix,
		PublicBaseURL: DefaultPublicBaseURL,
		Local:         DefaultLocalPrefix,
	}
}

// Format builds the Link for a normalized relative path.
//
// Paths under p.Known become a public URL anchored at the marker line, labelled
// with p.Local. Any other path keeps the marker's original, un-normalized
// location while the label shows the relative path.
func Format(rel string, m Marker, p Prefixes) Link {
	if p.Known != "" && strings.HasPrefix(rel, p.Known) {
		suffix := rel[len(p.Known):]
		return Link{
			Location: p.PublicBaseURL + suffix + "#L" + strconv.Itoa(m.Line),
			Text:     p.Local + suffix + " " + m.Position(),
		}
	}
	return Link{
		Location: m.Location,
		Text:     rel + " " + m.Position(),
	}
}
