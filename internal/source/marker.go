package source

import (
	"strconv"
	"strings"
)

// Marker references the origin of a model element in its source text.
// Line and Column are 1-based; zero means unknown and is rendered as "0".
type Marker struct {
	Location string `json:"location" yaml:"location"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
}

// Position renders "line:column".
func (m Marker) Position() string {
	return strconv.Itoa(m.Line) + ":" + strconv.Itoa(m.Column)
}

// String renders the raw "location line:column" label.
func (m Marker) String() string {
	return m.Location + " " + m.Position()
}

// Label renders the raw marker fields, the fallback shown when no Link is available.
func Label(m *Marker) string {
	if m == nil {
		return ""
	}
	return m.String()
}

// Link is a resolved, displayable reference to a marker's origin.
type Link struct {
	Location string `json:"location"`
	Text     string `json:"text"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
