package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var codeClass = regexp.MustCompile(`^(language-[\w+#.-]+|diagram diagram-[a-z]+)$`)

func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(codeClass).OnElements("code", "pre")
	return policy
}
