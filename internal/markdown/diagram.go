package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// diagramRenderer renders fenced code blocks. Blocks in a diagram language
// become <pre class="diagram diagram-LANG"> holding the escaped source so a
// client-side script can draw them; all others render as regular code.
type diagramRenderer struct {
	languages map[string]bool
}

func newDiagramRenderer(langs []string) *diagramRenderer {
	r := &diagramRenderer{languages: make(map[string]bool, len(langs))}
	for _, l := range langs {
		r.languages[strings.ToLower(l)] = true
	}
	return r
}

func (r *diagramRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *diagramRenderer) renderFencedCodeBlock(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := strings.ToLower(string(n.Language(src)))
	diagram := r.languages[lang]

	switch {
	case diagram:
		_, _ = w.WriteString(`<pre class="diagram diagram-` + lang + `">`)
	case lang != "":
		_, _ = w.WriteString(`<pre><code class="language-`)
		_, _ = w.Write(util.EscapeHTML([]byte(lang)))
		_, _ = w.WriteString(`">`)
	default:
		_, _ = w.WriteString("<pre><code>")
	}

	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(src)))
	}

	if diagram {
		_, _ = w.WriteString("</pre>\n")
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}
