package source

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/modelsite/internal/foundation"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(t *testing.T, base string) *LinkResolver {
	t.Helper()
	r, err := NewLinkResolver(base, WithLogger(quietLogger()))
	require.NoError(t, err)
	return r
}

func TestLinkResolverScenarios(t *testing.T) {
	skipOnWindows(t)
	r := newTestResolver(t, "/repo")

	t.Run("known prefix", func(t *testing.T) {
		link, ok := r.Resolve(&Marker{
			Location: "file:/repo/engineering-demo/target/test-classes/demo.yml",
			Line:     12,
			Column:   3,
		}).Get()
		require.True(t, ok)
		assert.Equal(t, "https://github.com/Nasdanika/engineering-demo/blob/main/src/test/resources/demo.yml#L12", link.Location)
		assert.Equal(t, "src/test/resources/demo.yml 12:3", link.Text)
	})

	t.Run("other location", func(t *testing.T) {
		link, ok := r.Resolve(&Marker{Location: "file:/repo/other/place.yml", Line: 5, Column: 1}).Get()
		require.True(t, ok)
		assert.Equal(t, "file:/repo/other/place.yml", link.Location)
		assert.Equal(t, "other/place.yml 5:1", link.Text)
	})
}

func TestLinkResolverAbsent(t *testing.T) {
	r := newTestResolver(t, t.TempDir())
	cases := map[string]*Marker{
		"nil":         nil,
		"empty":       {Line: 1, Column: 1},
		"blank":       {Location: "  \t", Line: 1, Column: 1},
		"unparseable": {Location: "file:/%zz", Line: 1, Column: 1},
		"not a file":  {Location: "https://example.com/demo.yml", Line: 1, Column: 1},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			assert.True(t, r.Resolve(m).IsNone())
		})
	}
}

func TestLinkResolverRealFiles(t *testing.T) {
	base := t.TempDir()
	resources := filepath.Join(base, "engineering-demo", "target", "test-classes")
	require.NoError(t, os.MkdirAll(resources, 0o755))
	model := filepath.Join(resources, "demo.yml")
	require.NoError(t, os.WriteFile(model, []byte("name: demo\n"), 0o644))

	r := newTestResolver(t, base)
	m := &Marker{Location: FileURI(model), Line: 4, Column: 2}

	link := r.Resolve(m).Unwrap()
	assert.Equal(t, DefaultPublicBaseURL+"demo.yml#L4", link.Location)
	assert.Equal(t, "src/test/resources/demo.yml 4:2", link.Text)
	assert.Regexp(t, ` 4:2$`, link.Text)
}

func TestLinkResolverIdempotent(t *testing.T) {
	skipOnWindows(t)
	r := newTestResolver(t, "/repo")
	m := &Marker{Location: "file:/repo/a/b.yml", Line: 7, Column: 8}
	assert.Equal(t, r.Resolve(m), r.Resolve(m))
}

func TestLinkResolverConcurrent(t *testing.T) {
	skipOnWindows(t)
	r := newTestResolver(t, "/repo")
	want := r.Resolve(&Marker{Location: "file:/repo/engineering-demo/target/test-classes/demo.yml", Line: 1, Column: 1})

	var wg sync.WaitGroup
	results := make([]foundation.Option[Link], 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Resolve(&Marker{Location: "file:/repo/engineering-demo/target/test-classes/demo.yml", Line: 1, Column: 1})
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestLinkResolverCustomPrefixes(t *testing.T) {
	skipOnWindows(t)
	r, err := NewLinkResolver("/work", WithLogger(quietLogger()), WithPrefixes(Prefixes{
		Known:         "models/",
		PublicBaseURL: "https://git.example.org/team/models/src/branch/main/",
		Local:         "models/",
	}))
	require.NoError(t, err)
	link := r.Resolve(&Marker{Location: "file:/work/models/site.yml", Line: 3, Column: 1}).Unwrap()
	assert.Equal(t, "https://git.example.org/team/models/src/branch/main/site.yml#L3", link.Location)
	assert.Equal(t, "models/site.yml 3:1", link.Text)
	assert.Equal(t, "/work", r.BaseDir())
}

func TestResolverFuncAndNoLinks(t *testing.T) {
	called := false
	var r Resolver = ResolverFunc(func(m *Marker) foundation.Option[Link] {
		called = true
		return foundation.Some(Link{Location: m.Location, Text: "x"})
	})
	assert.True(t, r.Resolve(&Marker{Location: "file:/a"}).IsSome())
	assert.True(t, called)
	assert.True(t, NoLinks.Resolve(&Marker{Location: "file:/a"}).IsNone())
}
