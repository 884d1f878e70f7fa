package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/modelsite/internal/config"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

const (
	siteYAML = `text: Engineering Demo
content: Welcome.
children:
  - id: guide
    text: Guide
`
	modelYAML = `name: Demo
elements:
  - id: alice
    type: Engineer
    name: Alice
    references: [platform]
  - id: platform
    type: Product
    name: Platform
`
	warningsYAML = `name: Warnings
elements:
  - id: bob
    references: [nobody]
`
)

type project struct {
	dir    string
	config string
}

func newProject(t *testing.T, model string, extra string) project {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yml"), []byte(siteYAML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yml"), []byte(model), 0o600))
	cfg := "site: site.yml\nmodels: [model.yml]\noutput:\n  directory: out\n" + extra
	path := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return project{dir: dir, config: path}
}

func testGlobal() (*Global, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Global{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Out:    &out,
		Err:    &errOut,
	}, &out, &errOut
}

func TestGenerateCommand(t *testing.T) {
	p := newProject(t, modelYAML, "")
	global, _, errOut := testGlobal()

	cmd := &GenerateCmd{}
	require.NoError(t, cmd.Run(global, &CLI{Config: p.config}))

	for _, page := range []string{"index.html", "guide.html", "model/index.html", "model/alice.html", "model/platform.html"} {
		assert.FileExists(t, filepath.Join(p.dir, "out", page))
	}
	assert.Empty(t, errOut.String(), "a clean run prints no diagnostic")
}

func TestGenerateCommandFlagsOverrideConfig(t *testing.T) {
	p := newProject(t, modelYAML, "")
	global, _, _ := testGlobal()
	out := filepath.Join(t.TempDir(), "site")

	cmd := &GenerateCmd{InputFlags: InputFlags{Output: out, Workers: 1, NoLinkCheck: true}}
	require.NoError(t, cmd.Run(global, &CLI{Config: p.config}))

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.NoDirExists(t, filepath.Join(p.dir, "out"))
}

func TestGenerateCommandReportsWarnings(t *testing.T) {
	p := newProject(t, warningsYAML, "")
	global, _, errOut := testGlobal()

	require.NoError(t, (&GenerateCmd{}).Run(global, &CLI{Config: p.config}))

	assert.Contains(t, errOut.String(), "*      Diagnostic     *")
	assert.Contains(t, errOut.String(), "WARNING")
}

func TestGenerateCommandAbortsOnBrokenModel(t *testing.T) {
	p := newProject(t, "name: [unterminated\n", "")
	global, _, errOut := testGlobal()

	err := (&GenerateCmd{}).Run(global, &CLI{Config: p.config})
	require.Error(t, err)

	assert.Contains(t, errOut.String(), "*      Diagnostic failed     *")
	assert.True(t, errors.HasCategory(err, errors.CategoryModel))
	assert.Equal(t, 9, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.NoDirExists(t, filepath.Join(p.dir, "out"))
}

func TestGenerateCommandWritesMetricsTextfile(t *testing.T) {
	p := newProject(t, modelYAML, "metrics:\n  textfile: metrics.prom\n")
	global, _, _ := testGlobal()

	require.NoError(t, (&GenerateCmd{}).Run(global, &CLI{Config: p.config}))

	data, err := os.ReadFile(filepath.Join(p.dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "modelsite_pages_written_total 5")
}

func TestGenerateCommandMissingExplicitConfig(t *testing.T) {
	global, _, _ := testGlobal()

	err := (&GenerateCmd{}).Run(global, &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestGenerateCommandRequiresSite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("models: [model.yml]\n"), 0o600))
	global, _, _ := testGlobal()

	err := (&GenerateCmd{}).Run(global, &CLI{Config: path})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  ResolveCmd
		want string
	}{
		{
			name: "known prefix",
			cmd: ResolveCmd{
				Location: "file:/repo/engineering-demo/target/test-classes/demo.yml",
				Line:     4,
				Column:   5,
				BaseDir:  "/repo",
			},
			want: "https://github.com/Nasdanika/engineering-demo/blob/main/src/test/resources/demo.yml#L4\n" +
				"src/test/resources/demo.yml 4:5\n",
		},
		{
			name: "other location keeps raw marker location",
			cmd: ResolveCmd{
				Location: "file:/repo/models/other.yml",
				Line:     2,
				BaseDir:  "/repo",
			},
			want: "file:/repo/models/other.yml\nmodels/other.yml 2:0\n",
		},
		{
			name: "path argument",
			cmd:  ResolveCmd{Location: "/repo/models/other.yml", Line: 1, Column: 1, BaseDir: "/repo"},
			want: "file:/repo/models/other.yml\nmodels/other.yml 1:1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			global, out, _ := testGlobal()
			require.NoError(t, tt.cmd.Run(global, &CLI{Config: config.DefaultFile}))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestResolveCommandRelativePath(t *testing.T) {
	dir := t.TempDir()
	rel := filepath.Join("engineering-demo", "target", "test-classes", "demo.yml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte("name: Demo\n"), 0o600))
	t.Chdir(dir)

	global, out, _ := testGlobal()
	cmd := &ResolveCmd{Location: rel, Line: 3, Column: 1, BaseDir: dir}
	require.NoError(t, cmd.Run(global, &CLI{Config: config.DefaultFile}))

	assert.Equal(t, "https://github.com/Nasdanika/engineering-demo/blob/main/src/test/resources/demo.yml#L3\n"+
		"src/test/resources/demo.yml 3:1\n", out.String())
}

func TestMarkerLocation(t *testing.T) {
	abs, err := filepath.Abs("models/demo.yml")
	require.NoError(t, err)

	tests := []struct {
		arg  string
		want string
	}{
		{"file:/repo/demo.yml", "file:/repo/demo.yml"},
		{"https://example.com/demo.yml", "https://example.com/demo.yml"},
		{"models/demo.yml", source.FileURI(abs)},
	}
	for _, tt := range tests {
		got, err := markerLocation(tt.arg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.arg)
	}
}

func TestResolveCommandNoLink(t *testing.T) {
	global, out, _ := testGlobal()
	cmd := &ResolveCmd{Location: "https://example.com/model.yml", BaseDir: "/repo"}

	err := cmd.Run(global, &CLI{Config: config.DefaultFile})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategorySource))
	assert.Empty(t, out.String())
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	global, out, _ := testGlobal()

	require.NoError(t, (&InitCmd{}).Run(global, &CLI{Config: path}))
	assert.Contains(t, out.String(), "initialized successfully")

	cfg, err := config.Read(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDocURI, cfg.DocURI)

	err = (&InitCmd{}).Run(global, &CLI{Config: path})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Initialization failed")

	require.NoError(t, (&InitCmd{Force: true}).Run(global, &CLI{Config: path}))
}

func TestInputFlagsApply(t *testing.T) {
	cfg := config.Default()
	InputFlags{
		Site:        "site.yml",
		Models:      []string{"a.yml", "b.yml"},
		Output:      "public",
		Clean:       true,
		Workers:     2,
		NoLinkCheck: true,
		BaseDir:     "/repo",
	}.apply(cfg)

	assert.Equal(t, "site.yml", cfg.Site)
	assert.Equal(t, []string{"a.yml", "b.yml"}, cfg.Models)
	assert.Equal(t, "public", cfg.Output.Directory)
	assert.True(t, cfg.Output.Clean)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.False(t, cfg.Render.LinkCheck())
	assert.Equal(t, "/repo", cfg.Source.BaseDir)
}
