package diagnostic

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterWarningRun(t *testing.T) {
	root := New(StatusOK, "Run")
	root.Warn("Element has no name", nil)
	root.AddChild(StatusOK, "Wrote 4 pages", nil)

	var buf bytes.Buffer
	r := &Reporter{Out: &buf, Indent: DefaultIndent}
	require.NoError(t, r.Report(root, nil))

	want := "***********************\n" +
		"*      Diagnostic     *\n" +
		"***********************\n" +
		"WARNING Run\n" +
		"    WARNING Element has no name\n"
	assert.Equal(t, want, buf.String())
}

func TestReporterErrorRunStillSucceeds(t *testing.T) {
	root := New(StatusOK, "Run")
	root.Err("Duplicate id alice", nil)

	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	assert.NoError(t, r.Report(root, nil))
	assert.Contains(t, buf.String(), "*      Diagnostic     *")
	assert.Contains(t, buf.String(), "    ERROR Duplicate id alice\n")
}

func TestReporterOKRunIsSilent(t *testing.T) {
	root := New(StatusOK, "Run")
	root.AddChild(StatusOK, "Wrote 4 pages", nil)

	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	require.NoError(t, r.Report(root, nil))
	require.NoError(t, r.Report(nil, nil))
	assert.Empty(t, buf.String())
}

func TestReporterAbortedRun(t *testing.T) {
	root := New(StatusOK, "Run")
	root.Warn("Element has no name", nil)
	runErr := fmt.Errorf("generate: %w", Fail(root, "cannot write index.html", assert.AnError))

	var buf bytes.Buffer
	r := &Reporter{Out: &buf, Indent: 4}
	err := r.Report(nil, runErr)
	require.Error(t, err)
	assert.Same(t, runErr, err)

	want := "******************************\n" +
		"*      Diagnostic failed     *\n" +
		"******************************\n" +
		"FAIL Run\n" +
		"    FAIL cannot write index.html: " + assert.AnError.Error() + "\n"
	assert.Equal(t, want, buf.String())
}

func TestReporterOtherErrorsPassThrough(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	err := r.Report(nil, assert.AnError)
	assert.Same(t, assert.AnError, err)
	assert.Empty(t, buf.String())
}

func TestReporterAbortedRunNestedTree(t *testing.T) {
	gen := New(StatusOK, "Generate site")
	gen.Warn("Broken link", nil)
	de := Fail(gen, "Cannot write pages", assert.AnError)

	root := New(StatusOK, "Run")
	root.Add(gen)
	err := de.WithRoot(root)
	assert.ErrorIs(t, err, assert.AnError)

	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	require.Error(t, r.Report(nil, err))

	want := failedBanner + "\n" +
		"FAIL Run\n" +
		"    FAIL Generate site\n" +
		"        FAIL Cannot write pages: " + assert.AnError.Error() + "\n"
	assert.Equal(t, want, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("stderr closed") }

func TestReporterIgnoresWriteFailures(t *testing.T) {
	r := &Reporter{Out: failingWriter{}}

	warned := New(StatusOK, "Run")
	warned.Warn("Element has no name", nil)
	assert.NoError(t, r.Report(warned, nil))

	failed := New(StatusOK, "Run")
	runErr := Fail(failed, "Cannot write pages", fmt.Errorf("disk full"))
	assert.Same(t, runErr, r.Report(failed, runErr))
}
