package ucmlint

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/layout"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/testutil"
)

const (
	testCard    = "sof-rt5682"
	testProject = "brya"
	testDir     = "overlay-brya/chromeos-base/chromeos-bsp-brya/files/brya/audio/ucm-config/sof-rt5682"
)

func cleanHiFi() testutil.Doc {
	return testutil.HiFi(
		testutil.VerbOnly().WithEnable(`cdev "hw:sofrt5682"`),
		testutil.Device("Speaker", `PlaybackPCM "hw:sofrt5682,0"`),
		testutil.Device("Headphone",
			`PlaybackPCM "hw:sofrt5682,0"`,
			`JackDev "sof-rt5682 Headset Jack"`,
			`JackSwitch "2"`,
		),
		testutil.Device("Internal Mic", `CapturePCM "hw:sofrt5682,1"`),
	)
}

// ucmFS returns a filesystem holding a well-formed UCM directory at dir.
func ucmFS(dir string, hifi []byte) fstest.MapFS {
	return fstest.MapFS{
		dir + "/" + filepath.Base(dir) + ".conf": {Data: []byte(layout.ExpectedCardConf(testProject))},
		dir + "/HiFi.conf":                      {Data: hifi},
	}
}

func TestLintDirClean(t *testing.T) {
	fsys := ucmFS(testDir, cleanHiFi().Bytes())

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys))
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestLintDirMissingFiles(t *testing.T) {
	fsys := fstest.MapFS{
		testDir + "/README": {Data: []byte("notes\n")},
	}

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys))
	require.NoError(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, diag.CodeMissingFile, diags[0].Code)
	assert.Equal(t, testDir+"/sof-rt5682.conf", diags[0].Path)
	assert.Equal(t, "Missing "+testDir+"/sof-rt5682.conf", diags[0].Message)
	assert.Equal(t, diag.CodeMissingFile, diags[1].Code)
	assert.Equal(t, testDir+"/HiFi.conf", diags[1].Path)
	assert.Zero(t, diags[1].Line)
}

func TestLintDirNotADirectory(t *testing.T) {
	fsys := ucmFS(testDir, cleanHiFi().Bytes())

	_, err := LintDir(context.Background(), testDir+"/HiFi.conf", WithFS(fsys))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	_, err = LintDir(context.Background(), "nowhere", WithFS(fsys))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLintDirSyntaxError(t *testing.T) {
	fsys := ucmFS(testDir, []byte("# header\nSectionVerb {\n\tValue {\n"))

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeSyntaxError, diags[0].Code)
	assert.Equal(t, testDir+"/HiFi.conf", diags[0].Path)
	assert.Equal(t, 3, diags[0].Line)
	assert.Contains(t, diags[0].Message, "end of file")
}

func TestLintDirCardConfMismatch(t *testing.T) {
	fsys := ucmFS(testDir, cleanHiFi().Bytes())
	fsys[testDir+"/sof-rt5682.conf"] = &fstest.MapFile{Data: []byte(layout.ExpectedCardConf("volteer"))}

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeCardConfContent, diags[0].Code)
	assert.Contains(t, diags[0].Message, `-Comment "Volteer internal card"`)
	assert.Contains(t, diags[0].Message, `+Comment "Brya internal card"`)
}

func TestLintDirSuffix(t *testing.T) {
	dir := testDir + ".mono"
	fsys := ucmFS(dir, cleanHiFi().Bytes())

	diags, err := LintDir(context.Background(), dir, WithFS(fsys))
	require.NoError(t, err)
	assert.Empty(t, diags, "suffix is not part of the card name")
}

func TestLintDirBadLayout(t *testing.T) {
	dir := "boards/brya/ucm/sof-rt5682"
	fsys := ucmFS(dir, cleanHiFi().Bytes())

	diags, err := LintDir(context.Background(), dir, WithFS(fsys))
	require.NoError(t, err)

	codes := testutil.Codes(diags)
	assert.Contains(t, codes, diag.CodePathName)
	assert.Contains(t, codes, diag.CodePathPrefix)
	assert.NotContains(t, codes, diag.CodeMissingFile)
}

func TestLintDirFSRelativePath(t *testing.T) {
	dir := "files/proj/audio/ucm-config/sof-rt5682"
	fsys := fstest.MapFS{
		dir + "/sof-rt5682.conf": {Data: []byte(layout.ExpectedCardConf("proj"))},
		dir + "/HiFi.conf":       {Data: cleanHiFi().Bytes()},
	}

	diags, err := LintDir(context.Background(), dir, WithFS(fsys))
	require.NoError(t, err)

	type finding struct{ Path, Code, Message string }
	var got []finding
	for _, d := range diags {
		got = append(got, finding{d.Path, d.Code, d.Message})
	}
	assert.Equal(t, []finding{
		{".", diag.CodePathPrefix, "`.` should have prefix `chromeos-bsp-`"},
		{".", diag.CodePathName, "`.` should be named as `chromeos-base`"},
		{".", diag.CodePathPrefix, "`.` should have prefix `overlay-`"},
	}, got, "the project comes from the fs path, not the working directory")
}

func TestWithCardName(t *testing.T) {
	fsys := ucmFS(testDir, cleanHiFi().Bytes())

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys), WithCardName("other"))
	require.NoError(t, err)

	codes := testutil.Codes(diags)
	assert.Contains(t, codes, diag.CodeSequenceCdev)
	assert.Contains(t, codes, diag.CodePCMPrefix)
	assert.Contains(t, codes, diag.CodeJackDevPrefix)
}

func TestWithConfig(t *testing.T) {
	fsys := ucmFS(testDir, []byte(testutil.HiFi(
		testutil.VerbOnly(),
		testutil.Device("Speaker", `PlaybackPCM "hw:sofrt5682,0"`, `PlaybackChannels "4"`),
	).String()))

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys))
	require.NoError(t, err)
	assert.Equal(t, []string{diag.CodePlaybackChannels}, testutil.Codes(diags))

	diags, err = LintDir(context.Background(), testDir, WithFS(fsys),
		WithConfig(diag.Config{Ignore: []string{"playback-*"}}))
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestWithSink(t *testing.T) {
	fsys := ucmFS(testDir, testutil.HiFi(testutil.VerbOnly(), testutil.Device("Goose")).Bytes())

	var streamed []diag.Diagnostic
	sink := diag.SinkFunc(func(d diag.Diagnostic) { streamed = append(streamed, d) })

	diags, err := LintDir(context.Background(), testDir, WithFS(fsys), WithSink(sink))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diags, streamed)
	assert.Equal(t, diag.CodeDeviceName, streamed[0].Code)
}

func TestWithLogger(t *testing.T) {
	fsys := ucmFS(testDir, cleanHiFi().Bytes())

	var buf bytes.Buffer
	logger := newTestLogger(&buf, LevelTrace)

	_, err := LintDir(context.Background(), testDir, WithFS(fsys), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "component=layout")
	assert.Contains(t, buf.String(), "component=lint")
}

func TestLintDirs(t *testing.T) {
	dirA := testDir
	dirB := "overlay-nissa/chromeos-base/chromeos-bsp-nissa/files/craask/audio/ucm-config/sof-rt5682"
	fsys := ucmFS(dirA, testutil.HiFi(testutil.VerbOnly(), testutil.Device("Goose")).Bytes())
	fsys[dirB+"/sof-rt5682.conf"] = &fstest.MapFile{Data: []byte(layout.ExpectedCardConf("craask"))}
	fsys[dirB+"/HiFi.conf"] = &fstest.MapFile{Data: testutil.HiFi(testutil.VerbOnly(), testutil.Device("Speaker")).Bytes()}

	for _, n := range []int{1, 2, 8} {
		diags, err := LintDirs(context.Background(), []string{dirB, dirA}, WithFS(fsys), WithConcurrency(n))
		require.NoError(t, err)
		require.Len(t, diags, 2)
		assert.Equal(t, diag.CodePCMMissing, diags[0].Code, "first directory first")
		assert.Equal(t, dirB+"/HiFi.conf", diags[0].Path)
		assert.Equal(t, diag.CodeDeviceName, diags[1].Code)
		assert.Equal(t, dirA+"/HiFi.conf", diags[1].Path)
	}
}

func TestLintDirsSharedSink(t *testing.T) {
	fsys := fstest.MapFS{}
	var dirs []string
	for _, board := range []string{"a", "b", "c", "d", "e", "f"} {
		dir := "overlay-" + board + "/chromeos-base/chromeos-bsp-" + board + "/files/p/audio/ucm-config/card0"
		fsys[dir+"/card0.conf"] = &fstest.MapFile{Data: []byte(layout.ExpectedCardConf("p"))}
		fsys[dir+"/HiFi.conf"] = &fstest.MapFile{Data: testutil.HiFi(testutil.VerbOnly(), testutil.Device("Goose")).Bytes()}
		dirs = append(dirs, dir)
	}

	// Not safe for concurrent use on its own.
	var streamed []diag.Diagnostic
	sink := diag.SinkFunc(func(d diag.Diagnostic) { streamed = append(streamed, d) })

	diags, err := LintDirs(context.Background(), dirs, WithFS(fsys), WithSink(sink), WithConcurrency(4))
	require.NoError(t, err)
	assert.Len(t, diags, len(dirs))
	assert.ElementsMatch(t, diags, streamed)
}

func TestLintDirsErrors(t *testing.T) {
	_, err := LintDirs(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoDirectories)

	fsys := ucmFS(testDir, cleanHiFi().Bytes())
	_, err = LintDirs(context.Background(), []string{testDir, "missing"}, WithFS(fsys))
	require.ErrorIs(t, err, fs.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LintDirs(ctx, []string{testDir}, WithFS(fsys))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLintFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "HiFi.conf")
	hifi := testutil.HiFi(
		testutil.VerbOnly().WithEnable(`cdev "hw:card0"`),
		testutil.Device("Goose"),
	)
	require.NoError(t, os.WriteFile(path, hifi.Bytes(), 0o644))

	diags, err := LintFile(context.Background(), path, "card0")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Diagnostic{
		Path:    path,
		Line:    14,
		Code:    diag.CodeDeviceName,
		Message: "invalid device name `Goose`",
	}, diags[0])

	diags, err = LintFile(context.Background(), path, "card1")
	require.NoError(t, err)
	assert.Equal(t, []string{diag.CodeSequenceCdev, diag.CodeDeviceName}, testutil.Codes(diags))

	_, err = LintFile(context.Background(), filepath.Join(dir, "missing.conf"), "card0")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLintFileSyntaxError(t *testing.T) {
	fsys := fstest.MapFS{"HiFi.conf": {Data: []byte("SectionVerb {\n\tValue {\n\t\tFullySpecifiedUCM \"1\"\n\t]\n")}}

	diags, err := LintFile(context.Background(), "HiFi.conf", "card0", WithFS(fsys))
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeSyntaxError, diags[0].Code)
	assert.Equal(t, 4, diags[0].Line)
}

func TestParseDocument(t *testing.T) {
	col := diag.NewCollector()
	doc, err := ParseDocument(testutil.HiFi(testutil.Section{
		Value: []string{"FullySpecifiedUCM 1"},
	}).Bytes(), "HiFi.conf", WithSink(col))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Devices)
	assert.Equal(t, []string{diag.CodeValueQuoting}, testutil.Codes(col.Diagnostics()))
	assert.Equal(t, Unparsable, doc.Verb.Value.Items[0].Value)

	_, err = ParseDocument([]byte("SectionDevice.\"x\".0 {\n"), "HiFi.conf")
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Line)
	assert.Equal(t, "HiFi.conf", serr.Path)
}

func TestLintDocument(t *testing.T) {
	doc, err := ParseDocument(testutil.HiFi(
		testutil.VerbOnly(),
		testutil.Device("Headphone", `PlaybackPCM "hw:card0,0"`),
	).Bytes(), "HiFi.conf")
	require.NoError(t, err)

	col := diag.NewCollector()
	LintDocument(doc, "card0", col)
	assert.Equal(t, []string{diag.CodeJackDevMissing}, testutil.Codes(col.Diagnostics()))

	var sections int
	Walk(doc, func(n Node) bool {
		if _, ok := n.(*Section); ok {
			sections++
		}
		return true
	})
	assert.Equal(t, 2, sections)
}

func TestExports(t *testing.T) {
	assert.Equal(t, "sofrt5682", CardID(testCard))

	typ, ok := ClassifyDevice("HDMI2")
	assert.True(t, ok)
	assert.Equal(t, HDMI, typ)

	info := Inspect(testDir, nil)
	assert.Equal(t, testCard, info.CardName)
	assert.Equal(t, testProject, info.Project)
	assert.Equal(t, "brya", info.Board)
}

func TestFSPath(t *testing.T) {
	tests := map[string]string{
		"":          ".",
		".":         ".",
		"/":         ".",
		"a/b":       "a/b",
		"/a/b/":     "a/b",
		"./a/../b":  "b",
		"a//b/HiFi": "a/b/HiFi",
	}
	for in, want := range tests {
		assert.Equal(t, want, fsPath(in), "fsPath(%q)", in)
	}
}

var errSentinel = errors.New("boom")

func TestFirstError(t *testing.T) {
	assert.NoError(t, firstError([]error{nil, nil}))
	assert.ErrorIs(t, firstError([]error{context.Canceled, errSentinel}), errSentinel)
	assert.ErrorIs(t, firstError([]error{nil, context.Canceled}), context.Canceled)
}
