// Package layout validates where a UCM directory sits in a board overlay
// and the content of its card-level configuration file.
//
// A device UCM directory is expected at
//
//	overlay-<board>/chromeos-base/chromeos-bsp-<board>/files/<project>/audio/ucm-config/<card>[.<suffix>]
//
// The card name used by the HiFi.conf rules is inferred from the last path
// component.
package layout

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// Expected directory names and prefixes.
const (
	DirUCMConfig    = "ucm-config"
	DirAudio        = "audio"
	DirFiles        = "files"
	DirChromeOSBase = "chromeos-base"
	PrefixBSP       = "chromeos-bsp-"
	PrefixOverlay   = "overlay-"
)

// Info is what the directory path says about the UCM configuration.
type Info struct {
	Dir      string // directory path as resolved by Paths.Abs
	UCMName  string // last path component, e.g. "sof-rt5682.mono"
	CardName string // UCMName up to the first '.'
	Suffix   string // UCMName after the first '.', empty if none
	Project  string
	Board    string // empty if it cannot be inferred
}

// CardConfName returns the card-level configuration file name,
// "<ucm name>.conf".
func (i Info) CardConfName() string {
	return i.UCMName + ".conf"
}

// Paths resolves and splits directory paths. OSPaths handles host paths;
// other implementations serve slash-separated fs.FS paths.
type Paths interface {
	Abs(p string) string
	Dir(p string) string
	Base(p string) string
}

// OSPaths resolves paths against the working directory with path/filepath.
type OSPaths struct{}

// Abs returns the absolute form of p, or p cleaned if that fails.
func (OSPaths) Abs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func (OSPaths) Dir(p string) string  { return filepath.Dir(p) }
func (OSPaths) Base(p string) string { return filepath.Base(p) }

// Inspect is InspectPaths with OSPaths.
func Inspect(dir string, sink diag.Sink, logger *slog.Logger) Info {
	return InspectPaths(dir, OSPaths{}, sink, logger)
}

// InspectPaths infers Info from dir and reports misnamed path components
// to sink. Findings that do not affect the lint result (missing or
// disagreeing board names) are only logged.
func InspectPaths(dir string, paths Paths, sink diag.Sink, logger *slog.Logger) Info {
	log := types.Logger{L: logger}
	abs := paths.Abs(dir)

	info := Info{Dir: abs, UCMName: paths.Base(abs)}
	info.CardName, info.Suffix, _ = strings.Cut(info.UCMName, ".")
	log.Log(slog.LevelInfo, "assuming card name", slog.String("card", info.CardName))
	log.Log(slog.LevelInfo, "assuming UCM suffix", slog.String("suffix", info.Suffix))

	ucmConfig := paths.Dir(abs)
	audio := paths.Dir(ucmConfig)
	project := paths.Dir(audio)
	files := paths.Dir(project)
	bsp := paths.Dir(files)
	base := paths.Dir(bsp)
	overlay := paths.Dir(base)

	checkExact(paths, ucmConfig, DirUCMConfig, sink)
	checkExact(paths, audio, DirAudio, sink)
	info.Project = paths.Base(project)
	log.Log(slog.LevelInfo, "assuming project", slog.String("project", info.Project))
	checkExact(paths, files, DirFiles, sink)
	board0, ok0 := checkPrefix(paths, bsp, PrefixBSP, sink)
	checkExact(paths, base, DirChromeOSBase, sink)
	board1, ok1 := checkPrefix(paths, overlay, PrefixOverlay, sink)

	switch {
	case !ok0 && !ok1:
		log.Log(slog.LevelWarn, "cannot infer board name")
	case ok0 && ok1 && board0 != board1:
		log.Log(slog.LevelWarn, "disagreeing board names",
			slog.String("bsp", board0),
			slog.String("overlay", board1))
		info.Board = board0
	case ok0:
		info.Board = board0
	default:
		info.Board = board1
	}
	if info.Board != "" {
		log.Log(slog.LevelInfo, "assuming board", slog.String("board", info.Board))
	}
	return info
}

func checkExact(paths Paths, path, name string, sink diag.Sink) {
	if paths.Base(path) != name {
		sink.Add(diag.Diagnostic{
			Path:    path,
			Code:    diag.CodePathName,
			Message: fmt.Sprintf("`%s` should be named as `%s`", path, name),
		})
	}
}

func checkPrefix(paths Paths, path, prefix string, sink diag.Sink) (rest string, ok bool) {
	rest, ok = strings.CutPrefix(paths.Base(path), prefix)
	if !ok {
		sink.Add(diag.Diagnostic{
			Path:    path,
			Code:    diag.CodePathPrefix,
			Message: fmt.Sprintf("`%s` should have prefix `%s`", path, prefix),
		})
	}
	return rest, ok
}

// ExpectedCardConf returns the required content of <ucm name>.conf for
// the project.
func ExpectedCardConf(project string) string {
	return fmt.Sprintf("Comment \"%s internal card\"\n\nSectionUseCase.\"HiFi\" {\n\tFile \"HiFi.conf\"\n\tComment \"Default\"\n}\n",
		capitalize(project))
}

// CheckCardConf compares the card-level configuration against
// ExpectedCardConf and reports a single file-level diagnostic holding a
// unified diff when they differ.
func CheckCardConf(path string, src []byte, project string, sink diag.Sink) {
	actual := string(src)
	expected := ExpectedCardConf(project)
	if actual == expected {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(actual),
		B:        difflib.SplitLines(expected),
		FromFile: "actual",
		ToFile:   "expected",
		Context:  3,
	})
	if err != nil {
		diff = expected
	}
	sink.Add(diag.Diagnostic{
		Path:    path,
		Code:    diag.CodeCardConfContent,
		Message: fmt.Sprintf("Expected %s content:\n```\n%s```", path, diff),
	})
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

var ucmDirPattern = regexp.MustCompile(`^(.+/` + DirAudio + `/` + DirUCMConfig + `/[^/]+)`)

// UCMDirs returns the UCM directories that contain any of the given
// repository-relative file paths, such as the output of
// `git diff --name-only`. The result is sorted and free of duplicates.
func UCMDirs(files []string) []string {
	var dirs []string
	for _, f := range files {
		if m := ucmDirPattern.FindStringSubmatch(filepath.ToSlash(f)); m != nil {
			dirs = append(dirs, m[1])
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}
