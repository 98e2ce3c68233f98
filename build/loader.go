package build

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/buildlens/core/encoding/json"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/junit"
	"github.com/buildlens/core/log"
	"github.com/buildlens/core/logs/errlines"
)

// ErrBuildNotFound is returned if there's no file at all for a build.
var ErrBuildNotFound = errors.New("build not found")

type LoaderConfig struct {
	// FS holds the build results.
	FS fs.ReadFilesystem

	// LogFile is the name of the build log in a build directory. Defaults to "build-log.txt".
	LogFile string

	// ArtifactsDir is the directory with the JUnit reports. Defaults to "artifacts".
	ArtifactsDir string

	// MaxErrorLines caps the log excerpt. Defaults to errlines.DefaultMax.
	MaxErrorLines int

	// MaxLogBytes only reads the tail of large build logs. 0 reads everything.
	MaxLogBytes int64

	// PRPrefix is the directory with PR builds, e.g. "/pr-logs/pull".
	PRPrefix string

	Source *SourceRepo

	Logger log.Logger
}

// Loader reads the files of a build from a filesystem and classifies it.
type Loader struct {
	fs            fs.ReadFilesystem
	logFile       string
	artifactsDir  string
	maxErrorLines int
	maxLogBytes   int64
	prPrefix      string
	source        *SourceRepo

	logger log.Logger
}

func NewLoader(config LoaderConfig) *Loader {
	l := &Loader{
		fs:            config.FS,
		logFile:       config.LogFile,
		artifactsDir:  config.ArtifactsDir,
		maxErrorLines: config.MaxErrorLines,
		maxLogBytes:   config.MaxLogBytes,
		prPrefix:      config.PRPrefix,
		source:        config.Source,
		logger:        config.Logger,
	}

	if l.logger == nil {
		l.logger = log.New("")
	}

	if len(l.logFile) == 0 {
		l.logFile = "build-log.txt"
	}

	if len(l.artifactsDir) == 0 {
		l.artifactsDir = "artifacts"
	}

	if l.maxErrorLines <= 0 {
		l.maxErrorLines = errlines.DefaultMax
	}

	return l
}

// Load reads started.json, finished.json, all JUnit reports and, if
// needed, the build log of the build at dir and classifies it. Missing
// files are fine, files that can't be parsed are listed in the problems
// of the summary. ErrBuildNotFound is returned if dir holds no file.
func (l *Loader) Load(dir string) (Summary, error) {
	dir = path.Clean("/" + dir)
	logger := l.logger.WithField("path", dir)

	if len(l.fs.List(dir+"/", fs.ListOptions{})) == 0 {
		return Summary{}, fmt.Errorf("%s: %w", dir, ErrBuildNotFound)
	}

	in := Input{
		Path:   dir,
		Source: l.source,
	}

	problems := []string{}

	started := &Started{}
	if ok, err := l.readJSON(path.Join(dir, "started.json"), started); err != nil {
		logger.Warn().WithError(err).Log("Invalid started.json")
		problems = append(problems, err.Error())
	} else if ok {
		in.Started = started
	}

	finished := &Finished{}
	if ok, err := l.readJSON(path.Join(dir, "finished.json"), finished); err != nil {
		logger.Warn().WithError(err).Log("Invalid finished.json")
		problems = append(problems, err.Error())
	} else if ok {
		in.Finished = finished
	}

	cases, errs := junit.ParseArtifacts(l.artifacts(dir))
	for _, err := range errs {
		logger.Warn().WithError(err).Log("Invalid JUnit report")
		problems = append(problems, err.Error())
	}

	in.TestCases = cases

	result := ResultNotFinished
	if in.Finished != nil {
		result = in.Finished.Outcome()
	}

	truncated := false

	if NeedsLog(result, len(cases)) {
		data, cut, err := l.readLog(path.Join(dir, l.logFile))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn().WithError(err).Log("Reading build log failed")
			}
		} else {
			in.LogExcerpt = errlines.Extract(data, errlines.Options{Max: l.maxErrorLines})
			truncated = cut
		}
	}

	summary := Classify(in)
	summary.LogTruncated = truncated && len(summary.LogExcerpt) != 0
	summary.PR = l.pullRequest(dir)

	if len(problems) != 0 {
		summary.Problems = problems
	}

	logger.Debug().WithFields(log.Fields{
		"result": summary.Result,
		"tests":  len(summary.TestCases),
	}).Log("Classified")

	return summary, nil
}

// readJSON decodes the file at name into v. It returns false if the file
// doesn't exist.
func (l *Loader) readJSON(name string, v interface{}) (bool, error) {
	data, err := l.fs.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", path.Base(name), err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%s: %w", path.Base(name), json.FormatError(data, err))
	}

	return true, nil
}

// artifacts returns the content of all XML files below the artifacts
// directory, keyed by their path relative to dir.
func (l *Loader) artifacts(dir string) map[string][]byte {
	artifacts := map[string][]byte{}

	files := l.fs.List(path.Join(dir, l.artifactsDir)+"/", fs.ListOptions{
		Pattern: "**/*.xml",
	})

	for _, f := range files {
		data, err := l.fs.ReadFile(f.Name())
		if err != nil {
			l.logger.Warn().WithError(err).WithField("artifact", f.Name()).Log("Reading artifact failed")
			continue
		}

		artifacts[strings.TrimPrefix(f.Name(), dir+"/")] = data
	}

	return artifacts
}

// readLog reads the build log. If it's larger than the configured limit,
// only its tail starting at a line boundary is returned.
func (l *Loader) readLog(name string) ([]byte, bool, error) {
	if l.maxLogBytes <= 0 {
		data, err := l.fs.ReadFile(name)
		return data, false, err
	}

	info, err := l.fs.Stat(name)
	if err != nil {
		return nil, false, err
	}

	if info.Size() <= l.maxLogBytes {
		data, err := l.fs.ReadFile(name)
		return data, false, err
	}

	data, err := l.fs.ReadRange(name, info.Size()-l.maxLogBytes, -1)
	if err != nil {
		return nil, false, err
	}

	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}

	return data, true, nil
}

// pullRequest returns the PR number if dir is a PR build, i.e.
// <prefix>/<pr>/<job>/<build>.
func (l *Loader) pullRequest(dir string) string {
	if len(l.prPrefix) == 0 {
		return ""
	}

	prefix := path.Clean("/"+l.prPrefix) + "/"

	rest, found := strings.CutPrefix(dir, prefix)
	if !found {
		return ""
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 {
		return ""
	}

	return parts[0]
}
