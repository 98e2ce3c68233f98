// Package nodelog finds the component logs of the node a test ran on and
// weaves them into a view centered on a pod.
package nodelog

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/buildlens/core/glob"
	"github.com/buildlens/core/io/fs"
	"github.com/buildlens/core/logs/weave"
)

// ErrNoLogs is returned if a build has no node logs at all.
var ErrNoLogs = errors.New("unable to find node logs")

// DefaultFiles are shown if no log files are requested.
var DefaultFiles = []string{"kubelet.log", "kube-apiserver.log"}

const kubeletLog = "kubelet.log"

// logName matches the name of a log file inside a node folder.
var logName = glob.MustCompile("*.log", '/')

// Location describes the node folders of a build.
type Location struct {
	// Dir is the selected node folder. Empty if none could be selected.
	Dir string `json:"dir,omitempty"`

	// Folders are the names of all node folders below artifacts/.
	Folders []string `json:"folders"`

	// Files are the log files in Dir.
	Files []string `json:"files"`
}

// Locate lists the node folders of the build, i.e. the directories below
// artifacts/ that contain *.log files. The folder that holds junitName is
// selected. If there's only one folder, it's selected anyway.
func Locate(fsys fs.ReadFilesystem, build, junitName string) (Location, error) {
	artifacts := path.Join(path.Clean("/"+build), "artifacts")

	logs := map[string][]string{}

	for _, f := range fsys.List(artifacts+"/", fs.ListOptions{Pattern: "**.log"}) {
		rest := strings.TrimPrefix(f.Name(), artifacts+"/")

		folder, file, found := strings.Cut(rest, "/")
		if !found || !logName.Match(file) {
			continue
		}

		logs[folder] = append(logs[folder], f.Name())
	}

	if len(logs) == 0 {
		return Location{}, fmt.Errorf("%s: %w", build, ErrNoLogs)
	}

	loc := Location{
		Folders: make([]string, 0, len(logs)),
		Files:   []string{},
	}

	for folder := range logs {
		loc.Folders = append(loc.Folders, folder)
	}

	sort.Strings(loc.Folders)

	selected := ""

	if len(junitName) != 0 {
		for _, folder := range loc.Folders {
			if _, err := fsys.Stat(path.Join(artifacts, folder, junitName)); err == nil {
				selected = folder
				break
			}
		}
	}

	if len(selected) == 0 && len(loc.Folders) == 1 {
		selected = loc.Folders[0]
	}

	if len(selected) != 0 {
		loc.Dir = path.Join(artifacts, selected)
		loc.Files = logs[selected]
		sort.Strings(loc.Files)
	}

	return loc, nil
}

// Request selects what to show.
type Request struct {
	// Build is the path of the build.
	Build string

	// Pod is highlighted, together with everything that mentions its UID.
	Pod string

	// JUnit is the name of the report of the failed test. It selects the node folder.
	JUnit string

	// Weave merges all files into one stream. Otherwise every file is shown on its own.
	Weave bool

	// LogFiles replace DefaultFiles. Relative names are looked up in the
	// selected node folder. Names may be glob patterns, e.g. "kube-*.log".
	LogFiles []string

	// Filter only keeps highlighted entries.
	Filter bool

	// Namespace also highlights entries mentioning the pod's namespace.
	Namespace bool
}

// Log is the annotated content of one file, or of several woven files.
type Log struct {
	Name    string        `json:"name"`
	Entries []weave.Entry `json:"entries"`
}

// Page is the node-log view of a build.
type Page struct {
	Build     string    `json:"build"`
	Pod       string    `json:"pod,omitempty"`
	ObjectRef ObjectRef `json:"object_ref"`
	Location
	Logs []Log `json:"logs"`

	// Missing lists requested files that couldn't be read.
	Missing []string `json:"missing,omitempty"`

	// Partial is set if not all requested files are shown.
	Partial bool `json:"partial"`
}

// View builds the node-log page for the request.
func View(fsys fs.ReadFilesystem, req Request) (Page, error) {
	build := path.Clean("/" + req.Build)

	loc, err := Locate(fsys, build, req.JUnit)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Build:    build,
		Pod:      req.Pod,
		Location: loc,
		Logs:     []Log{},
	}

	files, rejected := logFiles(build, loc, req.LogFiles)
	page.Missing = append(page.Missing, rejected...)
	page.Partial = len(rejected) != 0

	page.ObjectRef = objectRef(fsys, loc, files, req.Pod)

	opts := weave.Options{
		Highlight:       req.Pod,
		OnlyHighlighted: req.Filter,
	}

	if len(req.Pod) != 0 {
		opts.Keywords = []string{req.Pod}
	}

	if len(page.ObjectRef.UID) != 0 {
		opts.Match = append(opts.Match, page.ObjectRef.UID)
	}

	if req.Namespace && len(page.ObjectRef.Namespace) != 0 {
		opts.Match = append(opts.Match, page.ObjectRef.Namespace)
	}

	if len(files) == 0 {
		return page, nil
	}

	if req.Weave {
		result := weave.WeaveFiles(fsys.ReadFile, files, opts)
		page.Missing = append(page.Missing, result.Missing...)
		page.Partial = page.Partial || result.Partial
		page.Logs = append(page.Logs, Log{
			Name:    strings.Join(files, ", "),
			Entries: result.Entries,
		})

		return page, nil
	}

	for _, file := range files {
		result := weave.WeaveFiles(fsys.ReadFile, []string{file}, opts)
		if result.Partial {
			page.Missing = append(page.Missing, result.Missing...)
			page.Partial = true
			continue
		}

		page.Logs = append(page.Logs, Log{
			Name:    file,
			Entries: result.Entries,
		})
	}

	return page, nil
}

// logFiles resolves the requested files. Without a request the default
// files that exist in the selected folder are used. Requested files outside
// the artifacts of the build are rejected.
func logFiles(build string, loc Location, requested []string) ([]string, []string) {
	files := []string{}
	rejected := []string{}

	if len(requested) == 0 {
		for _, name := range DefaultFiles {
			for _, f := range loc.Files {
				if path.Base(f) == name {
					files = append(files, f)
				}
			}
		}

		return files, rejected
	}

	artifacts := path.Join(build, "artifacts") + "/"
	patterns := []string{}

	for _, name := range requested {
		if len(name) == 0 {
			continue
		}

		if glob.IsPattern(name) {
			if !strings.HasPrefix(name, "/") {
				name = path.Join(loc.Dir, name)
			}

			patterns = append(patterns, name)
			continue
		}

		if !strings.HasPrefix(name, "/") {
			if len(loc.Dir) == 0 {
				rejected = append(rejected, name)
				continue
			}

			name = path.Join(loc.Dir, name)
		}

		name = path.Clean(name)
		if !strings.HasPrefix(name, artifacts) {
			rejected = append(rejected, name)
			continue
		}

		files = append(files, name)
	}

	if len(patterns) == 0 {
		return files, rejected
	}

	set, err := glob.CompileSet(patterns...)
	if err != nil {
		return files, append(rejected, patterns...)
	}

	matched := false
	for _, f := range loc.Files {
		if set.Match(f) && !slices.Contains(files, f) {
			files = append(files, f)
			matched = true
		}
	}

	if !matched {
		rejected = append(rejected, patterns...)
	}

	return files, rejected
}

// objectRef looks up the pod in the kubelet log of the selected folder, or
// in a requested kubelet log.
func objectRef(fsys fs.ReadFilesystem, loc Location, files []string, pod string) ObjectRef {
	if len(pod) == 0 {
		return ObjectRef{}
	}

	candidates := []string{}
	if len(loc.Dir) != 0 {
		candidates = append(candidates, path.Join(loc.Dir, kubeletLog))
	}

	for _, f := range files {
		if path.Base(f) == kubeletLog {
			candidates = append(candidates, f)
		}
	}

	for _, name := range candidates {
		data, err := fsys.ReadFile(name)
		if err != nil {
			continue
		}

		if ref := FindObjectRefs(data, pod); !ref.IsZero() {
			return ref
		}
	}

	return ObjectRef{}
}
