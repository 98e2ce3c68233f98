// Package pr collects the builds of all jobs that ran for a pull request.
package pr

import (
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/buildlens/core/build"
	"github.com/buildlens/core/encoding/json"
	"github.com/buildlens/core/io/fs"
)

// ErrInvalidPR is returned for a PR that isn't a positive number.
var ErrInvalidPR = errors.New("invalid pull request number")

// Build is a single build of a job. Started or Finished are nil if the
// file is missing or broken.
type Build struct {
	Number   string          `json:"number"`
	Started  *build.Started  `json:"started"`
	Finished *build.Finished `json:"finished"`
}

// Result is the result of the build, "Not Finished" without finished.json.
func (b Build) Result() string {
	if b.Finished == nil {
		return build.ResultNotFinished
	}

	return b.Finished.Outcome()
}

// Builds reads the builds of all jobs below prefix/pr, i.e. the directories
// prefix/pr/job/build. The builds of a job are sorted newest first.
func Builds(fsys fs.ReadFilesystem, prefix, pr string) (map[string][]Build, error) {
	if n, err := strconv.ParseUint(pr, 10, 64); err != nil || n == 0 {
		return nil, fmt.Errorf("%q: %w", pr, ErrInvalidPR)
	}

	dir := path.Join(path.Clean("/"+prefix), pr)

	jobs := map[string][]Build{}

	for _, job := range build.ListJobs(fsys, dir) {
		jobDir := path.Join(dir, job)
		builds := []Build{}

		for _, number := range build.ListBuilds(fsys, jobDir) {
			b := Build{
				Number: number,
			}

			started := &build.Started{}
			if readJSON(fsys, path.Join(jobDir, number, "started.json"), started) {
				b.Started = started
			}

			finished := &build.Finished{}
			if readJSON(fsys, path.Join(jobDir, number, "finished.json"), finished) {
				b.Finished = finished
			}

			builds = append(builds, b)
		}

		jobs[job] = builds
	}

	return jobs, nil
}

func readJSON(fsys fs.ReadFilesystem, name string, v interface{}) bool {
	data, err := fsys.ReadFile(name)
	if err != nil {
		return false
	}

	return json.Unmarshal(data, v) == nil
}
