package build

import (
	"sort"
	"strconv"

	"github.com/buildlens/core/io/fs"
)

// ListBuilds returns the builds of the job at dir, newest first. Numeric
// build names are compared as numbers and come before all others.
func ListBuilds(fsys fs.ReadFilesystem, dir string) []string {
	builds := fs.Children(fsys, dir)

	SortBuilds(builds)

	return builds
}

// SortBuilds sorts build names in descending order.
func SortBuilds(builds []string) {
	sort.SliceStable(builds, func(i, j int) bool {
		a, aerr := strconv.ParseInt(builds[i], 10, 64)
		b, berr := strconv.ParseInt(builds[j], 10, 64)

		switch {
		case aerr == nil && berr == nil:
			return a > b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		}

		return builds[i] > builds[j]
	})
}

// ListJobs returns the sorted names of the jobs below prefix.
func ListJobs(fsys fs.ReadFilesystem, prefix string) []string {
	return fs.Children(fsys, prefix)
}
