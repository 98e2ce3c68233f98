package api

import (
	"sort"

	"github.com/buildlens/core/pr"

	"github.com/lestrrat-go/strftime"
)

// PR lists the builds of all jobs of a pull request
type PR struct {
	Number string         `json:"number" jsonschema:"required"`
	Link   string         `json:"link,omitempty"`
	Jobs   []PRJob        `json:"jobs"`
	Builds map[string]int `json:"builds"`
}

// PRJob are the builds of a job, newest first
type PRJob struct {
	Name   string    `json:"name"`
	Builds []PRBuild `json:"builds"`
}

type PRBuild struct {
	Number  string `json:"number"`
	Result  string `json:"result"`
	Started string `json:"started,omitempty"`
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
}

func (p *PR) Unmarshal(number, link string, jobs map[string][]pr.Build, format *strftime.Strftime) {
	p.Number = number
	p.Link = link
	p.Jobs = make([]PRJob, 0, len(jobs))
	p.Builds = map[string]int{}

	names := make([]string, 0, len(jobs))
	for name := range jobs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		job := PRJob{
			Name:   name,
			Builds: make([]PRBuild, 0, len(jobs[name])),
		}

		for _, b := range jobs[name] {
			build := PRBuild{
				Number: b.Number,
				Result: b.Result(),
			}

			if b.Started != nil {
				build.Started = formatTime(b.Started.Timestamp.Time(), format)
				build.Version = b.Started.Version
				build.Commit = b.Started.Commit()
			}

			job.Builds = append(job.Builds, build)
		}

		p.Builds[name] = len(job.Builds)
		p.Jobs = append(p.Jobs, job)
	}
}
