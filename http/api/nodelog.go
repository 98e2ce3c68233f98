package api

import (
	"github.com/buildlens/core/nodelog"
)

// NodeLog is the log view of the node a test ran on
type NodeLog struct {
	Build     string        `json:"build" jsonschema:"required"`
	Pod       string        `json:"pod,omitempty"`
	ObjectRef ObjectRef     `json:"object_ref"`
	Folder    string        `json:"folder,omitempty"`
	Folders   []string      `json:"folders"`
	Files     []string      `json:"files"`
	Logs      []NodeLogFile `json:"logs"`
	Missing   []string      `json:"missing,omitempty"`
	Partial   bool          `json:"partial"`
}

// ObjectRef is the Kubernetes object of the pod
type ObjectRef struct {
	Kind      string `json:"kind,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name,omitempty"`
	UID       string `json:"uid,omitempty"`
}

// NodeLogFile is the annotated content of a log file, or of several woven
// log files. The lines are HTML.
type NodeLogFile struct {
	Name        string   `json:"name"`
	Lines       []string `json:"lines"`
	Highlighted []int    `json:"highlighted"`
}

func (n *NodeLog) Unmarshal(page nodelog.Page) {
	n.Build = page.Build
	n.Pod = page.Pod
	n.ObjectRef = ObjectRef(page.ObjectRef)
	n.Folder = page.Dir
	n.Folders = page.Folders
	n.Files = page.Files
	n.Missing = page.Missing
	n.Partial = page.Partial

	if n.Folders == nil {
		n.Folders = []string{}
	}

	if n.Files == nil {
		n.Files = []string{}
	}
	n.Logs = make([]NodeLogFile, 0, len(page.Logs))

	for _, l := range page.Logs {
		f := NodeLogFile{
			Name:        l.Name,
			Lines:       make([]string, 0, len(l.Entries)),
			Highlighted: []int{},
		}

		for i, e := range l.Entries {
			f.Lines = append(f.Lines, e.HTML())

			if e.Highlighted {
				f.Highlighted = append(f.Highlighted, i)
			}
		}

		n.Logs = append(n.Logs, f)
	}
}
