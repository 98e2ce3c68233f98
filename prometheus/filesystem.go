package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FilesystemReader is the part of a filesystem the collector reads from.
type FilesystemReader interface {
	Name() string
	Type() string
	Files() int64
}

type filesystemCollector struct {
	core string
	fs   []FilesystemReader

	fsFilesDesc *prometheus.Desc
}

func NewFilesystemCollector(core string, fs ...FilesystemReader) prometheus.Collector {
	return &filesystemCollector{
		core: core,
		fs:   fs,
		fsFilesDesc: prometheus.NewDesc(
			"filesystem_files",
			"Number of files in the storage",
			[]string{"core", "name", "type"}, nil),
	}
}

func (c *filesystemCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.fsFilesDesc
}

func (c *filesystemCollector) Collect(ch chan<- prometheus.Metric) {
	for _, fs := range c.fs {
		ch <- prometheus.MustNewConstMetric(c.fsFilesDesc, prometheus.GaugeValue, float64(fs.Files()), c.core, fs.Name(), fs.Type())
	}
}
