package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type uptimeCollector struct {
	core      string
	startedAt time.Time

	uptimeDesc *prometheus.Desc
}

func NewUptimeCollector(core string, startedAt time.Time) prometheus.Collector {
	return &uptimeCollector{
		core:      core,
		startedAt: startedAt,
		uptimeDesc: prometheus.NewDesc(
			"uptime_seconds",
			"Number of seconds the core is up",
			[]string{"core"}, nil),
	}
}

func (c *uptimeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.uptimeDesc
}

func (c *uptimeCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.uptimeDesc, prometheus.CounterValue, time.Since(c.startedAt).Seconds(), c.core)
}
