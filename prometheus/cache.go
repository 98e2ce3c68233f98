package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CacheReader provides the number of cached objects.
type CacheReader interface {
	Len() int
}

type cacheCollector struct {
	core  string
	cache CacheReader

	entriesDesc *prometheus.Desc
}

func NewCacheCollector(core string, cache CacheReader) prometheus.Collector {
	return &cacheCollector{
		core:  core,
		cache: cache,
		entriesDesc: prometheus.NewDesc(
			"cache_entries",
			"Number of cached build summaries",
			[]string{"core"}, nil),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entriesDesc
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.entriesDesc, prometheus.GaugeValue, float64(c.cache.Len()), c.core)
}
