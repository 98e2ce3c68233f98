package prometheus

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// View identifies what kind of page has been served with which result.
type View struct {
	Kind   string
	Result string
}

// ViewReader provides the number of served views.
type ViewReader interface {
	Views() map[View]uint64
}

// ViewCounter counts served views. It's safe for concurrent use.
type ViewCounter struct {
	lock  sync.Mutex
	views map[View]uint64
}

func NewViewCounter() *ViewCounter {
	return &ViewCounter{
		views: map[View]uint64{},
	}
}

// Record counts a view of the given kind, e.g. "build", with its result, e.g. "FAILURE".
func (v *ViewCounter) Record(kind, result string) {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.views[View{Kind: kind, Result: result}]++
}

func (v *ViewCounter) Views() map[View]uint64 {
	v.lock.Lock()
	defer v.lock.Unlock()

	views := make(map[View]uint64, len(v.views))
	for k, n := range v.views {
		views[k] = n
	}

	return views
}

type viewsCollector struct {
	core   string
	reader ViewReader

	viewsDesc *prometheus.Desc
}

func NewViewsCollector(core string, r ViewReader) prometheus.Collector {
	return &viewsCollector{
		core:   core,
		reader: r,
		viewsDesc: prometheus.NewDesc(
			"views_total",
			"Number of served views by kind and result",
			[]string{"core", "kind", "result"}, nil),
	}
}

func (c *viewsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.viewsDesc
}

func (c *viewsCollector) Collect(ch chan<- prometheus.Metric) {
	views := c.reader.Views()

	keys := make([]View, 0, len(views))
	for k := range views {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}

		return keys[i].Result < keys[j].Result
	})

	for _, k := range keys {
		ch <- prometheus.MustNewConstMetric(c.viewsDesc, prometheus.CounterValue, float64(views[k]), c.core, k.Kind, k.Result)
	}
}
