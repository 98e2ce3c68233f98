package api

import (
	"sync"
)

type dummyViews struct {
	lock  sync.Mutex
	views map[string]int
}

func newDummyViews() *dummyViews {
	return &dummyViews{
		views: map[string]int{},
	}
}

func (d *dummyViews) Record(kind, result string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.views[kind+" "+result]++
}

const junitSuite = `<testsuite tests="3" failures="1" time="271.84">
    <testcase classname="e2e.go" name="First" time="0"><skipped/></testcase>
    <testcase classname="e2e.go" name="Second" time="36.49"/>
    <testcase classname="e2e.go" name="Third" time="96.49">
        <failure>/go/src/k8s.io/kubernetes/test.go:123
Error Goes Here</failure>
    </testcase>
</testsuite>`

func buildFiles() map[string]string {
	return map[string]string{
		"/logs/job/1234/started.json":           `{"version": "v1+56", "timestamp": 1406535800}`,
		"/logs/job/1234/finished.json":          `{"result": "SUCCESS", "timestamp": 1406536800}`,
		"/logs/job/1234/artifacts/junit_01.xml": junitSuite,
		"/logs/job/1234/build-log.txt":          "ERROR: test\nmore output\n",
		"/logs/job/1235/started.json":           `{"version": "v1+57", "timestamp": 1406537800}`,
		"/logs/job/1235/build-log.txt":          "ok\nFAIL: something <b>bad</b>\n",
	}
}
