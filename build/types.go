package build

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/buildlens/core/encoding/json"
)

// Timestamp is a unix timestamp in seconds. In JSON it may be a number or a
// string holding a number.
type Timestamp int64

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.UnmarshalNumbers(data, &v); err != nil {
		return err
	}

	if v == nil {
		*t = 0
		return nil
	}

	i, ok := json.ToInt64(v)
	if !ok {
		return fmt.Errorf("invalid timestamp: %s", string(data))
	}

	*t = Timestamp(i)

	return nil
}

// Time returns the timestamp as UTC time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Started is the content of started.json.
type Started struct {
	Version   string            `json:"version"`
	Timestamp Timestamp         `json:"timestamp"`
	Node      string            `json:"node,omitempty"`
	Pull      string            `json:"pull,omitempty"`
	Repos     map[string]string `json:"repos,omitempty"`
}

// Commit extracts the commit from the version, e.g. "b54c3f0b1a9c7e61" from
// "v1.4.0-alpha.1.256+b54c3f0b1a9c7e61" or "56" from "v1+56". Empty if the
// version carries no commit.
func (s *Started) Commit() string {
	if s == nil || len(s.Version) == 0 {
		return ""
	}

	if v, err := semver.NewVersion(s.Version); err == nil {
		return v.Metadata()
	}

	if _, commit, found := strings.Cut(s.Version, "+"); found {
		return commit
	}

	return ""
}

// Finished is the content of finished.json.
type Finished struct {
	Result    string                 `json:"result"`
	Timestamp Timestamp              `json:"timestamp"`
	Passed    *bool                  `json:"passed,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Outcome is the result of the build. Older builds only report whether
// they passed.
func (f *Finished) Outcome() string {
	if len(f.Result) != 0 {
		return f.Result
	}

	if f.Passed != nil {
		if *f.Passed {
			return ResultSuccess
		}

		return ResultFailure
	}

	return ""
}

const (
	ResultSuccess     = "SUCCESS"
	ResultFailure     = "FAILURE"
	ResultNotFinished = "Not Finished"
)
