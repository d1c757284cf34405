// Package monitor holds the scheduled query/check model that triggers
// are attached to. Execution lives elsewhere, this is the data model
// plus a few classification helpers.
package monitor

import (
	"encoding/json"
	"fmt"

	"github.com/alerthub/core/iam"
	"github.com/alerthub/core/trigger"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// anomalyResultIndexPattern matches the indices anomaly detection jobs
// write their results to.
const anomalyResultIndexPattern = ".opendistro-anomaly-results*"

var anomalyResultIndexGlob = glob.MustCompile(anomalyResultIndexPattern)

// SearchInput is a search executed against a set of indices.
type SearchInput struct {
	Indices []string        `json:"indices"`
	Query   json.RawMessage `json:"query"`
}

// Input is one input of a monitor. Exactly one of the members is set.
type Input struct {
	Search *SearchInput `json:"search,omitempty"`
}

// Monitor is a scheduled check. Its inputs are executed and the
// triggers evaluated against the results.
type Monitor struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Enabled  bool              `json:"enabled"`
	Inputs   []Input           `json:"inputs"`
	Triggers []trigger.Trigger `json:"-"`
	User     *iam.User         `json:"user,omitempty"`
}

// New creates a monitor. A blank id is replaced with a freshly
// generated one.
func New(id, name string, inputs []Input, user *iam.User) (*Monitor, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("a name is required")
	}

	if len(id) == 0 {
		id = uuid.NewString()
	}

	return &Monitor{
		ID:      id,
		Name:    name,
		Enabled: true,
		Inputs:  inputs,
		User:    user.Clone(),
	}, nil
}

// IsAnomalyDetector returns whether the monitor watches anomaly
// detection results: exactly one input, which is a search over exactly
// one index matching the anomaly result index pattern.
func (m *Monitor) IsAnomalyDetector() bool {
	if len(m.Inputs) != 1 {
		return false
	}

	search := m.Inputs[0].Search
	if search == nil {
		return false
	}

	if len(search.Indices) != 1 {
		return false
	}

	return anomalyResultIndexGlob.Match(search.Indices[0])
}
