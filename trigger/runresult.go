package trigger

import (
	"strings"
	"time"
)

// BucketKeysHash joins the ordered key values of an aggregation bucket
// into a stable map key.
func BucketKeysHash(keys []string) string {
	return strings.Join(keys, "#")
}

// AggregationBucket is one bucket of an aggregation result a
// bucket-level trigger was evaluated against.
type AggregationBucket struct {
	Keys     []string               `json:"keys"`
	DocCount int64                  `json:"doc_count"`
	Values   map[string]interface{} `json:"values,omitempty"`
}

// KeysHash returns the stable map key of the bucket.
func (b *AggregationBucket) KeysHash() string {
	return BucketKeysHash(b.Keys)
}

// ActionRunResult is the outcome of a single action execution.
type ActionRunResult struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Throttled     bool      `json:"throttled"`
	ExecutionTime time.Time `json:"execution_time"`
	Err           error     `json:"-"`
}

// BucketTriggerRunResult is the partial outcome of evaluating a trigger
// against one page of aggregation results.
type BucketTriggerRunResult struct {
	Triggered     bool                       `json:"triggered"`
	Buckets       []AggregationBucket        `json:"buckets"`
	ActionResults map[string]ActionRunResult `json:"action_results"`
	Err           error                      `json:"-"`
}

// Combine merges the result of the current page into the accumulated
// result of the previous pages. A nil prev returns the receiver
// unchanged. Callers guarantee that pages never overlap, so buckets are
// concatenated (prev's buckets first) and action results are merged
// without conflict checks. The most recent non-nil error wins.
func (r *BucketTriggerRunResult) Combine(prev *BucketTriggerRunResult) *BucketTriggerRunResult {
	if prev == nil {
		return r
	}

	combined := &BucketTriggerRunResult{
		Triggered:     prev.Triggered || r.Triggered,
		Buckets:       make([]AggregationBucket, 0, len(prev.Buckets)+len(r.Buckets)),
		ActionResults: map[string]ActionRunResult{},
		Err:           prev.Err,
	}

	combined.Buckets = append(combined.Buckets, prev.Buckets...)
	combined.Buckets = append(combined.Buckets, r.Buckets...)

	for k, v := range prev.ActionResults {
		combined.ActionResults[k] = v
	}
	for k, v := range r.ActionResults {
		combined.ActionResults[k] = v
	}

	if r.Err != nil {
		combined.Err = r.Err
	}

	return combined
}
