package rewrite

import (
	"sort"
)

// Status is the result of handling one path.
type Status string

const (
	// StatusFlattened means at least one tag was rewritten. In a dry run the
	// file was left as is.
	StatusFlattened Status = "flattened"
	StatusUnchanged Status = "unchanged"
	// StatusSkipped means the file name does not carry a supported extension.
	StatusSkipped  Status = "skipped"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// Outcome describes what happened to a single path.
type Outcome struct {
	Path   string
	Status Status
	// Tags is the number of tags rewritten in the file.
	Tags int
	Err  error
}

// Report collects the outcomes of one Run.
type Report struct {
	RunID    string
	DryRun   bool
	Outcomes []Outcome
}

func (r *Report) sort() {
	sort.SliceStable(r.Outcomes, func(i, j int) bool {
		return r.Outcomes[i].Path < r.Outcomes[j].Path
	})
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Paths returns the paths of outcomes with the given status.
func (r *Report) Paths(status Status) []string {
	var paths []string
	for _, o := range r.Outcomes {
		if o.Status == status {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

// Failures returns every failed outcome.
func (r *Report) Failures() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			failed = append(failed, o)
		}
	}
	return failed
}

// Tags returns the total number of rewritten tags.
func (r *Report) Tags() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.Tags
	}
	return total
}
