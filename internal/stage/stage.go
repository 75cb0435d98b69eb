// Package stage models the coarse lifecycle of a Pioneer run. Each run mode
// carries a fixed, ordered table of stages; progress is inferred by matching
// lowercase keywords against the tool's free-text log lines. The tables are a
// heuristic over Pioneer's narration, not a contract with the tool.
package stage

import "strings"

// Stage is one named phase in a run's expected lifecycle.
type Stage struct {
	// Key is a short stable identifier (e.g. "presearch").
	Key string

	// Label is the human-readable phase description.
	Label string

	// Keywords are lowercase substrings whose presence in a normalized
	// log line signals arrival at this stage. Order is irrelevant.
	// Only the first stage of a table may have an empty keyword set;
	// it represents "started, nothing matched yet".
	Keywords []string
}

// BuildStages is the stage table for spectral library builds.
var BuildStages = []Stage{
	{Key: "starting", Label: "Starting Pioneer", Keywords: nil},
	{Key: "prepare", Label: "Preparing inputs", Keywords: []string{"reading", "loading", "prepare", "initializing"}},
	{Key: "predict", Label: "Predicting spectral library", Keywords: []string{"predict", "altimeter", "model", "generating", "writing predicted"}},
	{Key: "write", Label: "Writing spectral library", Keywords: []string{"writing", "saving", "export"}},
	{Key: "complete", Label: "Completed", Keywords: []string{"complete", "finished", "success"}},
}

// SearchStages is the stage table for DIA searches.
var SearchStages = []Stage{
	{Key: "starting", Label: "Starting Pioneer", Keywords: nil},
	{Key: "prepare", Label: "Preparing inputs", Keywords: []string{"reading", "loading", "preparing", "initializing"}},
	{Key: "presearch", Label: "Tuning search parameters", Keywords: []string{"presearch", "tuning", "estimating"}},
	{Key: "first", Label: "Running first pass search", Keywords: []string{"first search", "index search", "first pass"}},
	{Key: "quant", Label: "Running quantification search", Keywords: []string{"quant", "quantification", "scoring"}},
	{Key: "finishing", Label: "Finalizing results", Keywords: []string{"writing results", "post-processing", "saving"}},
	{Key: "complete", Label: "Completed", Keywords: []string{"complete", "finished", "success"}},
}

// Match scans stages strictly after current for the first one triggered by
// line. A stage triggers on any keyword substring match against the
// lowercased line, or unconditionally if its keyword set is empty. The
// returned index is always > current when ok; callers keep their own index
// monotonic by ignoring anything else.
func Match(line string, current int, stages []Stage) (int, bool) {
	normalized := strings.ToLower(line)
	for idx := current + 1; idx < len(stages); idx++ {
		if triggers(stages[idx], normalized) {
			return idx, true
		}
	}
	return 0, false
}

func triggers(s Stage, normalized string) bool {
	if len(s.Keywords) == 0 {
		return true
	}
	for _, kw := range s.Keywords {
		if kw == "" || strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// Progress maps a stage index to a percentage. The last index of an n-stage
// table is 100; a single-stage table is always 100.
func Progress(index, total int) float64 {
	if total <= 1 {
		return 100
	}
	return float64(index) / float64(total-1) * 100
}
