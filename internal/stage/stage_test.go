package stage

import "testing"

func TestMatchAdvances(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		current int
		want    int
		wantOK  bool
	}{
		{"prepare keyword", "Reading FASTA entries", 0, 1, true},
		{"case insensitive", "LOADING spectra", 0, 1, true},
		{"skips to later stage", "Estimating mass error tolerance", 0, 2, true},
		{"completion keyword", "Search finished", 0, 6, true},
		{"no keyword", "arbitrary chatter", 0, 0, false},
		{"nothing after current", "reading input", 6, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(tt.line, tt.current, SearchStages)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Match(%q, %d) = (%d, %v), want (%d, %v)",
					tt.line, tt.current, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMatchNeverReturnsCurrentOrEarlier(t *testing.T) {
	// A prepare-vocabulary line after the quant stage has been reached must
	// not produce a regression candidate.
	got, ok := Match("loading more data", 4, SearchStages)
	if ok && got <= 4 {
		t.Errorf("Match returned non-increasing index %d from current 4", got)
	}
}

func TestMatchMonotonicOverSequence(t *testing.T) {
	lines := []string{
		"initializing workers",
		"presearch: tuning mass tolerance",
		"reading raw files", // prepare vocabulary, must not regress
		"first pass search underway",
		"quantification scoring",
		"loading", // again, no regression
		"writing results to disk",
	}

	current := 0
	prev := 0
	for _, line := range lines {
		if next, ok := Match(line, current, SearchStages); ok && next > current {
			current = next
		}
		if current < prev {
			t.Fatalf("stage index regressed from %d to %d on %q", prev, current, line)
		}
		prev = current
	}
	if current != 5 {
		t.Errorf("final stage index = %d, want 5", current)
	}
}

func TestProgress(t *testing.T) {
	want := []float64{0, 25, 50, 75, 100}
	for i, w := range want {
		if got := Progress(i, 5); got != w {
			t.Errorf("Progress(%d, 5) = %v, want %v", i, got, w)
		}
	}
	if got := Progress(0, 1); got != 100 {
		t.Errorf("Progress(0, 1) = %v, want 100", got)
	}
	if got := Progress(0, 0); got != 100 {
		t.Errorf("Progress(0, 0) = %v, want 100", got)
	}
}

// Empty keyword sets auto-trigger, which is only safe at index 0. Guard the
// tables so an edit cannot reintroduce one later in a sequence.
func TestTablesHaveNoEmptyKeywordSetsPastFirst(t *testing.T) {
	for name, table := range map[string][]Stage{
		"build":  BuildStages,
		"search": SearchStages,
	} {
		if len(table[0].Keywords) != 0 {
			t.Errorf("%s: index 0 should have an empty keyword set", name)
		}
		for i, s := range table[1:] {
			if len(s.Keywords) == 0 {
				t.Errorf("%s: stage %d (%s) has an empty keyword set", name, i+1, s.Key)
			}
			for _, kw := range s.Keywords {
				if kw == "" {
					t.Errorf("%s: stage %s has an empty keyword", name, s.Key)
				}
			}
		}
	}
}
