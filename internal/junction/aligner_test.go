package junction

import "testing"

func TestScoreAt(t *testing.T) {
	p := scoreParams{penalty: 1.5, maxMismatches: 1}

	tests := []struct {
		name   string
		seq    string
		region string
		offset int
		want   float64
	}{
		{"perfect overlap", "CASSF", "CASSF", 0, 5},
		{"leading mismatches free", "XXKLI", "GGKLI", 0, 3},
		{"mismatch after match penalized", "KAI", "KLI", 0, 0.5},
		{"budget exceeded", "KAAI", "KLLI", 0, invalidScore},
		{"negative offset", "SSF", "ASSF", -1, 3},
		{"region past end", "CAS", "CASSF", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreAt(tt.seq, tt.region, tt.offset, p); got != tt.want {
				t.Errorf("scoreAt(%q, %q, %d) = %v, want %v", tt.seq, tt.region, tt.offset, got, tt.want)
			}
		})
	}
}

func TestAnchorValid(t *testing.T) {
	// region "SYEQYFGPGT", anchor at the F (index 5)
	region := "SYEQYFGPGT"

	tests := []struct {
		name   string
		seq    string
		offset int
		want   bool
	}{
		{"anchor beyond end permits reconstruction", "CASSESYEQY", 5, true},
		{"tail equals reference tail", "CASSESYEQYF", 5, true},
		{"tail is reference tail prefix", "CASSESYEQYFGP", 5, true},
		{"tail diverges", "CASSESYEQYC", 5, false},
		{"tail longer than reference tail", "CASSESYEQYFGPGTXX", 5, false},
		{"anchor before start", "YFGPGT", -8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := anchorValid(tt.seq, region, tt.offset, 5); got != tt.want {
				t.Errorf("anchorValid(%q, offset %d) = %v, want %v", tt.seq, tt.offset, got, tt.want)
			}
		})
	}
}

func TestBestAlignmentsKeepsTies(t *testing.T) {
	refs := []*reference{
		{symbol: "A", region: "GGKLIF", anchor: 5},
		{symbol: "B", region: "GGKLIW", anchor: 5},
	}
	aligns := bestAlignments("CAKLI", refs, scoreParams{penalty: 1.5, maxMismatches: 1, minScore: 3})
	if len(aligns) != 2 {
		t.Fatalf("got %d alignments, want 2 tied", len(aligns))
	}
	for _, a := range aligns {
		if a.score != 3 {
			t.Errorf("score = %v, want 3", a.score)
		}
	}
}

func TestReverseString(t *testing.T) {
	if got := reverseString("CASF"); got != "FSAC" {
		t.Errorf("reverseString = %q", got)
	}
	if got := reverseString(""); got != "" {
		t.Errorf("reverseString empty = %q", got)
	}
}
