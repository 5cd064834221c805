package symbol

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace removed", " trav 1-1 ", "TRAV1-1"},
		{"uppercased", "hla-b*57:01", "HLA-B*57:01"},
		{"markup entity stripped", "TRAV1&NBSP;-1", "TRAV1-1"},
		{"stray punctuation trimmed", "-TRAJ1.", "TRAJ1"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *familyConfig
		in         string
		wantGene   string
		wantFields []string
	}{
		{"bare gene", trConfig, "TRAJ1", "TRAJ1", nil},
		{"gene with allele", trConfig, "TRAJ1*01", "TRAJ1", []string{"01"}},
		{"single digit padded", trConfig, "TRAJ1*1", "TRAJ1", []string{"01"}},
		{"compound gene", trConfig, "TRAV14/DV4*02", "TRAV14/DV4", []string{"02"}},
		{"mh multi field", hsMhConfig, "HLA-A*02:01:01G", "HLA-A", []string{"02", "01", "01G"}},
		{"mh dot delimiter", hsMhConfig, "HLA-B*57.01", "HLA-B", []string{"57", "01"}},
		{"no match falls through", trConfig, "TRAJ1**", "TRAJ1**", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.cfg.parse(tt.in)
			if p.Gene != tt.wantGene {
				t.Errorf("gene = %q, want %q", p.Gene, tt.wantGene)
			}
			if !reflect.DeepEqual(p.Fields, tt.wantFields) {
				t.Errorf("fields = %v, want %v", p.Fields, tt.wantFields)
			}
		})
	}
}

func TestZeroWidthVariants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"004", []string{"004", "04", "4"}},
		{"04", []string{"04", "004", "4"}},
		{"4", []string{"4", "04", "004"}},
		{"01G", []string{"01G"}},
	}

	for _, tt := range tests {
		if got := zeroWidthVariants(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("zeroWidthVariants(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDashOneVariants(t *testing.T) {
	tests := []struct {
		in         string
		addMissing bool
		want       []string
	}{
		{"TRBV20", true, []string{"TRBV20-1"}},
		{"TRAV14-1/DV4", true, []string{"TRAV14-1/DV4-1", "TRAV14/DV4-1", "TRAV14/DV4"}},
		{"TRBV6-4", true, nil},
		{"IGHV1-1", false, []string{"IGHV1"}},
		{"IGHV1", false, nil},
	}

	for _, tt := range tests {
		if got := dashOneVariants(tt.in, tt.addMissing); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("dashOneVariants(%q, %v) = %v, want %v", tt.in, tt.addMissing, got, tt.want)
		}
	}
}

func TestCompilePrecisionMonotonic(t *testing.T) {
	p := Parsed{Gene: "HLA-A", Fields: []string{"02", "01", "01G"}}
	subgroup := compileSymbol(hsMhConfig, p, PrecisionSubgroup)
	gene := compileSymbol(hsMhConfig, p, PrecisionGene)
	protein := compileSymbol(hsMhConfig, p, PrecisionProtein)
	allele := compileSymbol(hsMhConfig, p, PrecisionAllele)

	if len(gene) < len(subgroup) || len(protein) < len(gene) || len(allele) < len(protein) {
		t.Errorf("precision not monotonic: %q %q %q %q", subgroup, gene, protein, allele)
	}
	if allele != "HLA-A*02:01:01G" {
		t.Errorf("allele = %q", allele)
	}
	if protein != "HLA-A*02:01" {
		t.Errorf("protein = %q", protein)
	}
}
