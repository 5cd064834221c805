package symbol

import (
	"regexp"
	"strings"

	"github.com/yutanagano/tidyreceptor/internal/catalog"
)

// strategy is one named, independently-applied correction. apply returns the
// transformed symbol and whether anything changed; an unchanged return is a
// no-op and the cascade moves on. Exploratory strategies are speculative
// guesses committed only when the oracle accepts the outcome; the rest are
// confident rewrites that persist either way and so improve the best
// attempted fix.
type strategy struct {
	name        string
	exploratory bool
	apply       func(env *resolveEnv, p Parsed) (Parsed, bool)
}

// resolveEnv is the call-local state shared by the strategies of one
// resolution: the family configuration, the catalog, and the one-shot
// recursion guard for the dash-one expansion.
type resolveEnv struct {
	cfg              *familyConfig
	data             *catalog.FamilyData
	mayExpandDashOne bool
}

// resolve runs the cascade: synonym substitution first (terminal when it
// applies), then each strategy in order, re-querying acceptance after every
// change and halting on the first success. On failure the last attempted
// state is returned so it can serve as the best attempted fix.
func resolve(env *resolveEnv, p Parsed) (Parsed, bool) {
	if env.cfg.accepts(env, p) {
		return p, true
	}
	if replacement, ok := env.data.Synonyms[p.Gene]; ok {
		p.Gene = replacement
		return p, env.cfg.accepts(env, p)
	}
	for _, s := range env.cfg.strategies {
		q, changed := s.apply(env, p)
		if !changed {
			continue
		}
		if env.cfg.accepts(env, q) {
			return q, true
		}
		if !s.exploratory {
			p = q
		}
	}
	return p, false
}

// rewriteLegacyPrefix replaces an alternate chain-name prefix with the
// current one, e.g. TCRAV -> TRAV.
func rewriteLegacyPrefix(env *resolveEnv, p Parsed) (Parsed, bool) {
	legacy := env.cfg.legacyPrefix
	if legacy == "" || !strings.HasPrefix(p.Gene, legacy) {
		return p, false
	}
	p.Gene = env.cfg.prefix + p.Gene[len(legacy):]
	return p, true
}

// rewriteSeparatorLetters replaces alternate spellings of the dash separator
// inside the gene name, e.g. TRBV6S4 -> TRBV6-4, TRBV6.4 -> TRBV6-4.
func rewriteSeparatorLetters(env *resolveEnv, p Parsed) (Parsed, bool) {
	g := p.Gene
	for _, sep := range env.cfg.dashSpellings {
		g = strings.ReplaceAll(g, sep, "-")
	}
	if g == p.Gene {
		return p, false
	}
	p.Gene = g
	return p, true
}

// insertLocusSlashes repairs missing or dash-spelled slashes before a
// subordinate locus designation, e.g. TRAV14DV4 -> TRAV14/DV4,
// TRAV38-2-DV8 -> TRAV38-2/DV8, TRBV20OR9-2 -> TRBV20/OR9-2.
func insertLocusSlashes(_ *resolveEnv, p Parsed) (Parsed, bool) {
	g := repairLocusSlash(p.Gene, "DV", true)
	g = repairLocusSlash(g, "OR", false)
	if g == p.Gene {
		return p, false
	}
	p.Gene = g
	return p, true
}

// repairLocusSlash rewrites marker (with or without a preceding dash) into
// "/"+marker wherever it is not already preceded by a slash. chainGuard
// leaves chain names like TRDV intact.
func repairLocusSlash(s, marker string, chainGuard bool) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		rest := s[i:]
		dashed := strings.HasPrefix(rest, "-"+marker)
		if dashed || strings.HasPrefix(rest, marker) {
			slashed := i > 0 && s[i-1] == '/'
			chained := chainGuard && i >= 2 && s[i-2:i] == "TR"
			if !slashed && !chained {
				b.WriteByte('/')
				b.WriteString(marker)
				i += len(marker)
				if dashed {
					i++
				}
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

var geneLeadingZeroRE = regexp.MustCompile(`(^|[^0-9])0+`)

// stripGeneLeadingZeros collapses redundant leading zeros inside the gene
// name, e.g. TRBV07-01 -> TRBV7-1.
func stripGeneLeadingZeros(_ *resolveEnv, p Parsed) (Parsed, bool) {
	g := geneLeadingZeroRE.ReplaceAllString(p.Gene, "$1")
	if g == p.Gene {
		return p, false
	}
	p.Gene = g
	return p, true
}

// insertFamilyPrefix prepends the expected family prefix when absent,
// e.g. AJ1 -> TRAJ1, B*57:01 -> HLA-B*57:01.
func insertFamilyPrefix(env *resolveEnv, p Parsed) (Parsed, bool) {
	if strings.HasPrefix(p.Gene, env.cfg.prefix) {
		return p, false
	}
	p.Gene = env.cfg.prefix + p.Gene
	return p, true
}

var (
	travRE = regexp.MustCompile(`^TRAV\d+(-\d+)?$`)
	trdvRE = regexp.MustCompile(`^TRDV(\d+)$`)
)

// resolveDualNomenclature derives the compound TRAV/DV naming from either of
// its single-locus forms by scanning the catalog for a compatible entry.
// The derivation is only applied when exactly one compatible entry exists.
func resolveDualNomenclature(env *resolveEnv, p Parsed) (Parsed, bool) {
	if travRE.MatchString(p.Gene) {
		if hit, ok := uniqueGene(env.data, func(name string) bool {
			return strings.HasPrefix(name, p.Gene+"/DV")
		}); ok {
			p.Gene = hit
			return p, true
		}
	}
	if m := trdvRE.FindStringSubmatch(p.Gene); m != nil {
		if hit, ok := uniqueGene(env.data, func(name string) bool {
			return strings.HasSuffix(name, "/DV"+m[1])
		}); ok {
			p.Gene = hit
			return p, true
		}
	}
	return p, false
}

func uniqueGene(data *catalog.FamilyData, match func(string) bool) (string, bool) {
	var hit string
	for _, name := range data.GeneNames() {
		if !match(name) {
			continue
		}
		if hit != "" {
			return "", false
		}
		hit = name
	}
	return hit, hit != ""
}

var (
	geneNumberRE = regexp.MustCompile(`\d+(-\d+)?`)
	dashOneRE    = regexp.MustCompile(`^(\d+)(-1)?$`)
)

// dashOneVariants enumerates every combination of adding or removing a "-1"
// suffix over the numeric tokens of a gene name; only bare numbers and
// numbers already carrying "-1" are eligible. addMissing also proposes the
// suffix on tokens that lack it, otherwise only removals are generated. The
// original spelling is excluded.
func dashOneVariants(gene string, addMissing bool) []string {
	type token struct {
		num        string
		start, end int
	}
	var tokens []token
	for _, loc := range geneNumberRE.FindAllStringIndex(gene, -1) {
		m := dashOneRE.FindStringSubmatch(gene[loc[0]:loc[1]])
		if m == nil || (!addMissing && m[2] == "") {
			continue
		}
		tokens = append(tokens, token{num: m[1], start: loc[0], end: loc[1]})
	}
	if len(tokens) == 0 {
		return nil
	}

	var variants []string
	for mask := 0; mask < 1<<len(tokens); mask++ {
		var b strings.Builder
		prev := 0
		for i, tok := range tokens {
			b.WriteString(gene[prev:tok.start])
			b.WriteString(tok.num)
			if mask&(1<<(len(tokens)-1-i)) == 0 {
				b.WriteString("-1")
			}
			prev = tok.end
		}
		b.WriteString(gene[prev:])
		if v := b.String(); v != gene {
			variants = append(variants, v)
		}
	}
	return variants
}

// expandDashOneVariants re-runs the cascade on each dash-one variant of the
// gene name, e.g. TRAV14-1/DV4 -> TRAV14/DV4. The recursion guard keeps the
// expansion from firing again inside the nested resolutions.
func expandDashOneVariants(env *resolveEnv, p Parsed) (Parsed, bool) {
	if !env.mayExpandDashOne {
		return p, false
	}
	sub := &resolveEnv{cfg: env.cfg, data: env.data}
	for _, variant := range dashOneVariants(p.Gene, true) {
		q := p.Clone()
		q.Gene = variant
		if r, ok := resolve(sub, q); ok {
			return r, true
		}
	}
	return p, false
}

// stripDashOneVariants removes redundant "-1" suffixes, checking each
// combination directly against the catalog.
func stripDashOneVariants(env *resolveEnv, p Parsed) (Parsed, bool) {
	for _, variant := range dashOneVariants(p.Gene, false) {
		q := p.Clone()
		q.Gene = variant
		if env.cfg.accepts(env, q) {
			return q, true
		}
	}
	return p, false
}

// rewriteCwGene drops the legacy serology W from the HLA-C gene name,
// e.g. HLA-CW*07:02 -> HLA-C*07:02.
func rewriteCwGene(_ *resolveEnv, p Parsed) (Parsed, bool) {
	if !strings.Contains(p.Gene, "CW") {
		return p, false
	}
	p.Gene = strings.ReplaceAll(p.Gene, "CW", "C")
	return p, true
}

// splitForgottenAsterisk recovers a missing asterisk separator by matching
// the longest known gene name that prefixes the symbol and treating the
// remainder as the allele designation, e.g. HLA-B5701 -> HLA-B, [57 01].
func splitForgottenAsterisk(env *resolveEnv, p Parsed) (Parsed, bool) {
	if len(p.Fields) > 0 {
		return p, false
	}
	var best string
	for _, name := range env.data.GeneNames() {
		if name != p.Gene && strings.HasPrefix(p.Gene, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return p, false
	}
	rest := strings.TrimPrefix(p.Gene[len(best):], "*")
	p.Gene = best
	p.Fields = env.cfg.splitFields(rest)
	return p, true
}

// splitForgottenColons breaks an even-width numeric designation field into
// its two-digit components, e.g. 5701 -> 57:01.
func splitForgottenColons(_ *resolveEnv, p Parsed) (Parsed, bool) {
	changed := false
	var out []string
	for _, f := range p.Fields {
		if isNumeric(f) && len(f) >= 4 && len(f)%2 == 0 {
			for i := 0; i < len(f); i += 2 {
				out = append(out, f[i:i+2])
			}
			changed = true
			continue
		}
		out = append(out, f)
	}
	if !changed {
		return p, false
	}
	p.Fields = out
	return p, true
}

// searchDesignationZeros tries all leading-zero widths on the first two
// designation fields. The search is bounded and deterministic; the first
// combination accepted by the oracle wins.
func searchDesignationZeros(env *resolveEnv, p Parsed) (Parsed, bool) {
	if len(p.Fields) == 0 || !env.data.HasGene(p.Gene) {
		return p, false
	}
	first := zeroWidthVariants(p.Fields[0])
	second := []string{""}
	if len(p.Fields) > 1 {
		second = zeroWidthVariants(p.Fields[1])
	}
	for _, a := range first {
		for _, b := range second {
			q := p.Clone()
			q.Fields[0] = a
			if len(q.Fields) > 1 {
				q.Fields[1] = b
			}
			if env.cfg.accepts(env, q) {
				return q, true
			}
		}
	}
	return p, false
}

func zeroWidthVariants(f string) []string {
	if !isNumeric(f) {
		return []string{f}
	}
	stripped := strings.TrimLeft(f, "0")
	if stripped == "" {
		stripped = "0"
	}
	variants := []string{f}
	for _, width := range []int{2, 3} {
		v := stripped
		for len(v) < width {
			v = "0" + v
		}
		variants = appendUnique(variants, v)
	}
	return appendUnique(variants, stripped)
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
