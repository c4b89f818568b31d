package optitrim

import (
	"math"
	"math/rand"
	"sort"
)

// Sampler proposes the next value for one parameter of a trial. current
// holds the parameters already drawn for the trial in progress, so a sampler
// can correlate the reverse proposal with the forward value instead of
// drawing them independently. history is the record of finished trials; only
// scored trials inform the model. r must be non-empty: the driver prunes
// infeasible regions before asking for a proposal.
//
// Samplers are driven from a single goroutine and need not be safe for
// concurrent use.
type Sampler interface {
	Suggest(name string, r IntRange, step int, current map[string]int, history []TrialOutcome) int
}

// NewSampler returns a seeded sampler. kind is "tpe" (default search
// algorithm) or "random".
func NewSampler(kind string, seed int64, maximize bool) (Sampler, error) {
	rng := rand.New(rand.NewSource(seed))
	switch kind {
	case "tpe":
		return &tpeSampler{rng: rng, startup: 10, gamma: 0.25, maximize: maximize}, nil
	case "random":
		return &randomSampler{rng: rng}, nil
	}
	return nil, &ConfigurationError{Reason: "unknown sampler " + kind}
}

// gridValues enumerates the step grid anchored at the interval's low end.
func gridValues(r IntRange, step int) []int {
	if r.Empty() {
		return nil
	}
	vals := make([]int, 0, (r.Hi-r.Lo)/step+1)
	for v := r.Lo; v <= r.Hi; v += step {
		vals = append(vals, v)
	}
	return vals
}

// paramValue reads a named parameter off a finished trial's candidate.
func paramValue(c Candidate, name string) int {
	if name == "trunc_r" {
		return c.TruncR
	}
	return c.TruncF
}

// randomSampler draws uniformly on the grid.
type randomSampler struct {
	rng *rand.Rand
}

func (s *randomSampler) Suggest(name string, r IntRange, step int, current map[string]int, history []TrialOutcome) int {
	grid := gridValues(r, step)
	return grid[s.rng.Intn(len(grid))]
}

// tpeSampler is a tree-structured Parzen estimator over the integer grid.
// Scored trials are split into a good and a bad group at the gamma quantile;
// each group induces a kernel-density estimate over the grid, and the
// candidate maximizing the good/bad density ratio is proposed. When the
// trial in progress already fixed trunc_f, the kernels for trunc_r are
// weighted by how close each past trial's trunc_f lies to the fixed value,
// which couples the two parameters.
type tpeSampler struct {
	rng      *rand.Rand
	startup  int
	gamma    float64
	maximize bool
}

func (s *tpeSampler) Suggest(name string, r IntRange, step int, current map[string]int, history []TrialOutcome) int {
	grid := gridValues(r, step)
	if len(grid) == 1 {
		return grid[0]
	}

	scored := make([]TrialOutcome, 0, len(history))
	for _, o := range history {
		if o.State == TrialScored {
			scored = append(scored, o)
		}
	}
	if len(scored) < s.startup {
		return grid[s.rng.Intn(len(grid))]
	}

	good, bad := s.split(scored)
	bw := bandwidth(r, step)

	var bestVal int
	bestRatio := math.Inf(-1)
	for _, v := range grid {
		l := s.density(v, name, good, bw, current)
		g := s.density(v, name, bad, bw, current)
		if ratio := l / g; ratio > bestRatio {
			bestRatio = ratio
			bestVal = v
		}
	}
	return bestVal
}

// split orders scored trials best-first and cuts at the gamma quantile.
// Sorting is stable on trial number so equal scores split identically
// across runs.
func (s *tpeSampler) split(scored []TrialOutcome) (good, bad []TrialOutcome) {
	ordered := make([]TrialOutcome, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score == ordered[j].Score {
			return ordered[i].Number < ordered[j].Number
		}
		if s.maximize {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].Score < ordered[j].Score
	})

	nGood := int(s.gamma * float64(len(ordered)))
	if nGood < 1 {
		nGood = 1
	}
	return ordered[:nGood], ordered[nGood:]
}

// density is a Parzen estimate at v from one group's observations, with a
// uniform prior mass so neither group's density is ever zero.
func (s *tpeSampler) density(v int, name string, group []TrialOutcome, bw float64, current map[string]int) float64 {
	const prior = 1e-3

	d := prior
	for _, o := range group {
		w := 1.0
		if name == "trunc_r" {
			if tf, ok := current["trunc_f"]; ok {
				w = gauss(float64(tf-o.Candidate.TruncF), bw)
			}
		}
		d += w * gauss(float64(v-paramValue(o.Candidate, name)), bw)
	}
	return d
}

func bandwidth(r IntRange, step int) float64 {
	bw := float64(r.Hi-r.Lo) / 8
	if bw < float64(step) {
		bw = float64(step)
	}
	return bw
}

func gauss(d, bw float64) float64 {
	return math.Exp(-(d * d) / (2 * bw * bw))
}
