package optitrim

import (
	"log"
	"time"
)

// Driver runs the search: it proposes candidates through the sampler,
// prunes infeasible regions, evaluates the rest, and keeps the best scored
// trial. Trials run strictly one at a time; the sampler's proposal for
// trial k+1 may depend on the outcome of trial k.
type Driver struct {
	Space   *SearchSpace
	Sampler Sampler

	// Evaluate scores one feasible candidate. Failures come back as
	// TrialFailed outcomes, never as panics or aborts.
	Evaluate func(Candidate) TrialOutcome

	// Trials caps the number of proposals (pruned ones included).
	Trials int

	// Timeout, when positive, is the wall-clock budget across all trials.
	// No trial starts after expiry; one finishing past it is abandoned.
	Timeout time.Duration

	// Direction is "maximize" or "minimize".
	Direction string

	// Verbose logs one line per trial.
	Verbose bool
}

// Run executes the search. It returns a BudgetExhaustedError when the
// budget runs out with no scored trial, since no recommendation can be made.
func (d *Driver) Run() (*Study, error) {
	study := &Study{}
	step := d.Space.Bounds.Step

	var deadline time.Time
	if d.Timeout > 0 {
		deadline = time.Now().Add(d.Timeout)
	}

	for i := 0; i < d.Trials; i++ {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}

		out := d.runTrial(i, step, study.Outcomes)

		if out.State == TrialScored && !deadline.IsZero() && time.Now().After(deadline) {
			// finished past the deadline: keep the record for
			// diagnostics but never count the result
			out.State = TrialAbandoned
			out.Score = 0
			study.Outcomes = append(study.Outcomes, out)
			break
		}

		study.Outcomes = append(study.Outcomes, out)
		if out.State == TrialScored && d.better(out, study.Best) {
			best := out
			study.Best = &best
		}

		if d.Verbose {
			d.logTrial(out)
		}
	}

	if study.Best == nil {
		return nil, &BudgetExhaustedError{
			Trials: len(study.Outcomes),
			Pruned: study.Pruned(),
			Failed: study.Failed(),
		}
	}
	return study, nil
}

func (d *Driver) runTrial(number, step int, history []TrialOutcome) TrialOutcome {
	current := map[string]int{}

	fr := d.Space.ForwardRange()
	if fr.Empty() {
		return TrialOutcome{
			Number:    number,
			Candidate: Candidate{Paired: d.Space.Paired},
			State:     TrialPruned,
		}
	}

	truncF := d.Sampler.Suggest("trunc_f", fr, step, current, history)
	current["trunc_f"] = truncF
	cand := Candidate{TruncF: truncF, Paired: d.Space.Paired}

	if d.Space.Paired {
		rr, ok := d.Space.ReverseRange(truncF)
		if !ok {
			return TrialOutcome{Number: number, Candidate: cand, State: TrialPruned}
		}
		cand.TruncR = d.Sampler.Suggest("trunc_r", rr, step, current, history)
	} else if !d.Space.FeasibleSingle(truncF) {
		return TrialOutcome{Number: number, Candidate: cand, State: TrialPruned}
	}

	out := d.Evaluate(cand)
	out.Number = number
	out.Candidate = cand
	return out
}

// better reports whether o beats the incumbent. Failed and pruned trials are
// never eligible in either direction (a failed trial scoring 0 must not win
// a minimize run). Comparison is strict, so among equal scores the first
// trial discovered wins; that tie-break is deliberate and documented here.
func (d *Driver) better(o TrialOutcome, best *TrialOutcome) bool {
	if best == nil {
		return true
	}
	if d.Direction == "minimize" {
		return o.Score < best.Score
	}
	return o.Score > best.Score
}

func (d *Driver) logTrial(o TrialOutcome) {
	switch o.State {
	case TrialPruned:
		log.Printf("trial %d: trunc_f=%d pruned (infeasible region)", o.Number, o.Candidate.TruncF)
	case TrialFailed:
		log.Printf("trial %d: trunc_f=%d trunc_r=%d failed: %s", o.Number, o.Candidate.TruncF, o.Candidate.TruncR, o.Err)
	case TrialAbandoned:
		log.Printf("trial %d: abandoned at timeout", o.Number)
	default:
		log.Printf("trial %d: trunc_f=%d trunc_r=%d score=%.4f", o.Number, o.Candidate.TruncF, o.Candidate.TruncR, o.Score)
	}
}
