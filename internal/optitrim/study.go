package optitrim

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
)

// TrialState tags how a trial ended. Pruned trials were never evaluated;
// failed trials were evaluated but the external denoiser call did not
// produce usable statistics; abandoned trials finished after the wall-clock
// deadline and do not count toward the result.
type TrialState int

const (
	TrialPruned TrialState = iota
	TrialScored
	TrialFailed
	TrialAbandoned
)

func (s TrialState) String() string {
	switch s {
	case TrialPruned:
		return "pruned"
	case TrialScored:
		return "scored"
	case TrialFailed:
		return "failed"
	case TrialAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Candidate is one trial's proposed truncation lengths.
type Candidate struct {
	TruncF int
	TruncR int
	Paired bool
}

// TrialOutcome records one trial: the candidate, how it ended, the score for
// scored trials, and a truncated diagnostic for failed ones.
type TrialOutcome struct {
	Number    int
	Candidate Candidate
	State     TrialState
	Score     float64
	Err       string
}

// Study is the full record of a search run.
type Study struct {
	Outcomes []TrialOutcome
	Best     *TrialOutcome
}

// Pruned counts trials discarded before evaluation.
func (s *Study) Pruned() int { return s.countState(TrialPruned) }

// Failed counts trials whose evaluation failed.
func (s *Study) Failed() int { return s.countState(TrialFailed) }

func (s *Study) countState(state TrialState) (n int) {
	for _, o := range s.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}

// Recommendation is the single-row recommended-parameters table, keyed
// "recommended". Columns are ordered so repeated assembly of the same best
// candidate renders byte-identical output.
type Recommendation struct {
	Columns []string
	Values  []int
}

// AssembleRecommendation packages the best candidate plus the caller's
// primer lengths, overlap and thread count. Single-end runs use a single
// trunc_len column and omit the reverse-side columns.
func AssembleRecommendation(best Candidate, trimF, trimR, minOverlap, threads int) Recommendation {
	if !best.Paired {
		return Recommendation{
			Columns: []string{"trunc_len", "trim_left_f", "min_overlap", "n_threads"},
			Values:  []int{best.TruncF, trimF, minOverlap, threads},
		}
	}
	return Recommendation{
		Columns: []string{"trunc_len_f", "trunc_len_r", "trim_left_f", "trim_left_r", "min_overlap", "n_threads"},
		Values:  []int{best.TruncF, best.TruncR, trimF, trimR, minOverlap, threads},
	}
}

// Params returns the recommendation as a name -> value map, the form stored
// in the study summary.
func (r Recommendation) Params() map[string]int {
	m := make(map[string]int, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalTSV renders the table as tab-separated metadata with an id column
// and a single "recommended" row.
func (r Recommendation) MarshalTSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = '\t'

	header := append([]string{"id"}, r.Columns...)
	row := make([]string, 0, len(r.Values)+1)
	row = append(row, "recommended")
	for _, v := range r.Values {
		row = append(row, strconv.Itoa(v))
	}

	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WriteTSV writes the table to path.
func (r Recommendation) WriteTSV(path string) error {
	b, err := r.MarshalTSV()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// StudySummary is the structured, human-readable study document.
type StudySummary struct {
	BestParams  map[string]int `json:"best_params"`
	BestValue   float64        `json:"best_value"`
	NTrials     int            `json:"n_trials"`
	Direction   string         `json:"direction"`
	ReadLengths ReadLengthPair `json:"read_lengths"`
	Paired      bool           `json:"paired"`
}

// AssembleSummary builds the summary from a finished study. Pure assembly,
// no further computation.
func AssembleSummary(rec Recommendation, study *Study, direction string, lens ReadLengthPair, paired bool) StudySummary {
	return StudySummary{
		BestParams:  rec.Params(),
		BestValue:   study.Best.Score,
		NTrials:     len(study.Outcomes),
		Direction:   direction,
		ReadLengths: lens,
		Paired:      paired,
	}
}

// MarshalIndent renders the summary with stable key order (maps marshal
// sorted), so identical inputs give identical bytes.
func (s StudySummary) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// WriteJSON writes the summary document to path.
func (s StudySummary) WriteJSON(path string) error {
	b, err := s.MarshalIndent()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0644)
}
