package optitrim

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func Test_AssembleRecommendation(t *testing.T) {
	tests := []struct {
		name string
		best Candidate
		want Recommendation
	}{
		{
			"paired",
			Candidate{TruncF: 240, TruncR: 180, Paired: true},
			Recommendation{
				Columns: []string{"trunc_len_f", "trunc_len_r", "trim_left_f", "trim_left_r", "min_overlap", "n_threads"},
				Values:  []int{240, 180, 20, 18, 12, 4},
			},
		},
		{
			"single-end",
			Candidate{TruncF: 240},
			Recommendation{
				Columns: []string{"trunc_len", "trim_left_f", "min_overlap", "n_threads"},
				Values:  []int{240, 20, 12, 4},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssembleRecommendation(tt.best, 20, 18, 12, 4)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssembleRecommendation() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func Test_Recommendation_MarshalTSV(t *testing.T) {
	rec := AssembleRecommendation(Candidate{TruncF: 240, TruncR: 180, Paired: true}, 20, 18, 12, 4)

	b, err := rec.MarshalTSV()
	if err != nil {
		t.Fatalf("MarshalTSV() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("table has %d lines, want header + one row", len(lines))
	}
	if lines[0] != "id\ttrunc_len_f\ttrunc_len_r\ttrim_left_f\ttrim_left_r\tmin_overlap\tn_threads" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "recommended\t240\t180\t20\t18\t12\t4" {
		t.Errorf("row = %q", lines[1])
	}
}

func Test_aggregation_idempotent(t *testing.T) {
	best := TrialOutcome{Number: 3, Candidate: Candidate{TruncF: 240, TruncR: 180, Paired: true}, State: TrialScored, Score: 0.91}
	study := &Study{
		Outcomes: []TrialOutcome{{State: TrialPruned}, {State: TrialFailed}, best},
		Best:     &best,
	}
	lens := ReadLengthPair{Forward: 250, Reverse: 250}

	render := func() ([]byte, []byte) {
		rec := AssembleRecommendation(best.Candidate, 20, 18, 12, 4)
		tsv, err := rec.MarshalTSV()
		if err != nil {
			t.Fatal(err)
		}
		sum, err := AssembleSummary(rec, study, "maximize", lens, true).MarshalIndent()
		if err != nil {
			t.Fatal(err)
		}
		return tsv, sum
	}

	tsvA, sumA := render()
	tsvB, sumB := render()

	if !bytes.Equal(tsvA, tsvB) {
		t.Error("recommended-parameter tables differ across identical calls")
	}
	if !bytes.Equal(sumA, sumB) {
		t.Error("study summaries differ across identical calls")
	}
}

func Test_AssembleSummary(t *testing.T) {
	best := TrialOutcome{Number: 1, Candidate: Candidate{TruncF: 240, TruncR: 180, Paired: true}, State: TrialScored, Score: 0.91}
	study := &Study{
		Outcomes: []TrialOutcome{{State: TrialPruned}, best, {State: TrialFailed}},
		Best:     &best,
	}
	rec := AssembleRecommendation(best.Candidate, 20, 18, 12, 4)

	got := AssembleSummary(rec, study, "maximize", ReadLengthPair{Forward: 250, Reverse: 250}, true)

	if got.BestValue != 0.91 {
		t.Errorf("BestValue = %v, want 0.91", got.BestValue)
	}
	if got.NTrials != 3 {
		t.Errorf("NTrials = %d, want 3 (pruned and failed trials count)", got.NTrials)
	}
	if got.BestParams["trunc_len_f"] != 240 || got.BestParams["trunc_len_r"] != 180 {
		t.Errorf("BestParams = %v", got.BestParams)
	}
	if !got.Paired || got.Direction != "maximize" {
		t.Errorf("summary flags wrong: %+v", got)
	}
}

func Test_StudySummary_json_shape(t *testing.T) {
	best := TrialOutcome{Candidate: Candidate{TruncF: 100}, State: TrialScored, Score: 0.5}
	study := &Study{Outcomes: []TrialOutcome{best}, Best: &best}
	rec := AssembleRecommendation(best.Candidate, 20, 0, 12, 0)

	b, err := AssembleSummary(rec, study, "maximize", ReadLengthPair{Forward: 150}, false).MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"best_params", "best_value", "n_trials", "direction", "read_lengths", "paired"} {
		if !strings.Contains(string(b), `"`+key+`"`) {
			t.Errorf("summary JSON lacks %q:\n%s", key, b)
		}
	}
}
