package optitrim

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// maxDiagnostic caps the retained failure message per trial.
const maxDiagnostic = 200

// Evaluator scores one candidate by running the external denoiser on the
// subsampled dataset and measuring the fraction of reads that survive.
type Evaluator struct {
	Denoiser Denoiser

	// InputDir is the subsampled dataset fed to every trial.
	InputDir string

	// WorkRoot is the caller-supplied scratch root; each trial gets a
	// private directory under it, removed when the trial ends.
	WorkRoot string

	TrimF      int
	TrimR      int
	MinOverlap int
	Threads    int
	Paired     bool
}

// Evaluate runs one trial. An external failure never propagates: the trial
// comes back TrialFailed with score 0 and a truncated diagnostic, and the
// search continues.
func (e *Evaluator) Evaluate(c Candidate) TrialOutcome {
	out := TrialOutcome{Candidate: c}

	scratch := filepath.Join(e.WorkRoot, "trial-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0755); err != nil {
		out.State = TrialFailed
		out.Err = truncate(err.Error(), maxDiagnostic)
		return out
	}
	defer os.RemoveAll(scratch)

	trimR := e.TrimR
	if !c.Paired {
		trimR = 0
	}
	stats, err := e.Denoiser.Denoise(DenoiseRequest{
		InputDir:   e.InputDir,
		WorkDir:    scratch,
		TruncF:     c.TruncF,
		TruncR:     c.TruncR,
		TrimF:      e.TrimF,
		TrimR:      trimR,
		MinOverlap: e.MinOverlap,
		Threads:    e.Threads,
		Paired:     c.Paired,
	})
	if err != nil {
		out.State = TrialFailed
		out.Err = truncate(err.Error(), maxDiagnostic)
		return out
	}

	out.State = TrialScored
	out.Score = survivalScore(stats)
	return out
}

// survivalScore is the mean, across samples, of the fraction of input reads
// that survive the full denoising pipeline. One sample ending with zero
// surviving reads forces the score to 0: the recommended parameters must
// work for the whole run, not just some samples.
func survivalScore(stats []SampleStats) float64 {
	var sum float64
	for _, s := range stats {
		if s.NonChimeric == 0 || s.Input == 0 {
			return 0
		}
		sum += float64(s.NonChimeric) / float64(s.Input)
	}
	return sum / float64(len(stats))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
