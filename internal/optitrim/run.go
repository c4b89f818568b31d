// Package optitrim searches for denoising truncation lengths that keep the
// most reads alive. The search subsamples the input, probes native read
// lengths, and drives a seeded sampler over the feasible truncation grid,
// scoring each candidate by the read survival fraction reported by an
// external denoiser.
package optitrim

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haradama/q2-optitrim/config"
)

// OptimizeCmd is the cobra Run handler for `optitrim optimize`.
func OptimizeCmd(cmd *cobra.Command, args []string) {
	c, err := config.New()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := Optimize(c); err != nil {
		log.Fatalf("%v", err)
	}
}

// Optimize runs the whole pipeline: subsample, probe, search, and write the
// two output artifacts. Fatal errors return before either artifact exists.
func Optimize(c config.Config) error {
	start := time.Now()

	seed := c.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}

	dem, err := LoadDemux(c.Demux)
	if err != nil {
		return err
	}
	log.Printf("loaded %d sample(s) from %s (paired=%v)", len(dem.Samples), c.Demux, dem.Paired)

	// the subsample and all per-trial scratch live under one run directory
	runDir := filepath.Join(c.WorkDir, "optitrim-"+uuid.NewString())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}
	defer os.RemoveAll(runDir)

	sub, err := Subsample(dem, c.Fraction, seed, filepath.Join(runDir, "subsample"))
	if err != nil {
		return err
	}

	lens, err := ProbeReadLengths(sub)
	if err != nil {
		return err
	}
	log.Printf("native read lengths: forward=%d reverse=%d", lens.Forward, lens.Reverse)

	space := &SearchSpace{
		Bounds:      SearchBounds{MinTrunc: c.MinTrunc, MaxTrunc: c.MaxTrunc, Step: c.Step},
		AmpliconLen: c.AmpliconLength,
		MinOverlap:  c.MinOverlap,
		Reads:       lens,
		Paired:      sub.Paired,
	}

	eval := &Evaluator{
		Denoiser:   &ExecDenoiser{Command: c.Denoiser},
		InputDir:   sub.Dir,
		WorkRoot:   runDir,
		TrimF:      c.FwdPrimerLength,
		TrimR:      c.RevPrimerLength,
		MinOverlap: c.MinOverlap,
		Threads:    c.Threads,
		Paired:     sub.Paired,
	}

	sampler, err := NewSampler(c.Sampler, seed, c.Direction != "minimize")
	if err != nil {
		return err
	}

	driver := &Driver{
		Space:     space,
		Sampler:   sampler,
		Evaluate:  eval.Evaluate,
		Trials:    c.Trials,
		Timeout:   time.Duration(c.Timeout) * time.Second,
		Direction: c.Direction,
		Verbose:   true,
	}

	study, err := driver.Run()
	if err != nil {
		return err
	}

	rec := AssembleRecommendation(
		study.Best.Candidate,
		c.FwdPrimerLength, c.RevPrimerLength,
		c.MinOverlap, c.Threads,
	)
	summary := AssembleSummary(rec, study, c.Direction, lens, sub.Paired)

	if err := rec.WriteTSV(c.ParamsOut); err != nil {
		return err
	}
	if err := summary.WriteJSON(c.StudyOut); err != nil {
		return err
	}

	log.Printf(
		"best score %.4f after %d trial(s) (%d pruned, %d failed) in %s",
		study.Best.Score, len(study.Outcomes), study.Pruned(), study.Failed(),
		time.Since(start).Round(time.Second),
	)
	return nil
}
