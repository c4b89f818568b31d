package optitrim

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SampleStats is one sample's row of the denoiser's statistics table.
type SampleStats struct {
	Sample      string
	Input       int
	NonChimeric int
}

// DenoiseRequest carries one trial's parameters to the external denoiser.
// WorkDir is this trial's private scratch directory; the denoiser writes its
// intermediates and stats table under it and nothing outside it.
type DenoiseRequest struct {
	InputDir   string
	WorkDir    string
	TruncF     int
	TruncR     int
	TrimF      int
	TrimR      int
	MinOverlap int
	Threads    int
	Paired     bool
}

// Denoiser runs the external denoising step for one candidate and reports
// per-sample read counts.
type Denoiser interface {
	Denoise(req DenoiseRequest) ([]SampleStats, error)
}

// ExecDenoiser shells out to a denoiser executable (a DADA2 wrapper). Any
// failure of the external process is returned as an error for the evaluator
// to absorb.
type ExecDenoiser struct {
	// Command is the executable name or path.
	Command string
}

// denoiseExec is a small utility object for one denoiser invocation.
type denoiseExec struct {
	cmd   string
	req   DenoiseRequest
	stats string
}

// Denoise runs the external command and parses its stats table.
func (d *ExecDenoiser) Denoise(req DenoiseRequest) ([]SampleStats, error) {
	e := &denoiseExec{
		cmd:   d.Command,
		req:   req,
		stats: filepath.Join(req.WorkDir, "stats.tsv"),
	}

	if err := e.run(); err != nil {
		return nil, err
	}
	return e.parse()
}

// args assembles the command line. Every setting is an explicit flag; the
// scratch location is passed directly rather than through the environment.
func (e *denoiseExec) args() []string {
	args := []string{
		"--input-dir", e.req.InputDir,
		"--work-dir", e.req.WorkDir,
		"--output-stats", e.stats,
		"--trim-left-f", strconv.Itoa(e.req.TrimF),
		"--threads", strconv.Itoa(e.req.Threads),
	}
	if e.req.Paired {
		args = append(args,
			"--paired",
			"--trunc-len-f", strconv.Itoa(e.req.TruncF),
			"--trunc-len-r", strconv.Itoa(e.req.TruncR),
			"--trim-left-r", strconv.Itoa(e.req.TrimR),
			"--min-overlap", strconv.Itoa(e.req.MinOverlap),
		)
	} else {
		args = append(args, "--trunc-len", strconv.Itoa(e.req.TruncF))
	}
	return args
}

// run calls the external denoiser binary.
func (e *denoiseExec) run() error {
	var stderr bytes.Buffer
	cmd := exec.Command(e.cmd, e.args()...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s failed: %v: %s", e.cmd, err, msg)
		}
		return fmt.Errorf("%s failed: %v", e.cmd, err)
	}
	return nil
}

// parse reads the per-sample stats table: TSV with a sample-id column plus
// at least "input" and "non-chimeric" counts. Extra columns (filtered,
// denoised, merged) are ignored, and '#'-prefixed rows are skipped.
func (e *denoiseExec) parse() ([]SampleStats, error) {
	f, err := os.Open(e.stats)
	if err != nil {
		return nil, fmt.Errorf("denoiser wrote no stats table: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed stats table %s: %v", e.stats, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("stats table %s has no sample rows", e.stats)
	}

	inputCol, chimCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "input":
			inputCol = i
		case "non-chimeric":
			chimCol = i
		}
	}
	if inputCol < 0 || chimCol < 0 {
		return nil, fmt.Errorf("stats table %s lacks input/non-chimeric columns", e.stats)
	}

	var stats []SampleStats
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.HasPrefix(row[0], "#") {
			continue // q2:types row and friends
		}
		if len(row) <= inputCol || len(row) <= chimCol {
			return nil, fmt.Errorf("stats table %s has a short row for %q", e.stats, row[0])
		}

		input, err := strconv.Atoi(strings.TrimSpace(row[inputCol]))
		if err != nil {
			return nil, fmt.Errorf("bad input count for sample %q: %v", row[0], err)
		}
		chim, err := strconv.Atoi(strings.TrimSpace(row[chimCol]))
		if err != nil {
			return nil, fmt.Errorf("bad non-chimeric count for sample %q: %v", row[0], err)
		}

		stats = append(stats, SampleStats{Sample: row[0], Input: input, NonChimeric: chim})
	}

	if len(stats) == 0 {
		return nil, fmt.Errorf("stats table %s has no sample rows", e.stats)
	}
	return stats, nil
}
