package optitrim

import (
	"io"
	"testing"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

func countReads(t *testing.T, path string) int {
	t.Helper()
	reader, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer reader.Close()

	n := 0
	for {
		_, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("read %s: %v", path, err)
		}
		n++
	}
	return n
}

func Test_Subsample_full_fraction_keeps_everything(t *testing.T) {
	dir := t.TempDir()
	writeFastq(t, dir, "sampleA_R1.fastq", 5, 150)
	writeFastq(t, dir, "sampleA_R2.fastq", 5, 150)
	writeFastq(t, dir, "sampleB_R1.fastq", 3, 150)
	writeFastq(t, dir, "sampleB_R2.fastq", 3, 150)

	dem, err := LoadDemux(dir)
	if err != nil {
		t.Fatal(err)
	}

	sub, err := Subsample(dem, 1.0, 42, t.TempDir())
	if err != nil {
		t.Fatalf("Subsample() error: %v", err)
	}
	if !sub.Paired {
		t.Error("subsample lost the paired flag")
	}
	if len(sub.Samples) != 2 {
		t.Fatalf("subsample has %d samples, want 2", len(sub.Samples))
	}

	wantCounts := map[string]int{"sampleA": 5, "sampleB": 3}
	for _, s := range sub.Samples {
		want := wantCounts[s.ID]
		if got := countReads(t, s.Forward); got != want {
			t.Errorf("sample %s forward has %d reads, want %d", s.ID, got, want)
		}
		if got := countReads(t, s.Reverse); got != want {
			t.Errorf("sample %s reverse has %d reads, want %d (mates must move in lockstep)", s.ID, got, want)
		}
	}
}

func Test_Subsample_drops_everything_at_tiny_fraction(t *testing.T) {
	dir := t.TempDir()
	writeFastq(t, dir, "sampleA_R1.fastq", 5, 150)

	dem, err := LoadDemux(dir)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Subsample(dem, 1e-12, 42, t.TempDir())
	if _, ok := err.(*DataAccessError); !ok {
		t.Errorf("Subsample() error = %T (%v), want *DataAccessError once every sample is dropped", err, err)
	}
}

func Test_Subsample_rejects_bad_fraction(t *testing.T) {
	dem := &Demux{Samples: []Sample{{ID: "a", Forward: "a_R1.fastq"}}}

	for _, fraction := range []float64{0, -0.5, 1.5} {
		if _, err := Subsample(dem, fraction, 1, t.TempDir()); err == nil {
			t.Errorf("Subsample(fraction=%v) = nil error, want ConfigurationError", fraction)
		}
	}
}

func Test_Subsample_deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFastq(t, dir, "sampleA_R1.fastq", 40, 150)

	dem, err := LoadDemux(dir)
	if err != nil {
		t.Fatal(err)
	}

	subA, err := Subsample(dem, 0.5, 7, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	subB, err := Subsample(dem, 0.5, 7, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if a, b := countReads(t, subA.Samples[0].Forward), countReads(t, subB.Samples[0].Forward); a != b {
		t.Errorf("identically seeded subsamples differ: %d vs %d reads", a, b)
	}
}
