package optitrim

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// Subsample keeps each read with probability fraction and writes the reduced
// dataset to outDir as gzip FASTQ. Paired mates are kept or dropped
// together, and samples whose subsample comes out empty are dropped from the
// result. The RNG is seeded by the caller so a run is reproducible.
func Subsample(dem *Demux, fraction float64, seed int64, outDir string) (*Demux, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("subsample fraction %v outside (0, 1]", fraction)}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	out := &Demux{Dir: outDir, Paired: dem.Paired}

	for _, s := range dem.Samples {
		sub := Sample{
			ID:      s.ID,
			Forward: filepath.Join(outDir, s.ID+"_R1.fastq.gz"),
		}
		if dem.Paired {
			sub.Reverse = filepath.Join(outDir, s.ID+"_R2.fastq.gz")
		}

		kept, err := subsampleSample(s, sub, fraction, rng, dem.Paired)
		if err != nil {
			return nil, err
		}
		if kept == 0 {
			// drop empty results so downstream stats stay well defined
			os.Remove(sub.Forward)
			if sub.Reverse != "" {
				os.Remove(sub.Reverse)
			}
			continue
		}
		out.Samples = append(out.Samples, sub)
	}

	if len(out.Samples) == 0 {
		return nil, &DataAccessError{Path: dem.Dir, Err: fmt.Errorf("subsampling at fraction %v left no reads", fraction)}
	}

	return out, nil
}

func subsampleSample(in, out Sample, fraction float64, rng *rand.Rand, paired bool) (kept int, err error) {
	fwdReader, err := fastx.NewReader(seq.DNAredundant, in.Forward, fastx.DefaultIDRegexp)
	if err != nil {
		return 0, &DataAccessError{Path: in.Forward, Err: err}
	}
	defer fwdReader.Close()

	fwdOut, err := xopen.Wopen(out.Forward)
	if err != nil {
		return 0, err
	}
	defer fwdOut.Close()

	var revReader *fastx.Reader
	var revOut *xopen.Writer
	if paired {
		revReader, err = fastx.NewReader(seq.DNAredundant, in.Reverse, fastx.DefaultIDRegexp)
		if err != nil {
			return 0, &DataAccessError{Path: in.Reverse, Err: err}
		}
		defer revReader.Close()

		revOut, err = xopen.Wopen(out.Reverse)
		if err != nil {
			return 0, err
		}
		defer revOut.Close()
	}

	for {
		fwd, err := fwdReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return kept, &DataAccessError{Path: in.Forward, Err: err}
		}

		var rev *fastx.Record
		if paired {
			rev, err = revReader.Read()
			if err != nil {
				if err == io.EOF {
					err = fmt.Errorf("fewer reads than forward mate")
				}
				return kept, &DataAccessError{Path: in.Reverse, Err: err}
			}
		}

		// one draw per fragment keeps mates in lockstep
		if rng.Float64() >= fraction {
			continue
		}

		fwd.FormatToWriter(fwdOut, 0)
		if paired {
			rev.FormatToWriter(revOut, 0)
		}
		kept++
	}

	return kept, nil
}
