package optitrim

import (
	"fmt"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

// firstReadLen returns the sequence length of the first record in a FASTQ
// file without scanning the rest.
func firstReadLen(path string) (int, error) {
	reader, err := fastx.NewReader(seq.DNAredundant, path, fastx.DefaultIDRegexp)
	if err != nil {
		return 0, &DataAccessError{Path: path, Err: err}
	}
	defer reader.Close()

	record, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("file holds no reads")
		}
		return 0, &DataAccessError{Path: path, Err: err}
	}
	return len(record.Seq.Seq), nil
}

// ProbeReadLengths measures the native read length per direction from the
// first record of the first sample. The result bounds the truncation search
// from above.
func ProbeReadLengths(dem *Demux) (ReadLengthPair, error) {
	var lens ReadLengthPair

	if len(dem.Samples) == 0 {
		return lens, &DataAccessError{Path: dem.Dir, Err: fmt.Errorf("no samples")}
	}

	fwd, err := firstReadLen(dem.Samples[0].Forward)
	if err != nil {
		return lens, err
	}
	lens.Forward = fwd

	if dem.Paired {
		rev, err := firstReadLen(dem.Samples[0].Reverse)
		if err != nil {
			return lens, err
		}
		lens.Reverse = rev
	}

	return lens, nil
}
