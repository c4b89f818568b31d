package optitrim

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sample is one demultiplexed sample: a forward FASTQ and, for paired-end
// runs, its reverse mate.
type Sample struct {
	ID      string
	Forward string
	Reverse string
}

// Demux is a directory of per-sample FASTQ files (Casava-style _R1/_R2
// naming, plain or gzip). Paired is true when every sample has a reverse
// mate.
type Demux struct {
	Dir     string
	Samples []Sample
	Paired  bool
}

func isFastq(name string) bool {
	return strings.HasSuffix(name, ".fastq") ||
		strings.HasSuffix(name, ".fastq.gz") ||
		strings.HasSuffix(name, ".fq") ||
		strings.HasSuffix(name, ".fq.gz")
}

// sampleID strips the _R1/_R2 read tag and everything after it, so
// "sampleA_S1_L001_R1_001.fastq.gz" and its mate share an ID.
func sampleID(name string) (id string, reverse bool, ok bool) {
	base := name
	for _, ext := range []string{".gz", ".fastq", ".fq"} {
		base = strings.TrimSuffix(base, ext)
	}
	if i := strings.LastIndex(base, "_R1"); i >= 0 {
		return base[:i], false, true
	}
	if i := strings.LastIndex(base, "_R2"); i >= 0 {
		return base[:i], true, true
	}
	// no read tag: treat the whole stem as a single-end sample
	return base, false, true
}

// LoadDemux scans dir for demultiplexed FASTQ files and pairs forward and
// reverse mates by sample ID. It fails with a DataAccessError when the
// directory is unreadable or holds no FASTQ files, and when the layout mixes
// paired and single-end samples.
func LoadDemux(dir string) (*Demux, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DataAccessError{Path: dir, Err: err}
	}

	byID := map[string]*Sample{}
	for _, e := range entries {
		if e.IsDir() || !isFastq(e.Name()) {
			continue
		}
		id, reverse, ok := sampleID(e.Name())
		if !ok {
			continue
		}
		s := byID[id]
		if s == nil {
			s = &Sample{ID: id}
			byID[id] = s
		}
		path := filepath.Join(dir, e.Name())
		if reverse {
			s.Reverse = path
		} else {
			s.Forward = path
		}
	}

	if len(byID) == 0 {
		return nil, &DataAccessError{Path: dir, Err: fmt.Errorf("no FASTQ files found")}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids) // stable sample order for reproducibility

	dem := &Demux{Dir: dir}
	paired := byID[ids[0]].Reverse != ""
	for _, id := range ids {
		s := byID[id]
		if s.Forward == "" {
			return nil, &DataAccessError{Path: dir, Err: fmt.Errorf("sample %s has no forward reads", id)}
		}
		if (s.Reverse != "") != paired {
			return nil, &DataAccessError{Path: dir, Err: fmt.Errorf("sample %s mixes paired and single-end layout", id)}
		}
		dem.Samples = append(dem.Samples, *s)
	}
	dem.Paired = paired

	return dem, nil
}
