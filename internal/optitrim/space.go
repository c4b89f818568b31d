package optitrim

// ReadLengthPair is the native read length per direction, measured once from
// the subsample. Reverse is 0 in single-end mode.
type ReadLengthPair struct {
	Forward int `json:"forward"`
	Reverse int `json:"reverse"`
}

// SearchBounds are the caller's global truncation-length bounds.
type SearchBounds struct {
	MinTrunc int
	MaxTrunc int
	Step     int
}

// IntRange is a closed interval of candidate values.
type IntRange struct {
	Lo int
	Hi int
}

// Empty is true when the range contains no values.
func (r IntRange) Empty() bool { return r.Lo > r.Hi }

// SearchSpace couples the forward and reverse truncation lengths: their sum
// must conserve enough read length to span the amplicon plus the minimum
// merge overlap, so the feasible reverse interval depends on the forward
// value already chosen.
type SearchSpace struct {
	Bounds      SearchBounds
	AmpliconLen int
	MinOverlap  int
	Reads       ReadLengthPair
	Paired      bool
}

// ForwardRange is the proposal interval for the forward truncation length,
// capped above by the native forward read length.
func (s *SearchSpace) ForwardRange() IntRange {
	hi := s.Bounds.MaxTrunc
	if s.Reads.Forward < hi {
		hi = s.Reads.Forward
	}
	return IntRange{Lo: s.Bounds.MinTrunc, Hi: hi}
}

// ReverseRange computes the feasible reverse truncation interval for a chosen
// forward length. ok is false when the interval is empty and the trial must
// be pruned. A single-value interval (Lo == Hi) is feasible.
func (s *SearchSpace) ReverseRange(truncF int) (r IntRange, ok bool) {
	lo := s.AmpliconLen + s.MinOverlap - truncF
	if s.Bounds.MinTrunc > lo {
		lo = s.Bounds.MinTrunc
	}
	if lo < 0 {
		lo = 0
	}

	hi := s.Bounds.MaxTrunc
	if s.Reads.Reverse < hi {
		hi = s.Reads.Reverse
	}
	if rem := s.Reads.Forward + s.Reads.Reverse - truncF; rem < hi {
		hi = rem
	}

	r = IntRange{Lo: lo, Hi: hi}
	return r, !r.Empty()
}

// FeasibleSingle reports whether a single-end candidate retains enough
// length to contain the amplicon.
func (s *SearchSpace) FeasibleSingle(truncF int) bool {
	return truncF >= s.AmpliconLen
}
