package press

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for matches at one position at a
// time. A type that uses a Parser to implement MatchFinder can implement
// Searcher as well, and pass itself to the Parser.
type Searcher interface {
	// Search returns the best match starting at pos, which must end at or
	// before end. It returns the zero AbsoluteMatch if there is none.
	// Searching at pos also records pos for later searches.
	Search(pos, end int) AbsoluteMatch

	// Insert records pos for later searches without looking for a match.
	// The parser calls it for the positions covered by a match.
	Insert(pos int)
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: It goes from start
// to end, taking the match found at each position and skipping past it.
// Every position inside a match is still inserted into the searcher.
type GreedyParser struct{}

func (GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	s := start
	nextEmit := start

	for s < end {
		m := src.Search(s, end)
		if m.End <= m.Start {
			s++
			continue
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		for i := m.Start + 1; i < m.End; i++ {
			src.Insert(i)
		}
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}
