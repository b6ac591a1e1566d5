package scanner

// BlockRange is one inclusive sub-range of the scan interval.
type BlockRange struct {
	From uint64
	To   uint64
}

func (r BlockRange) Span() uint64 {
	return r.To - r.From + 1
}

// partitionRange splits [from, to] into consecutive sub-ranges of at most
// maxSpan blocks, in ascending order, covering the interval with no gaps and
// no overlaps. Returns nil when from > to.
func partitionRange(from, to, maxSpan uint64) []BlockRange {
	if from > to {
		return nil
	}
	if maxSpan == 0 {
		maxSpan = 1
	}

	ranges := make([]BlockRange, 0, (to-from)/maxSpan+1)
	for start := from; ; {
		end := start + maxSpan - 1
		if end > to || end < start { // end < start guards uint64 overflow
			end = to
		}
		ranges = append(ranges, BlockRange{From: start, To: end})
		if end >= to {
			break
		}
		start = end + 1
	}
	return ranges
}
