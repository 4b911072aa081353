package source

// Lookup resolves the exact text of a decoded value back to every
// line-range it occupied in the original file. It returns zero, one, or
// many ranges; multiple ranges mean the identical text occurred more than
// once and the caller needs a disambiguation signal (see RangeCursor).
func (t LineTable) Lookup(exactText string) [][]int {
	return t.HashLines[HashText(exactText)]
}

// FirstLine returns the first original line of the first range recorded
// for exactText, or 0 when the text is unknown to the table.
func (t LineTable) FirstLine(exactText string) int {
	ranges := t.HashLines[HashText(exactText)]
	if len(ranges) == 0 || len(ranges[0]) == 0 {
		return 0
	}
	return ranges[0][0]
}

// RangeCursor consumes line-ranges for repeated identical text in FIFO
// order. The hash-to-lines table alone cannot tell two occurrences of the
// same literal apart; the cursor encodes the documented disambiguation
// policy: callers visit logical fields in model order, which matches
// file-scan order, so each Claim hands out the next unconsumed range for
// that text. Not safe for concurrent use.
type RangeCursor struct {
	table LineTable
	used  map[string]int
}

// NewRangeCursor creates a cursor over the given table.
func NewRangeCursor(table LineTable) *RangeCursor {
	return &RangeCursor{
		table: table,
		used:  make(map[string]int),
	}
}

// Claim returns the next unconsumed line-range for exactText in file-scan
// order, or nil once every recorded range has been handed out.
func (c *RangeCursor) Claim(exactText string) []int {
	hash := HashText(exactText)
	ranges := c.table.HashLines[hash]
	i := c.used[hash]
	if i >= len(ranges) {
		return nil
	}
	c.used[hash] = i + 1
	return ranges[i]
}

// Remaining reports how many ranges for exactText have not been claimed.
func (c *RangeCursor) Remaining(exactText string) int {
	hash := HashText(exactText)
	return len(c.table.HashLines[hash]) - c.used[hash]
}
