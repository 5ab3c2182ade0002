package records

import "io"

// quoteTracker passes a table through unchanged while following CSV quoting,
// so a quoted field still open at end of input can be reported. The csv
// reader in lazy mode would otherwise fold the rest of the file into it.
type quoteTracker struct {
	r io.Reader

	line       int
	openLine   int
	fieldStart bool
	inQuotes   bool
	quoteSeen  bool // a quote inside a quoted field, waiting for the next byte
}

func newQuoteTracker(r io.Reader) *quoteTracker {
	return &quoteTracker{r: r, line: 1, fieldStart: true}
}

func (q *quoteTracker) Read(p []byte) (int, error) {
	n, err := q.r.Read(p)
	for _, c := range p[:n] {
		q.step(c)
	}
	return n, err
}

func (q *quoteTracker) step(c byte) {
	if q.inQuotes {
		if q.quoteSeen {
			q.quoteSeen = false
			switch c {
			case '"':
				return // escaped quote
			case ',', '\n', '\r':
				q.inQuotes = false
			default:
				return // stray quote, kept as text
			}
		} else {
			switch c {
			case '"':
				q.quoteSeen = true
			case '\n':
				q.line++
			}
			return
		}
	}

	switch c {
	case ',':
		q.fieldStart = true
	case '\n':
		q.line++
		q.fieldStart = true
	case '\r':
	case '"':
		if q.fieldStart {
			q.inQuotes = true
			q.openLine = q.line
		}
		q.fieldStart = false
	default:
		q.fieldStart = false
	}
}

// unterminated reports the line of a quoted field left open at end of input.
func (q *quoteTracker) unterminated() (int, bool) {
	return q.openLine, q.inQuotes && !q.quoteSeen
}
