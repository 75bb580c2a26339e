package source

// candidateDelimiters are checked in this order, so ties resolve toward comma.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// sniffLines is how many lines DetectDelimiter looks at.
const sniffLines = 5

// IsValidDelimiter checks if a rune is a supported field delimiter
func IsValidDelimiter(delim rune) bool {
	for _, d := range candidateDelimiters {
		if d == delim {
			return true
		}
	}
	return false
}

// DetectDelimiter picks the candidate delimiter that occurs the same non-zero number of
// times on the header and on every other sampled line, ignoring anything inside double
// quotes. The highest per-line count wins. It returns ',' when no candidate is consistent.
func DetectDelimiter(data []byte, sampleSize int) rune {
	if sampleSize <= 0 || sampleSize > len(data) {
		sampleSize = len(data)
	}
	sample := data[:sampleSize]

	var lines [][]int
	current := make([]int, len(candidateDelimiters))
	blank := true
	inQuotes := false
	for i := 0; i < len(sample) && len(lines) < sniffLines; i++ {
		c := sample[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			blank = false
		case inQuotes:
		case c == '\n':
			if !blank {
				lines = append(lines, current)
			}
			current = make([]int, len(candidateDelimiters))
			blank = true
		case c == '\r':
		default:
			blank = false
			for j, d := range candidateDelimiters {
				if c == byte(d) {
					current[j]++
				}
			}
		}
	}
	// An unterminated last line may be cut off by the sample size; use it only when it
	// is all there is.
	if len(lines) == 0 && !blank {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := ',', 0
	for j, d := range candidateDelimiters {
		n := lines[0][j]
		if n == 0 || n <= bestCount {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if line[j] != n {
				consistent = false
				break
			}
		}
		if consistent {
			best, bestCount = d, n
		}
	}
	return best
}
