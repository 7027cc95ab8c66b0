package analysis

// Levenshtein returns the minimum number of single-character insertions,
// deletions and substitutions required to transform a into b. It operates on
// runes so Turkish characters count as one edit, not two.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(rb); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
				continue
			}
			matrix[i][j] = 1 + min3(matrix[i-1][j-1], matrix[i-1][j], matrix[i][j-1])
		}
	}

	return matrix[len(ra)][len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
