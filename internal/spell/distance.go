package spell

import (
	"math"
	"unicode"
)

// Costs weights the edit operations of the keyboard-aware distance.
type Costs struct {
	Transpose float64
	InsDel    float64
	// NearSub is charged for substituting a directly adjacent key.
	NearSub float64
}

// DefaultCosts favours transpositions and neighbouring-key slips.
var DefaultCosts = Costs{
	Transpose: 0.6,
	InsDel:    1.0,
	NearSub:   0.5,
}

// QWERTY and ЙЦУКЕН rows; each row is shifted by half a key from the one
// above it.
var keyboardRows = [][]string{
	{"qwertyuiop", "asdfghjkl", "zxcvbnm"},
	{"йцукенгшщзхъ", "фывапролджэ", "ячсмитьбю"},
}

type keyPoint struct {
	layout int
	x, y   float64
}

var keyPos = buildKeyPos()

func buildKeyPos() map[rune]keyPoint {
	out := make(map[rune]keyPoint)
	for layout, rows := range keyboardRows {
		for row, keys := range rows {
			col := 0
			for _, r := range keys {
				out[r] = keyPoint{layout: layout, x: float64(col) + 0.5*float64(row), y: float64(row)}
				col++
			}
		}
	}
	return out
}

// keyDistance is the euclidean distance between two keys, or 2.5 when
// either is not on a known layout.
func keyDistance(a, b rune) float64 {
	pa, okA := keyPos[unicode.ToLower(a)]
	pb, okB := keyPos[unicode.ToLower(b)]
	if !okA || !okB || pa.layout != pb.layout {
		return 2.5
	}
	return math.Hypot(pa.x-pb.x, pa.y-pb.y)
}

// similar pairs that are confused regardless of key distance
var confusable = map[[2]rune]float64{
	{'е', 'ё'}: 0.1,
	{'и', 'й'}: 0.3,
	{'ь', 'ъ'}: 0.4,
	{'c', 'k'}: 0.7,
	{'s', 'z'}: 0.7,
}

func (c Costs) substitution(a, b rune) float64 {
	if a == b {
		return 0
	}
	if v, ok := confusable[[2]rune{a, b}]; ok {
		return v
	}
	if v, ok := confusable[[2]rune{b, a}]; ok {
		return v
	}
	d := keyDistance(a, b)
	switch {
	case d <= 1.0:
		return c.NearSub
	case d <= 1.5:
		return 0.8
	case d <= 2.2:
		return 1.2
	default:
		return 1.8
	}
}

// weightedDL is a Damerau-Levenshtein distance with keyboard-aware
// substitution costs.
func (c Costs) weightedDL(a, b string) float64 {
	if isOneAdjacentSwap(a, b) {
		return c.Transpose
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return float64(lb) * c.InsDel
	}
	if lb == 0 {
		return float64(la) * c.InsDel
	}
	prev2 := make([]float64, lb+1)
	prev := make([]float64, lb+1)
	curr := make([]float64, lb+1)
	for j := 1; j <= lb; j++ {
		prev[j] = float64(j) * c.InsDel
	}
	for i := 1; i <= la; i++ {
		curr[0] = float64(i) * c.InsDel
		for j := 1; j <= lb; j++ {
			best := math.Min(prev[j]+c.InsDel, curr[j-1]+c.InsDel)
			best = math.Min(best, prev[j-1]+c.substitution(ra[i-1], rb[j-1]))
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = math.Min(best, prev2[j-2]+c.Transpose)
			}
			curr[j] = best
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[lb]
}

// unitDL is the unweighted optimal-string-alignment distance.
func unitDL(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			x := min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				x = min(x, prev2[j-2]+1)
			}
			curr[j] = x
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[lb]
}

func isOneAdjacentSwap(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) || len(ra) < 2 {
		return false
	}
	first := -1
	for i := range ra {
		if ra[i] == rb[i] {
			continue
		}
		if first >= 0 {
			return i == first+1 && ra[first] == rb[i] && ra[i] == rb[first] && string(ra[i+1:]) == string(rb[i+1:])
		}
		first = i
	}
	return false
}
