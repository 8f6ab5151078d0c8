package spell

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyDictionary is returned when a dictionary source holds no words.
var ErrEmptyDictionary = errors.New("spell: empty dictionary")

const (
	defaultPrefixLength = 7
	defaultMaxDistance  = 2
)

// Dictionary maps normalised words to corpus frequencies and keeps a
// deletes index for candidate lookup.
//
// A Dictionary is read-only after loading and safe for concurrent use.
type Dictionary struct {
	freq      map[string]uint64
	total     uint64
	maxCount  uint64
	deletes   map[string][]string
	maxDist   int
	prefixLen int
}

// NewDictionary creates an empty dictionary whose deletes index supports
// lookups up to maxDist edits. Non-positive maxDist selects the default.
func NewDictionary(maxDist int) *Dictionary {
	if maxDist <= 0 {
		maxDist = defaultMaxDistance
	}
	return &Dictionary{
		freq:      make(map[string]uint64),
		deletes:   make(map[string][]string),
		maxDist:   maxDist,
		prefixLen: defaultPrefixLength,
	}
}

// LoadDictionary maps the file at path into memory and parses it with
// ParseDictionary.
func LoadDictionary(path string, maxDist int) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spell: open dictionary: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("spell: stat dictionary: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDictionary, path)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("spell: mmap dictionary: %w", err)
	}
	defer m.Unmap()

	d, err := ParseDictionary(m, maxDist)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return d, nil
}

// ParseDictionary reads "word count" lines. The count is optional and
// defaults to 1; blank lines and lines starting with '#' are skipped.
// Repeated words accumulate their counts.
func ParseDictionary(data []byte, maxDist int) (*Dictionary, error) {
	d := NewDictionary(maxDist)
	for lineNo := 1; len(data) > 0; lineNo++ {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(string(line))
		count := uint64(1)
		if len(fields) > 1 {
			n, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("spell: line %d: bad count %q", lineNo, fields[1])
			}
			count = n
		}
		if !utf8.ValidString(fields[0]) {
			return nil, fmt.Errorf("spell: line %d: invalid UTF-8", lineNo)
		}
		d.Add(fields[0], count)
	}
	if d.Len() == 0 {
		return nil, ErrEmptyDictionary
	}
	return d, nil
}

// Add records count occurrences of word.
func (d *Dictionary) Add(word string, count uint64) {
	w := normalize(word)
	if w == "" {
		return
	}
	prev, seen := d.freq[w]
	d.freq[w] = prev + count
	d.total += count
	if d.freq[w] > d.maxCount {
		d.maxCount = d.freq[w]
	}
	if seen {
		return
	}
	for del := range deletesOf(prefix(w, d.prefixLen), d.maxDist) {
		d.deletes[del] = append(d.deletes[del], w)
	}
}

// Contains reports whether word (case-insensitive) is known.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.freq[normalize(word)]
	return ok
}

// Frequency returns the recorded count of word.
func (d *Dictionary) Frequency(word string) uint64 {
	return d.freq[normalize(word)]
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.freq) }

// MaxDistance is the largest edit distance the deletes index supports.
func (d *Dictionary) MaxDistance() int { return d.maxDist }

// logPrior is the smoothed log probability of a normalised word.
func (d *Dictionary) logPrior(w string, temperature float64) float64 {
	f := float64(d.freq[w])
	if f == 0 || d.total == 0 {
		f = 1e-12
	} else {
		f /= float64(d.total)
	}
	if temperature <= 0 {
		temperature = 1
	}
	return math.Log(math.Pow(f, 1.0/temperature))
}

// candidates returns known words within maxDist unit edits of w, which
// must already be normalised. w itself is included when known.
func (d *Dictionary) candidates(w string, maxDist int) []string {
	if maxDist > d.maxDist {
		maxDist = d.maxDist
	}
	seen := make(map[string]struct{})
	var out []string
	consider := func(cand string) {
		if _, ok := seen[cand]; ok {
			return
		}
		seen[cand] = struct{}{}
		if _, ok := d.freq[cand]; !ok {
			return
		}
		if abs(utf8.RuneCountInString(cand)-utf8.RuneCountInString(w)) > maxDist {
			return
		}
		if unitDL(w, cand) <= maxDist {
			out = append(out, cand)
		}
	}
	for del := range deletesOf(prefix(w, d.prefixLen), maxDist) {
		for _, cand := range d.deletes[del] {
			consider(cand)
		}
	}
	// one adjacent swap, also past the indexed prefix
	r := []rune(w)
	for i := 0; i+1 < len(r); i++ {
		if r[i] == r[i+1] {
			continue
		}
		r[i], r[i+1] = r[i+1], r[i]
		consider(string(r))
		r[i], r[i+1] = r[i+1], r[i]
	}
	return out
}

// deletesOf returns w and every string reachable from it by removing up
// to maxDist runes.
func deletesOf(w string, maxDist int) map[string]struct{} {
	out := map[string]struct{}{w: {}}
	frontier := []string{w}
	for d := 0; d < maxDist; d++ {
		var next []string
		for _, s := range frontier {
			r := []rune(s)
			if len(r) <= 1 {
				continue
			}
			for i := range r {
				del := string(r[:i]) + string(r[i+1:])
				if _, ok := out[del]; ok {
					continue
				}
				out[del] = struct{}{}
				next = append(next, del)
			}
		}
		frontier = next
	}
	return out
}

func prefix(w string, n int) string {
	i := 0
	for pos := range w {
		if i == n {
			return w[:pos]
		}
		i++
	}
	return w
}

// normalize lowercases word and converts it to NFC.
func normalize(word string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(word)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
