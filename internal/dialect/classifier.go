package dialect

import (
	"fmt"
	"strings"

	"prosecheck/internal/source"
)

// Classification is the result of scoring evidence for a file.
type Classification struct {
	// Kind is Unknown when Best misses the classifier thresholds.
	Kind            Kind
	Best            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and chooses a dominant dialect.
// Zero thresholds accept any positive score.
type Classifier struct {
	MinScore      int
	MinConfidence float64
}

// DefaultClassifier is what Detect uses.
var DefaultClassifier = Classifier{MinScore: 4, MinConfidence: 0.6}

func (c Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	bestKind := Unknown
	bestScore := 0
	runnerKind := Unknown
	runnerScore := 0
	for k := Go; k < kindCount; k++ {
		score := scores[k]
		if score > bestScore {
			runnerKind, runnerScore = bestKind, bestScore
			bestKind, bestScore = k, score
			continue
		}
		if score > runnerScore {
			runnerKind, runnerScore = k, score
		}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(bestScore) / float64(total)
	}

	res := Classification{
		Kind:            bestKind,
		Best:            bestKind,
		Score:           bestScore,
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runnerKind,
		RunnerUpScore:   runnerScore,
		ObservedSignals: observed,
	}
	if bestScore < c.MinScore || conf < c.MinConfidence {
		res.Kind = Unknown
	}
	return res
}

// Detect collects evidence from content and classifies it with
// DefaultClassifier.
func Detect(file source.FileID, content []byte) (Classification, *Evidence) {
	e := Collect(file, content)
	return DefaultClassifier.Classify(e), e
}

// Explain renders a one-line summary of a classification, e.g.
// "markdown (score 10, 83%): markdown heading, markdown link".
func Explain(c Classification, e *Evidence) string {
	if c.Kind == Unknown {
		if c.Score == 0 {
			return "unknown: no signals"
		}
		return fmt.Sprintf("unknown: best guess %s (score %d, %.0f%%) below threshold", c.Best, c.Score, c.Confidence*100)
	}
	msg := fmt.Sprintf("%s (score %d, %.0f%%)", c.Kind, c.Score, c.Confidence*100)
	if reasons := e.Reasons(c.Kind); len(reasons) > 0 {
		msg += ": " + strings.Join(reasons, ", ")
	}
	return msg
}
