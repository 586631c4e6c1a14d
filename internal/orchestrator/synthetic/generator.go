// Package synthetic produces the decorative scores and tags attached to
// rule-based answers and growth reports. None of the values are measurements.
package synthetic

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"luuno-orchestrator/internal/models"
)

var (
	StateTags     = []string{"superposition", "entangled", "coherent"}
	ImpactLevels  = []string{"High", "Medium-High", "Critical"}
	ActionWindows = []string{"1-2 weeks", "2-4 weeks", "1-3 months"}
)

// Generator is the single source of randomness for the orchestrator.
type Generator interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// Random is a Generator backed by math/rand and safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded seeds from the wall clock.
func NewTimeSeeded() *Random {
	return NewRandom(time.Now().UnixNano())
}

func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

// QueryMetrics builds the metrics attached to a non-generative answer:
// confidence in [0.8, 1.0), speed factor "5x".."24x", one of StateTags.
func QueryMetrics(g Generator) *models.SyntheticMetrics {
	return &models.SyntheticMetrics{
		ConfidenceLike: 0.8 + g.Float64()*0.2,
		SpeedFactor:    fmt.Sprintf("%dx", 5+g.Intn(20)),
		StateTag:       Pick(g, StateTags),
	}
}

// ReportConfidence returns a score in [0.85, 0.98).
func ReportConfidence(g Generator) float64 {
	return 0.85 + g.Float64()*0.13
}

// ProjectedROI returns a percentage label in "150%".."499%".
func ProjectedROI(g Generator) string {
	return fmt.Sprintf("%d%%", 150+g.Intn(350))
}

// Pick returns a uniformly chosen element; empty input yields "".
func Pick(g Generator, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[clamp(g.Intn(len(values)), len(values))]
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
