package tui

import (
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ShimmerConfig holds configuration for the sweeping label highlight
type ShimmerConfig struct {
	Enabled    bool
	Speed      time.Duration // tick interval
	WidthRatio float64       // share of the text lit at once
	PauseTicks int           // ticks to wait between sweeps
}

// DefaultShimmerConfig returns the default shimmer configuration.
// LIFTLOG_REDUCE_MOTION=1 turns the animation off.
func DefaultShimmerConfig() ShimmerConfig {
	return ShimmerConfig{
		Enabled:    os.Getenv("LIFTLOG_REDUCE_MOTION") == "",
		Speed:      90 * time.Millisecond,
		WidthRatio: 0.25,
		PauseTicks: 6,
	}
}

// shimmerTickMsg advances every shimmer in the running program
type shimmerTickMsg struct{}

// Shimmer sweeps a bright band across a label, one rune per tick
type Shimmer struct {
	config ShimmerConfig
	center float64
	pause  int
	active bool
}

// NewShimmer creates a shimmer that starts before the first rune
func NewShimmer(config ShimmerConfig) *Shimmer {
	return &Shimmer{config: config, center: -1, active: config.Enabled}
}

// SetActive pauses or resumes the sweep
func (s *Shimmer) SetActive(active bool) {
	s.active = active && s.config.Enabled
	if !s.active {
		s.Reset()
	}
}

// Reset moves the band back to the start, e.g. when the focused label changes
func (s *Shimmer) Reset() {
	s.center = -1
	s.pause = 0
}

// Advance moves the band one step across a label of textLen runes
func (s *Shimmer) Advance(textLen int) {
	if !s.active || textLen == 0 {
		return
	}
	if s.pause > 0 {
		s.pause--
		return
	}
	s.center++
	if s.center > float64(textLen)+s.halfWidth(textLen) {
		s.center = -s.halfWidth(textLen)
		s.pause = s.config.PauseTicks
	}
}

// Tick schedules the next animation frame, or nothing when disabled
func (s *Shimmer) Tick() tea.Cmd {
	if !s.active {
		return nil
	}
	return tea.Tick(s.config.Speed, func(time.Time) tea.Msg { return shimmerTickMsg{} })
}

// Render draws text with runes near the band center in the bright accent
func (s *Shimmer) Render(text string) string {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)
	if !s.active {
		return base.Render(text)
	}
	lit := base.Foreground(lipgloss.Color(ColorAccentBright))

	runes := []rune(text)
	half := s.halfWidth(len(runes))
	var b strings.Builder
	for i, r := range runes {
		if math.Abs(float64(i)-s.center) <= half {
			b.WriteString(lit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func (s *Shimmer) halfWidth(textLen int) float64 {
	return math.Max(1, float64(textLen)*s.config.WidthRatio/2)
}
