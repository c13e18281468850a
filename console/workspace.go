package console

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/panyam/caresim/runtime"
	"github.com/panyam/caresim/viz"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrComparisonNotFound = errors.New("comparison not found")
	ErrEmptyComparison    = errors.New("comparison has no scenario results")
)

// SavedComparison is a comparison the user chose to keep, with the display
// state the dashboard needs to overlay it against others.
type SavedComparison struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Color      string             `json:"color"`
	Visible    bool               `json:"visible"`
	Sequence   int                `json:"sequence"`
	CreatedAt  time.Time          `json:"createdAt"`
	Comparison runtime.Comparison `json:"comparison"`
}

// Workspace holds the saved comparisons of one session in insertion order.
// It never runs simulations itself.
type Workspace struct {
	mu       sync.RWMutex
	records  []*SavedComparison
	ids      runtime.SimpleIDGen
	sequence int
	palette  []string
	now      func() time.Time
}

// NewWorkspace creates an empty workspace. A nil palette uses viz.DefaultPalette.
func NewWorkspace(palette []string) *Workspace {
	if len(palette) == 0 {
		palette = viz.DefaultPalette
	}
	return &Workspace{palette: palette, now: time.Now}
}

// Add stores c under a display name derived from label. Blank labels fall
// back to the parameter summary; clashing names get a " (n)" suffix.
func (w *Workspace) Add(label string, c runtime.Comparison) (*SavedComparison, error) {
	if len(c.Baseline.QueueLengthByPeriod) == 0 || len(c.Intervention.QueueLengthByPeriod) == 0 {
		return nil, ErrEmptyComparison
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	name := strings.TrimSpace(label)
	if name == "" {
		name = c.Parameters.Summary()
	}
	name = w.uniqueName(name)

	rec := &SavedComparison{
		ID:         w.ids.NextID("cmp"),
		Name:       name,
		Color:      w.palette[w.sequence%len(w.palette)],
		Visible:    true,
		Sequence:   w.sequence,
		CreatedAt:  w.now(),
		Comparison: c,
	}
	w.sequence++
	w.records = append(w.records, rec)
	runtime.Debug("workspace: saved %s as %q", rec.ID, rec.Name)

	out := *rec
	return &out, nil
}

func (w *Workspace) uniqueName(base string) string {
	taken := make(map[string]bool, len(w.records))
	for _, r := range w.records {
		taken[nameKey(r.Name)] = true
	}
	name := base
	for n := 2; taken[nameKey(name)]; n++ {
		name = fmt.Sprintf("%s (%d)", base, n)
	}
	return name
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	output, _, e := transform.String(t, s)
	if e != nil {
		panic(e)
	}
	return output
}

// nameKey folds case and accents so "Plan A" and "plan á" collide.
func nameKey(s string) string {
	return cases.Fold().String(removeAccents(strings.TrimSpace(s)))
}

func (w *Workspace) find(id string) (int, *SavedComparison) {
	for i, r := range w.records {
		if r.ID == id {
			return i, r
		}
	}
	return -1, nil
}

// ToggleVisibility flips the record's visibility and returns the new value.
func (w *Workspace) ToggleVisibility(id string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, rec := w.find(id)
	if rec == nil {
		return false, fmt.Errorf("%w: %s", ErrComparisonNotFound, id)
	}
	rec.Visible = !rec.Visible
	return rec.Visible, nil
}

func (w *Workspace) Remove(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, rec := w.find(id)
	if rec == nil {
		return fmt.Errorf("%w: %s", ErrComparisonNotFound, id)
	}
	w.records = append(w.records[:i], w.records[i+1:]...)
	return nil
}

func (w *Workspace) Get(id string) (SavedComparison, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, rec := w.find(id)
	if rec == nil {
		return SavedComparison{}, fmt.Errorf("%w: %s", ErrComparisonNotFound, id)
	}
	return *rec, nil
}

// List returns copies of all records in insertion order.
func (w *Workspace) List() []SavedComparison {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]SavedComparison, len(w.records))
	for i, r := range w.records {
		out[i] = *r
	}
	return out
}

func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.records)
}

func (w *Workspace) visible() []SavedComparison {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []SavedComparison
	for _, r := range w.records {
		if r.Visible {
			out = append(out, *r)
		}
	}
	return out
}
