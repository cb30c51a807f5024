package catalog

import (
	"sync"
	"time"

	"bistro-pos/internal/domain"
)

// DefaultSearchDebounce is the quiescence window for live search input
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer runs the most recently scheduled function once no new call has
// arrived for the configured window.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a Debouncer with the given quiescence window
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn, replacing any call still waiting for quiescence
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, fn)
}

// Stop cancels a pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// SearchResult is one published refilter together with the input it answers
type SearchResult struct {
	Query    string
	Category string
	Items    []domain.CatalogItem
}

// LiveSearch filters a fixed catalog as the query changes, publishing a
// result only after the input has been stable for the debounce window.
// The published Items are exactly Filter(items, Query, Category).
type LiveSearch struct {
	items    []domain.CatalogItem
	debounce *Debouncer
	results  chan SearchResult

	mu       sync.Mutex
	query    string
	category string
}

// NewLiveSearch creates a LiveSearch over items. Results are delivered on
// the returned channel of the Results method; a slow reader only ever sees
// the latest result.
func NewLiveSearch(items []domain.CatalogItem, window time.Duration) *LiveSearch {
	return &LiveSearch{
		items:    items,
		debounce: NewDebouncer(window),
		results:  make(chan SearchResult, 1),
		category: domain.AllCategories,
	}
}

// SetQuery records new search input and schedules a refilter
func (s *LiveSearch) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
	s.debounce.Trigger(s.publish)
}

// SetCategory records a new category selection and schedules a refilter
func (s *LiveSearch) SetCategory(category string) {
	s.mu.Lock()
	s.category = category
	s.mu.Unlock()
	s.debounce.Trigger(s.publish)
}

// Results returns the channel filtered results are published on
func (s *LiveSearch) Results() <-chan SearchResult {
	return s.results
}

// Close stops any pending refilter
func (s *LiveSearch) Close() {
	s.debounce.Stop()
}

func (s *LiveSearch) publish() {
	s.mu.Lock()
	result := SearchResult{
		Query:    s.query,
		Category: s.category,
		Items:    Filter(s.items, s.query, s.category),
	}
	s.mu.Unlock()

	// drop a stale unread result so the reader sees the newest one
	select {
	case <-s.results:
	default:
	}
	select {
	case s.results <- result:
	default:
	}
}
