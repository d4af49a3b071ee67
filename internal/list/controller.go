package list

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/api"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/notify"
)

const defaultDebounce = 500 * time.Millisecond

// Source supplies one page of a collection. *api.Resource satisfies it.
type Source[R any] interface {
	List(ctx context.Context, params models.ListParams) (api.ListResult[R], error)
}

// State is the view of a collection the UI renders from. Page is one-based;
// the wire boundary is zero-based and the controller owns that conversion.
type State[R any] struct {
	Items               []R
	Page                int
	PageSize            int
	TotalItems          int
	TotalPages          int
	SearchTerm          string
	DebouncedSearchTerm string
	Loading             bool
	Err                 string
}

// Config tunes a controller instance.
type Config[R any] struct {
	PageSize int
	Debounce time.Duration
	// DisplayField extracts the primary display value used for the
	// defensive client-side filter when the backend ignores search.
	DisplayField func(R) string
	// OnChange is invoked after every state transition with a snapshot.
	OnChange func(State[R])
}

// Controller keeps State consistent with the latest successful fetch for
// the current (page, debounced search) pair. Fetches are fenced with
// sequence numbers so a slow stale response can never overwrite a fresher
// one.
type Controller[R any] struct {
	source Source[R]
	cfg    Config[R]
	logger *zap.Logger

	mu       sync.Mutex
	state    State[R]
	fetchSeq uint64
	debounce *time.Timer
}

// NewController builds a controller in its initial (page 1, empty) state.
func NewController[R any](source Source[R], cfg Config[R], logger *zap.Logger) *Controller[R] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[R]{
		source: source,
		cfg:    cfg,
		logger: logger,
		state: State[R]{
			Items:    []R{},
			Page:     1,
			PageSize: cfg.PageSize,
		},
	}
}

// State returns a snapshot of the current view state.
func (c *Controller[R]) State() State[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Refresh fetches the current (page, debounced search) pair.
func (c *Controller[R]) Refresh(ctx context.Context) {
	c.fetch(ctx)
}

// SetPage moves to a one-based page and fetches it.
func (c *Controller[R]) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	c.state.Page = page
	c.mu.Unlock()
	c.fetch(ctx)
}

// SetSearch records a keystroke. The raw term updates immediately for the
// input's own display; it propagates to the debounced term, resets the page
// to 1 and triggers one fetch only after the quiet period. A burst of
// keystrokes therefore coalesces into a single request for the final value.
func (c *Controller[R]) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	c.state.SearchTerm = term
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		c.mu.Lock()
		c.state.DebouncedSearchTerm = term
		c.state.Page = 1
		c.mu.Unlock()
		c.fetch(ctx)
	})
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snapshot)
}

// RefetchAfterDelete applies the delete boundary rule: removing the last
// item of a non-first page lands on the previous page instead of an empty
// one, then refetches.
func (c *Controller[R]) RefetchAfterDelete(ctx context.Context) {
	c.mu.Lock()
	if len(c.state.Items) == 1 && c.state.Page > 1 {
		c.state.Page--
	}
	c.mu.Unlock()
	c.fetch(ctx)
}

// Stop cancels a pending debounce propagation.
func (c *Controller[R]) Stop() {
	c.mu.Lock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.mu.Unlock()
}

func (c *Controller[R]) fetch(ctx context.Context) {
	c.mu.Lock()
	c.fetchSeq++
	seq := c.fetchSeq
	c.state.Loading = true
	c.state.Err = ""
	page := c.state.Page
	size := c.state.PageSize
	search := c.state.DebouncedSearchTerm
	snapshot := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snapshot)

	result, err := c.source.List(ctx, models.ListParams{Page: page - 1, Size: size, Search: search})

	c.mu.Lock()
	if seq != c.fetchSeq {
		// A later fetch superseded this one; drop the result.
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.state.Items = []R{}
		c.state.TotalItems = 0
		c.state.TotalPages = 0
		c.state.Err = notify.Classify(err).Message
		c.state.Loading = false
		snapshot = c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn("list fetch failed", zap.Int("page", page), zap.Error(err))
		c.emit(snapshot)
		return
	}

	c.applyLocked(result, search)
	c.state.Loading = false
	snapshot = c.snapshotLocked()
	c.mu.Unlock()
	c.emit(snapshot)
}

// applyLocked normalises a fetch result into view state. When the backend
// returned authoritative totals they are adopted as-is; a bare array means
// the backend ignored search and paging, so the full set is re-filtered
// case-insensitively on the display field and windowed client-side.
func (c *Controller[R]) applyLocked(result api.ListResult[R], search string) {
	if result.Paged {
		c.state.Items = result.Items
		c.state.TotalItems = result.TotalElements
		c.state.TotalPages = result.TotalPages
		c.clampPageLocked()
		return
	}

	filtered := result.Items
	if search != "" && c.cfg.DisplayField != nil {
		needle := strings.ToLower(search)
		filtered = make([]R, 0, len(result.Items))
		for _, item := range result.Items {
			if strings.Contains(strings.ToLower(c.cfg.DisplayField(item)), needle) {
				filtered = append(filtered, item)
			}
		}
	}

	c.state.TotalItems = len(filtered)
	c.state.TotalPages = ceilDiv(len(filtered), c.state.PageSize)
	c.clampPageLocked()

	start := (c.state.Page - 1) * c.state.PageSize
	end := start + c.state.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	c.state.Items = filtered[start:end]
}

func (c *Controller[R]) clampPageLocked() {
	max := c.state.TotalPages
	if max < 1 {
		max = 1
	}
	if c.state.Page > max {
		c.state.Page = max
	}
	if c.state.Page < 1 {
		c.state.Page = 1
	}
}

func (c *Controller[R]) snapshotLocked() State[R] {
	snapshot := c.state
	snapshot.Items = make([]R, len(c.state.Items))
	copy(snapshot.Items, c.state.Items)
	return snapshot
}

func (c *Controller[R]) emit(snapshot State[R]) {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(snapshot)
	}
}

func ceilDiv(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
