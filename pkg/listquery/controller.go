package listquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultPageSize matches the server's list page size
const DefaultPageSize = 15

// DefaultSearchDebounce is how long typing may continue before a search
// refresh fires
const DefaultSearchDebounce = 400 * time.Millisecond

// Options configures a Controller
type Options[T Record] struct {
	Fetcher  Fetcher[T]
	Doer     Doer
	Actions  []Action[T]
	PageSize int
	// DefaultSort is the initial sort field; direction starts descending
	DefaultSort    string
	SearchDebounce time.Duration
	Confirmer      Confirmer
	Notifier       Notifier
}

// Controller is the list-state machine for one admin resource: it owns the
// QueryState, the fetched Page, the SelectionSet and the verb bindings.
// All methods are safe for concurrent use.
type Controller[T Record] struct {
	mu        sync.Mutex
	query     QueryState
	defaults  QueryState
	page      Page[T]
	selection *SelectionSet
	loading   bool

	fetcher  Fetcher[T]
	doer     Doer
	actions  map[string]Action[T]
	pageSize int

	debounce      time.Duration
	debounceTimer *time.Timer

	// generation guards against out-of-order fetch responses: only the
	// newest request may replace the page, and starting a new fetch cancels
	// the previous one.
	generation uint64
	cancel     context.CancelFunc

	confirmer Confirmer
	notifier  Notifier
}

func NewController[T Record](opts Options[T]) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.Confirmer == nil {
		opts.Confirmer = AcceptAll{}
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}

	actions := make(map[string]Action[T], len(opts.Actions))
	for _, a := range opts.Actions {
		actions[a.Verb] = a
	}

	defaults := NewQueryState(opts.DefaultSort, SortDesc)
	return &Controller[T]{
		query:     defaults.Clone(),
		defaults:  defaults,
		selection: NewSelectionSet(),
		fetcher:   opts.Fetcher,
		doer:      opts.Doer,
		actions:   actions,
		pageSize:  opts.PageSize,
		debounce:  opts.SearchDebounce,
		confirmer: opts.Confirmer,
		notifier:  opts.Notifier,
	}
}

// Query returns a snapshot of the current query state
func (c *Controller[T]) Query() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

// Page returns a snapshot of the last fetched page
func (c *Controller[T]) Page() Page[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.Clone()
}

// Loading reports whether a fetch is outstanding
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Selected reports whether the id is in the selection set
func (c *Controller[T]) Selected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Has(id)
}

// SelectedIDs returns the selected ids
func (c *Controller[T]) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.IDs()
}

// SetSearchText stores the text and schedules a debounced refresh so rapid
// typing fires at most one request with the final value.
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	c.query.setSearchText(text)
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
	}
	c.debounceTimer = time.AfterFunc(c.debounce, func() {
		c.Refresh(context.Background())
	})
	c.mu.Unlock()
}

// SetFilter stores a structured filter and refreshes immediately
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) {
	c.mu.Lock()
	c.query.setFilter(name, value)
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetSort toggles or switches the sort column and refreshes immediately
func (c *Controller[T]) SetSort(ctx context.Context, field string) {
	c.mu.Lock()
	c.query.setSort(field)
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetPage moves to page n, clamped to [1, totalPages]. Other query fields
// are untouched.
func (c *Controller[T]) SetPage(ctx context.Context, n int) {
	c.mu.Lock()
	if n < 1 {
		n = 1
	}
	if c.page.TotalPages > 0 && n > c.page.TotalPages {
		n = c.page.TotalPages
	}
	c.query.Page = n
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Reset restores the query defaults and refreshes
func (c *Controller[T]) Reset(ctx context.Context) {
	c.mu.Lock()
	c.query = c.defaults.Clone()
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh fetches the page for the current query state. If a fetch is
// already outstanding it is cancelled and its late response discarded; only
// the newest request may replace the page.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.generation++
	gen := c.generation
	c.loading = true
	query := c.query.Clone()
	c.mu.Unlock()

	page, err := c.fetcher.FetchPage(fetchCtx, query, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// Superseded by a newer request; drop this response entirely
		return nil
	}
	c.loading = false

	if err != nil {
		// The previous page stays on screen; only operator-facing API
		// errors are surfaced.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.notifier.Error("Load failed", apiErr.Message)
		}
		return err
	}

	c.page = page
	return nil
}

// Toggle flips one record in or out of the selection
func (c *Controller[T]) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Toggle(id)
}

// SelectAllVisible selects every record on the current page, or deselects
// them all when they are already selected.
func (c *Controller[T]) SelectAllVisible() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.SelectAll(c.page.IDs())
}

// ClearSelection empties the selection set
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Clear()
}

// Apply runs one verb against one record, confirms destructive verbs, and
// reconciles the local page on success. On any failure the page is left
// exactly as it was.
func (c *Controller[T]) Apply(ctx context.Context, verb, id string, extra interface{}) error {
	action, ok := c.actions[verb]
	if !ok {
		return fmt.Errorf("unknown verb %q", verb)
	}
	if !action.confirmed(c.confirmer, 1) {
		return nil
	}

	var body interface{}
	if action.Body != nil {
		body = action.Body(extra)
	}

	method := action.Method
	if method == "" {
		method = http.MethodPost
	}

	raw, err := c.doer.Do(ctx, method, "/"+id+action.PathSuffix, body)
	if err != nil {
		c.notifyError(verb, err)
		return err
	}

	c.mu.Lock()
	switch {
	case action.Removes:
		c.removeLocked(id)
	case action.Prepends:
		if record, derr := decodeRecord[T](raw); derr == nil {
			c.page.Records = append([]T{record}, c.page.Records...)
			c.page.TotalCount++
			c.page.TotalPages = TotalPagesFor(c.page.TotalCount, c.pageSize)
		}
	case action.Mutate != nil:
		for i := range c.page.Records {
			if c.page.Records[i].RecordID() == id {
				action.Mutate(&c.page.Records[i], extra)
				break
			}
		}
	}
	c.mu.Unlock()

	c.notifier.Success("Done", fmt.Sprintf("%s succeeded", verb))
	return nil
}

// ApplyBulk runs one verb against every selected id in a single request.
// Success mutates every matching visible record and clears the selection;
// failure leaves both the page and the selection intact.
func (c *Controller[T]) ApplyBulk(ctx context.Context, verb string, extra interface{}) error {
	action, ok := c.actions[verb]
	if !ok {
		return fmt.Errorf("unknown verb %q", verb)
	}

	c.mu.Lock()
	ids := c.selection.IDs()
	c.mu.Unlock()
	if len(ids) == 0 {
		return fmt.Errorf("no records selected")
	}

	if !action.confirmed(c.confirmer, len(ids)) {
		return nil
	}

	body := map[string]interface{}{"ids": ids}
	if action.Body != nil {
		if extraBody, ok := action.Body(extra).(map[string]interface{}); ok {
			for k, v := range extraBody {
				body[k] = v
			}
		}
	}

	if _, err := c.doer.Do(ctx, http.MethodPost, "/bulk/"+verb, body); err != nil {
		c.notifyError(verb, err)
		return err
	}

	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	c.mu.Lock()
	if action.Removes {
		kept := c.page.Records[:0]
		for _, r := range c.page.Records {
			if _, ok := selected[r.RecordID()]; ok {
				c.page.TotalCount--
				continue
			}
			kept = append(kept, r)
		}
		c.page.Records = kept
		c.page.TotalPages = TotalPagesFor(c.page.TotalCount, c.pageSize)
	} else if action.Mutate != nil {
		for i := range c.page.Records {
			if _, ok := selected[c.page.Records[i].RecordID()]; ok {
				action.Mutate(&c.page.Records[i], extra)
			}
		}
	}
	c.selection.Clear()
	c.mu.Unlock()

	c.notifier.Success("Done", fmt.Sprintf("%s applied to %d records", verb, len(ids)))
	return nil
}

func (c *Controller[T]) removeLocked(id string) {
	for i := range c.page.Records {
		if c.page.Records[i].RecordID() == id {
			c.page.Records = append(c.page.Records[:i], c.page.Records[i+1:]...)
			c.page.TotalCount--
			c.page.TotalPages = TotalPagesFor(c.page.TotalCount, c.pageSize)
			return
		}
	}
}

func (c *Controller[T]) notifyError(verb string, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.notifier.Error(verb+" failed", apiErr.Message)
		return
	}
	c.notifier.Error(verb+" failed", "network error, please try again")
}
