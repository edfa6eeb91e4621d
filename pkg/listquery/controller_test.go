package listquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Featured bool   `json:"featured"`
	Views    int    `json:"views"`
}

func (r testRecord) RecordID() string { return r.ID }

// fakeFetcher records every query it is asked for and serves canned pages
type fakeFetcher struct {
	mu      sync.Mutex
	calls   []QueryState
	page    Page[testRecord]
	err     error
	onFetch func(q QueryState) (Page[testRecord], error)
}

func (f *fakeFetcher) FetchPage(ctx context.Context, q QueryState, pageSize int) (Page[testRecord], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q.Clone())
	f.mu.Unlock()
	if f.onFetch != nil {
		return f.onFetch(q)
	}
	if f.err != nil {
		return Page[testRecord]{}, f.err
	}
	return f.page.Clone(), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeFetcher) lastCall() QueryState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// fakeDoer serves mutation calls
type fakeDoer struct {
	mu       sync.Mutex
	requests []string
	bodies   []interface{}
	response json.RawMessage
	err      error
}

func (d *fakeDoer) Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	d.mu.Lock()
	d.requests = append(d.requests, method+" "+path)
	d.bodies = append(d.bodies, body)
	d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	return d.response, nil
}

func threeRecords() Page[testRecord] {
	return Page[testRecord]{
		Records: []testRecord{
			{ID: "a", Title: "Alpha", Status: "draft"},
			{ID: "b", Title: "Beta", Status: "draft"},
			{ID: "c", Title: "Gamma", Status: "published"},
		},
		TotalCount: 3,
		TotalPages: 1,
	}
}

func changeStatusAction() Action[testRecord] {
	return Action[testRecord]{
		Verb:       "status",
		Method:     http.MethodPatch,
		PathSuffix: "/status",
		Body: func(extra interface{}) interface{} {
			return map[string]interface{}{"status": extra}
		},
		Mutate: func(r *testRecord, extra interface{}) {
			r.Status = extra.(string)
		},
	}
}

func newTestController(fetcher *fakeFetcher, doer *fakeDoer, actions ...Action[testRecord]) *Controller[testRecord] {
	return NewController(Options[testRecord]{
		Fetcher:        fetcher,
		Doer:           doer,
		Actions:        actions,
		PageSize:       15,
		DefaultSort:    "created_at",
		SearchDebounce: 20 * time.Millisecond,
	})
}

func TestSetFilterFetchesOnceWithResetPage(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	ctrl := newTestController(fetcher, &fakeDoer{})

	ctrl.SetFilter(context.Background(), "status", "published")

	require.Equal(t, 1, fetcher.callCount())
	q := fetcher.lastCall()
	assert.Equal(t, "published", q.Filter("status"))
	assert.Equal(t, 1, q.Page)
}

func TestSetPageClamps(t *testing.T) {
	fetcher := &fakeFetcher{page: Page[testRecord]{TotalCount: 48, TotalPages: 4}}
	ctrl := newTestController(fetcher, &fakeDoer{})

	require.NoError(t, ctrl.Refresh(context.Background()))
	ctrl.SetPage(context.Background(), 5)

	assert.Equal(t, 4, ctrl.Query().Page)

	ctrl.SetPage(context.Background(), 0)
	assert.Equal(t, 1, ctrl.Query().Page)
}

func TestSetPageKeepsOtherFields(t *testing.T) {
	fetcher := &fakeFetcher{page: Page[testRecord]{TotalCount: 48, TotalPages: 4}}
	ctrl := newTestController(fetcher, &fakeDoer{})

	ctrl.SetFilter(context.Background(), "status", "published")
	ctrl.SetPage(context.Background(), 2)

	q := ctrl.Query()
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, "published", q.Filter("status"))
}

func TestSearchDebounceCoalesces(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	ctrl := newTestController(fetcher, &fakeDoer{})

	ctrl.SetSearchText("g")
	ctrl.SetSearchText("gp")
	ctrl.SetSearchText("gpt")

	// Well past the debounce window
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, 1, fetcher.callCount())
	assert.Equal(t, "gpt", fetcher.lastCall().SearchText)
	assert.Equal(t, 1, fetcher.lastCall().Page)
}

func TestLatestRequestWins(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	fetcher := &fakeFetcher{}
	fetcher.onFetch = func(q QueryState) (Page[testRecord], error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return Page[testRecord]{Records: []testRecord{{ID: "stale"}}, TotalCount: 1, TotalPages: 1}, nil
		}
		return Page[testRecord]{Records: []testRecord{{ID: "fresh"}}, TotalCount: 1, TotalPages: 1}, nil
	}

	ctrl := newTestController(fetcher, &fakeDoer{})

	done := make(chan struct{})
	go func() {
		_ = ctrl.Refresh(context.Background())
		close(done)
	}()
	<-started

	// A second refresh supersedes the outstanding one
	require.NoError(t, ctrl.Refresh(context.Background()))
	close(release)
	<-done

	page := ctrl.Page()
	require.Len(t, page.Records, 1)
	assert.Equal(t, "fresh", page.Records[0].ID)
}

func TestFailedFetchKeepsPreviousPage(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	ctrl := newTestController(fetcher, &fakeDoer{})

	require.NoError(t, ctrl.Refresh(context.Background()))
	before := ctrl.Page()

	fetcher.err = &APIError{Status: 403, Message: "permission denied"}
	err := ctrl.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, before, ctrl.Page())
	assert.False(t, ctrl.Loading())
}

func TestApplyChangeStatusMutatesOnlyTarget(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{}
	ctrl := newTestController(fetcher, doer, changeStatusAction())

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Apply(context.Background(), "status", "a", "published"))

	page := ctrl.Page()
	for _, r := range page.Records {
		if r.ID == "a" {
			assert.Equal(t, "published", r.Status)
		} else {
			assert.Equal(t, threeRecordStatus(r.ID), r.Status)
		}
	}
	assert.Equal(t, []string{"PATCH /a/status"}, doer.requests)
}

func threeRecordStatus(id string) string {
	for _, r := range threeRecords().Records {
		if r.ID == id {
			return r.Status
		}
	}
	return ""
}

func TestApplyHardDeleteRemovesRecord(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{}
	ctrl := newTestController(fetcher, doer, Action[testRecord]{
		Verb:          "hardDelete",
		Method:        http.MethodDelete,
		PathSuffix:    "/permanent",
		ConfirmPhrase: "DELETE",
		Removes:       true,
		Body: func(interface{}) interface{} {
			return map[string]string{"confirm": "DELETE"}
		},
	})

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Apply(context.Background(), "hardDelete", "b", nil))

	page := ctrl.Page()
	assert.Equal(t, 2, page.TotalCount)
	for _, r := range page.Records {
		assert.NotEqual(t, "b", r.ID)
	}
}

func TestApplyDuplicatePrepends(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{response: json.RawMessage(`{"data":{"id":"d","title":"Copy of Alpha","status":"draft"}}`)}
	ctrl := newTestController(fetcher, doer, Action[testRecord]{
		Verb:       "duplicate",
		Method:     http.MethodPost,
		PathSuffix: "/duplicate",
		Prepends:   true,
	})

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Apply(context.Background(), "duplicate", "a", nil))

	page := ctrl.Page()
	require.Len(t, page.Records, 4)
	assert.Equal(t, "d", page.Records[0].ID)
	assert.Equal(t, "draft", page.Records[0].Status)
	assert.Equal(t, 4, page.TotalCount)
}

func TestFailedApplyLeavesPageUntouched(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{err: &APIError{Status: 409, Message: "conflict"}}
	ctrl := newTestController(fetcher, doer, changeStatusAction())

	require.NoError(t, ctrl.Refresh(context.Background()))
	before := ctrl.Page()

	err := ctrl.Apply(context.Background(), "status", "a", "published")
	require.Error(t, err)

	assert.Equal(t, before, ctrl.Page())
}

func TestApplyUnknownVerb(t *testing.T) {
	ctrl := newTestController(&fakeFetcher{}, &fakeDoer{})
	err := ctrl.Apply(context.Background(), "nope", "a", nil)
	assert.Error(t, err)
}

func TestApplyBulkSuccess(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{}
	ctrl := newTestController(fetcher, doer, changeStatusAction())

	require.NoError(t, ctrl.Refresh(context.Background()))
	ctrl.Toggle("a")
	ctrl.Toggle("b")
	ctrl.Toggle("c")

	require.NoError(t, ctrl.ApplyBulk(context.Background(), "status", "archived"))

	page := ctrl.Page()
	for _, r := range page.Records {
		assert.Equal(t, "archived", r.Status)
	}
	assert.Empty(t, ctrl.SelectedIDs())

	require.Len(t, doer.requests, 1)
	assert.Equal(t, "POST /bulk/status", doer.requests[0])
	body := doer.bodies[0].(map[string]interface{})
	assert.ElementsMatch(t, []string{"a", "b", "c"}, body["ids"])
	assert.Equal(t, "archived", body["status"])
}

func TestApplyBulkFailureLeavesEverythingIntact(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{err: errors.New("connection refused")}
	ctrl := newTestController(fetcher, doer, changeStatusAction())

	require.NoError(t, ctrl.Refresh(context.Background()))
	ctrl.Toggle("a")
	ctrl.Toggle("b")
	ctrl.Toggle("c")
	before := ctrl.Page()

	err := ctrl.ApplyBulk(context.Background(), "status", "archived")
	require.Error(t, err)

	assert.Equal(t, before, ctrl.Page())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ctrl.SelectedIDs())
}

func TestApplyBulkRequiresSelection(t *testing.T) {
	ctrl := newTestController(&fakeFetcher{}, &fakeDoer{}, changeStatusAction())
	err := ctrl.ApplyBulk(context.Background(), "status", "archived")
	assert.Error(t, err)
}

func TestSelectAllVisibleThenClear(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	ctrl := newTestController(fetcher, &fakeDoer{})

	require.NoError(t, ctrl.Refresh(context.Background()))

	ctrl.SelectAllVisible()
	assert.Len(t, ctrl.SelectedIDs(), 3)

	ctrl.ClearSelection()
	assert.Empty(t, ctrl.SelectedIDs())
}

func TestSelectionPersistsAcrossPagination(t *testing.T) {
	pageOne := threeRecords()
	pageTwo := Page[testRecord]{
		Records:    []testRecord{{ID: "x"}, {ID: "y"}},
		TotalCount: 5,
		TotalPages: 2,
	}

	var current Page[testRecord] = pageOne
	fetcher := &fakeFetcher{}
	fetcher.onFetch = func(q QueryState) (Page[testRecord], error) {
		if q.Page >= 2 {
			return pageTwo.Clone(), nil
		}
		return current.Clone(), nil
	}
	ctrl := newTestController(fetcher, &fakeDoer{})

	require.NoError(t, ctrl.Refresh(context.Background()))
	ctrl.Toggle("a")
	ctrl.Toggle("b")

	ctrl.SetPage(context.Background(), 2)

	// The two checked ids survive even though they are no longer visible
	assert.ElementsMatch(t, []string{"a", "b"}, ctrl.SelectedIDs())
	assert.True(t, ctrl.Selected("a"))
}

type recordingConfirmer struct {
	prompts []string
	phrases []string
	answer  bool
}

func (c *recordingConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

func (c *recordingConfirmer) ConfirmTyped(prompt, phrase string) bool {
	c.prompts = append(c.prompts, prompt)
	c.phrases = append(c.phrases, phrase)
	return c.answer
}

func TestDestructiveActionRequiresConfirmation(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{}
	confirmer := &recordingConfirmer{answer: false}

	ctrl := NewController(Options[testRecord]{
		Fetcher:   fetcher,
		Doer:      doer,
		Confirmer: confirmer,
		Actions: []Action[testRecord]{{
			Verb:        "delete",
			Method:      http.MethodDelete,
			Destructive: true,
			Removes:     true,
		}},
	})

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Apply(context.Background(), "delete", "a", nil))

	// Declined: no request was sent, nothing changed
	assert.Empty(t, doer.requests)
	assert.Len(t, ctrl.Page().Records, 3)
	assert.Len(t, confirmer.prompts, 1)
}

func TestHardDeleteRequiresTypedPhrase(t *testing.T) {
	confirmer := &recordingConfirmer{answer: true}
	doer := &fakeDoer{}
	fetcher := &fakeFetcher{page: threeRecords()}

	ctrl := NewController(Options[testRecord]{
		Fetcher:   fetcher,
		Doer:      doer,
		Confirmer: confirmer,
		Actions: []Action[testRecord]{{
			Verb:          "hardDelete",
			Method:        http.MethodDelete,
			PathSuffix:    "/permanent",
			ConfirmPhrase: "DELETE",
			Removes:       true,
		}},
	})

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Apply(context.Background(), "hardDelete", "a", nil))

	require.Len(t, confirmer.phrases, 1)
	assert.Equal(t, "DELETE", confirmer.phrases[0])
}

func TestBulkConfirmationNamesCount(t *testing.T) {
	confirmer := &recordingConfirmer{answer: true}
	fetcher := &fakeFetcher{page: threeRecords()}
	doer := &fakeDoer{}

	ctrl := NewController(Options[testRecord]{
		Fetcher:   fetcher,
		Doer:      doer,
		Confirmer: confirmer,
		Actions: []Action[testRecord]{{
			Verb:        "delete",
			Destructive: true,
			Removes:     true,
		}},
	})

	require.NoError(t, ctrl.Refresh(context.Background()))
	ctrl.Toggle("a")
	ctrl.Toggle("b")

	require.NoError(t, ctrl.ApplyBulk(context.Background(), "delete", nil))

	require.Len(t, confirmer.prompts, 1)
	assert.Equal(t, fmt.Sprintf("Apply %q to 2 records?", "delete"), confirmer.prompts[0])
}

func TestResetRestoresDefaults(t *testing.T) {
	fetcher := &fakeFetcher{page: threeRecords()}
	ctrl := newTestController(fetcher, &fakeDoer{})

	ctrl.SetFilter(context.Background(), "status", "published")
	ctrl.SetSort(context.Background(), "views")
	ctrl.Reset(context.Background())

	q := ctrl.Query()
	assert.Empty(t, q.Filters)
	assert.Empty(t, q.SearchText)
	assert.Equal(t, "created_at", q.SortField)
	assert.Equal(t, 1, q.Page)
}
