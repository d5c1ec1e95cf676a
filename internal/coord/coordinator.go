// Package coord orchestrates which resources each page needs, applies fetch
// results to the store and tracks per-resource panel state.
//
// Network work (Fetch, SubmitMutation, FetchDetail) touches no coordinator
// state beyond sequence allocation and is safe to run inside a tea.Cmd.
// Apply is the single writer of store data: it is called from the UI update
// loop (or Sync) with resolutions in arrival order and drops stale ones.
package coord

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/h0rv/prep/internal/api"
	"github.com/h0rv/prep/internal/domain"
	"github.com/h0rv/prep/internal/store"
)

var (
	// ErrUnknownPage indicates a page id outside the catalogue.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownMutation indicates a mutation kind with no registered handler.
	ErrUnknownMutation = errors.New("unknown mutation")
	// ErrInvalidPayload indicates a mutation payload of the wrong type or failing validation.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrTogglePending indicates a status toggle whose confirmation has not settled yet.
	ErrTogglePending = errors.New("status change already pending")
	// ErrAlreadyDone indicates a toggle on a problem that is already done.
	ErrAlreadyDone = errors.New("problem already done")
)

// Transport is the backend surface the coordinator needs. *api.Client satisfies it.
type Transport interface {
	Get(ctx context.Context, path string) api.Outcome
	Post(ctx context.Context, path string, body any) api.Outcome
	Put(ctx context.Context, path string, body any) api.Outcome
	Delete(ctx context.Context, path string) api.Outcome
	PostForm(ctx context.Context, path string, form api.FormPayload) api.Outcome
	Health(ctx context.Context) api.Outcome
}

// Request is one resource fetch tagged with its activation sequence.
type Request struct {
	Resource domain.ResourceID
	Seq      uint64
}

// Resolution is the decoded result of one Request.
type Resolution struct {
	Request
	Items []domain.Item
	Class api.FailureClass
	Code  int
	Err   error
}

// OK reports whether the fetch produced items.
func (r Resolution) OK() bool { return r.Class == api.FailureNone }

// ApplyResult reports what Apply did with a resolution.
type ApplyResult struct {
	Resource domain.ResourceID
	Stale    bool // Discarded: a newer resolution was already applied
	State    PanelState
}

// Coordinator drives the store and panel states for every page.
type Coordinator struct {
	transport Transport
	store     *store.Store
	validate  *validator.Validate
	logger    *zap.Logger

	mu      sync.Mutex
	seq     uint64
	applied map[domain.ResourceID]uint64
	panels  map[domain.ResourceID]PanelState
	filters map[PageID]store.FilterState
	toggles map[int]bool // Problems with an unsettled optimistic toggle
}

// New creates a coordinator with an empty collection and panel per resource.
func New(transport Transport, logger *zap.Logger) *Coordinator {
	ids := ResourceIDs()
	c := &Coordinator{
		transport: transport,
		store:     store.New(ids...),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.Named("coord"),
		applied:   make(map[domain.ResourceID]uint64, len(ids)),
		panels:    make(map[domain.ResourceID]PanelState, len(ids)),
		filters:   make(map[PageID]store.FilterState),
		toggles:   make(map[int]bool),
	}
	for _, res := range ids {
		c.panels[res] = PanelState{Status: PanelEmpty}
	}
	return c
}

// Store exposes the store for read access.
func (c *Coordinator) Store() *store.Store { return c.store }

// ActivatePage issues the fetch set of a page under a fresh sequence and
// moves its panels to Loading. In-flight work from earlier activations is
// not cancelled; its results are discarded by Apply when stale.
func (c *Coordinator) ActivatePage(id PageID) ([]Request, error) {
	page, ok := LookupPage(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	return c.begin(page.Resources), nil
}

// Refresh re-issues the fetch of a single resource.
func (c *Coordinator) Refresh(res domain.ResourceID) Request {
	return c.begin([]domain.ResourceID{res})[0]
}

func (c *Coordinator) begin(ids []domain.ResourceID) []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	reqs := make([]Request, 0, len(ids))
	for _, res := range ids {
		c.panels[res] = PanelState{Status: PanelLoading, Seq: c.seq}
		reqs = append(reqs, Request{Resource: res, Seq: c.seq})
	}
	return reqs
}

// Fetch performs the transport call for req and decodes its items.
func (c *Coordinator) Fetch(ctx context.Context, req Request) Resolution {
	spec, ok := Resource(req.Resource)
	if !ok {
		return Resolution{Request: req, Class: api.FailureDecode, Err: fmt.Errorf("%w: %s", store.ErrUnknownResource, req.Resource)}
	}

	out := c.transport.Get(ctx, spec.Path)
	if !out.OK() {
		return Resolution{Request: req, Class: out.Class, Code: out.Status, Err: out.Err}
	}

	items, err := domain.DecodeItems(spec.Shape, out.Payload)
	if err != nil {
		return Resolution{Request: req, Class: api.FailureDecode, Code: out.Status, Err: err}
	}
	return Resolution{Request: req, Items: items}
}

// Apply merges one resolution. A resolution older than the last applied one
// for its resource is dropped without touching the panel. Success replaces
// the collection; failure marks the panel Failed and keeps the old data.
func (c *Coordinator) Apply(r Resolution) ApplyResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Seq < c.applied[r.Resource] {
		c.logger.Debug("discarding stale resolution",
			zap.String("resource", string(r.Resource)),
			zap.Uint64("seq", r.Seq),
			zap.Uint64("applied", c.applied[r.Resource]))
		return ApplyResult{Resource: r.Resource, Stale: true, State: c.panels[r.Resource]}
	}

	if !r.OK() {
		c.logger.Warn("resource fetch failed",
			zap.String("resource", string(r.Resource)),
			zap.Stringer("class", r.Class),
			zap.Int("status", r.Code),
			zap.Error(r.Err))
		c.applied[r.Resource] = r.Seq
		state := PanelState{Status: PanelFailed, Class: r.Class, Code: r.Code, Seq: r.Seq}
		c.panels[r.Resource] = state
		return ApplyResult{Resource: r.Resource, State: state}
	}

	if !c.store.Replace(r.Resource, r.Items, r.Seq) {
		return ApplyResult{Resource: r.Resource, Stale: true, State: c.panels[r.Resource]}
	}
	c.applied[r.Resource] = r.Seq
	state := PanelState{Status: PanelLoaded, Seq: r.Seq}
	c.panels[r.Resource] = state
	return ApplyResult{Resource: r.Resource, State: state}
}

// Resolve fetches reqs concurrently and applies each resolution as it arrives.
func (c *Coordinator) Resolve(ctx context.Context, reqs []Request) []ApplyResult {
	results := make(chan Resolution, len(reqs))
	var g errgroup.Group
	for _, req := range reqs {
		g.Go(func() error {
			results <- c.Fetch(ctx, req)
			return nil
		})
	}

	applied := make([]ApplyResult, 0, len(reqs))
	for range reqs {
		applied = append(applied, c.Apply(<-results))
	}
	_ = g.Wait()
	return applied
}

// Sync activates a page, waits for every resource and returns the final
// panel states. For callers without an event loop.
func (c *Coordinator) Sync(ctx context.Context, id PageID) (map[domain.ResourceID]PanelState, error) {
	reqs, err := c.ActivatePage(id)
	if err != nil {
		return nil, err
	}
	c.Resolve(ctx, reqs)

	states := make(map[domain.ResourceID]PanelState, len(reqs))
	for _, req := range reqs {
		states[req.Resource] = c.Panel(req.Resource)
	}
	return states, nil
}

// Panel returns the state of the panel bound to res.
func (c *Coordinator) Panel(res domain.ResourceID) PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panels[res]
}

// ApplyFilter overwrites the active filter of a page. No network access.
func (c *Coordinator) ApplyFilter(id PageID, f store.FilterState) error {
	if _, ok := LookupPage(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[id] = f
	return nil
}

// Filter returns the active filter of a page.
func (c *Coordinator) Filter(id PageID) store.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.filters[id]; ok {
		return f
	}
	return store.FilterState{Kind: store.FilterAll}
}

// View yields the items of res as shown on page id: the page filter applies
// to its primary resource only.
func (c *Coordinator) View(id PageID, res domain.ResourceID) iter.Seq[domain.Item] {
	var pred store.Predicate
	if page, ok := LookupPage(id); ok && page.Primary == res {
		pred = store.MatchFilter(c.Filter(id))
	}
	return c.store.Filter(res, pred)
}

// Health probes backend liveness.
func (c *Coordinator) Health(ctx context.Context) api.Outcome {
	return c.transport.Health(ctx)
}
