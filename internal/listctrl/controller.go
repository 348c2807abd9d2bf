// Package listctrl implements the paginated list controller shared by the
// dealers and submissions views: a server-backed collection presented as a
// paginated table with view/add/edit/delete actions, keeping local UI
// state consistent with the outcome of asynchronous mutations.
package listctrl

import (
	"context"
	"net/url"
	"sync"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/validation"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/notify"
)

// Entity is anything renderable as a table row with a stable identity.
type Entity interface {
	Key() string
}

// ModalMode governs which panel is rendered. The three open modes are
// mutually exclusive; opening one while another is open replaces it.
type ModalMode string

const (
	ModeNone ModalMode = "none"
	ModeView ModalMode = "view"
	ModeAdd  ModalMode = "add"
	ModeEdit ModalMode = "edit"
)

// Hooks bind a controller instance to one resource's data layer. Load
// reads through the query cache; the mutation hooks invalidate the
// resource's query key after their own success and never before.
type Hooks[E Entity] struct {
	Load   func(ctx context.Context) ([]E, *models.PageMeta, error)
	Create func(ctx context.Context, payload map[string]interface{}) error
	Update func(ctx context.Context, id string, payload map[string]interface{}) error
	Delete func(ctx context.Context, id string) error
}

// Controller owns one view's pagination, modal and mutation state. Each
// view holds exactly one controller; no state is shared across views.
type Controller[E Entity] struct {
	mu sync.Mutex

	name     string
	pageSize int
	schema   validation.FormSchema
	hooks    Hooks[E]
	notifier *notify.Notifier
	logger   logger.Logger

	items []E
	meta  *models.PageMeta
	page  int

	mode     ModalMode
	selected *E
	draft    url.Values
	scroll   scrollLock

	// Monotonic mutation tokens, last-started-wins: a completion whose
	// token is older than the newest issued token for the same target is
	// discarded entirely.
	nextSeq uint64
	issued  map[string]uint64
}

func New[E Entity](name string, pageSize int, schema validation.FormSchema, hooks Hooks[E], notifier *notify.Notifier, surface ScrollSurface, log logger.Logger) *Controller[E] {
	return &Controller[E]{
		name:     name,
		pageSize: pageSize,
		schema:   schema,
		hooks:    hooks,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"view": name}),
		page:     1,
		mode:     ModeNone,
		scroll:   scrollLock{surface: surface},
		issued:   map[string]uint64{},
	}
}

// Load refreshes the collection and re-clamps the current page, so the
// displayed page stays valid when the collection shrinks (for example
// after a delete drops the last item off the last page).
func (c *Controller[E]) Load(ctx context.Context) error {
	items, meta, err := c.hooks.Load(ctx)
	if err != nil {
		se := apperrors.AsStandard(err)
		if apperrors.IsCancelled(se) {
			return se
		}
		c.logger.Warn("collection load failed", map[string]interface{}{"error": se.Error()})
		return se
	}

	c.mu.Lock()
	c.items = items
	c.meta = meta
	c.page = ClampPage(c.page, TotalPages(len(items), c.pageSize))
	c.mu.Unlock()
	return nil
}

// Window returns the visible slice bounds for the current page.
func (c *Controller[E]) Window() PageWindow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Window(len(c.items), c.pageSize, c.page)
}

// PageItems returns the rows of the current page.
func (c *Controller[E]) PageItems() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := Window(len(c.items), c.pageSize, c.page)
	return c.items[w.Start:w.End]
}

// Head returns up to n rows from the front of the loaded collection,
// independent of the current page window. The overview's recent-dealers
// panel reads through here so paging the table never changes it.
func (c *Controller[E]) Head(n int) []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.items) {
		n = len(c.items)
	}
	out := make([]E, n)
	copy(out, c.items[:n])
	return out
}

// Meta returns the server-supplied paging block from the last load, when
// the backend sent one.
func (c *Controller[E]) Meta() *models.PageMeta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// GoToPage moves to page p, clamped into range. Out-of-range input renders
// the nearest valid page rather than erroring.
func (c *Controller[E]) GoToPage(p int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = ClampPage(p, TotalPages(len(c.items), c.pageSize))
}

// OpenView shows the read-only detail panel for an entity.
func (c *Controller[E]) OpenView(entity E) {
	c.open(ModeView, &entity)
}

// OpenAdd shows the empty create form.
func (c *Controller[E]) OpenAdd() {
	c.open(ModeAdd, nil)
}

// OpenEdit shows the edit form pre-filled from an entity.
func (c *Controller[E]) OpenEdit(entity E) {
	c.open(ModeEdit, &entity)
}

func (c *Controller[E]) open(mode ModalMode, selected *E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.selected = selected
	c.scroll.lock()
}

// CloseModal clears mode, selection and any kept draft, restoring the
// scroll surface to its pre-open value. Cancel button, backdrop click and
// Escape all land here.
func (c *Controller[E]) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller[E]) closeLocked() {
	c.mode = ModeNone
	c.selected = nil
	c.draft = nil
	c.scroll.unlock()
}

// Mode returns the active modal mode.
func (c *Controller[E]) Mode() ModalMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Selected returns the entity the open modal refers to, or nil for add
// mode and no modal.
func (c *Controller[E]) Selected() *E {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Draft returns the form values kept from a failed submit, so the user can
// retry without re-typing.
func (c *Controller[E]) Draft() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Submit routes form values to the create mutation in add mode and to the
// update mutation (keyed by the selected identity) in edit mode. On
// success the modal closes and a success toast is emitted; on failure the
// modal stays open with the entered values intact and a failure toast is
// emitted. Failures are reported generically and never propagate.
func (c *Controller[E]) Submit(ctx context.Context, form url.Values) error {
	c.mu.Lock()
	mode := c.mode
	selected := c.selected
	c.draft = form

	if mode != ModeAdd && mode != ModeEdit {
		c.mu.Unlock()
		return apperrors.NewFormValidationError("no form open")
	}

	target := ""
	if mode == ModeEdit {
		if selected == nil {
			c.mu.Unlock()
			return apperrors.NewFormValidationError("edit with no selection")
		}
		target = (*selected).Key()
	}
	if (mode == ModeAdd && c.hooks.Create == nil) || (mode == ModeEdit && c.hooks.Update == nil) {
		c.mu.Unlock()
		return apperrors.NewFormValidationError("view does not support " + string(mode))
	}
	seq := c.stampLocked(target)
	c.mu.Unlock()

	payload := c.schema.PayloadFromForm(form)
	if vres := c.schema.Validate(payload); !vres.Valid {
		se := apperrors.NewFormValidationError(vres.Details())
		c.notifier.Error(se.UserMessage())
		return se
	}

	var err error
	if mode == ModeAdd {
		err = c.hooks.Create(ctx, payload)
	} else {
		err = c.hooks.Update(ctx, target, payload)
	}

	if c.stale(target, seq) {
		// A newer submit for the same target started while this one was in
		// flight; discard this completion outright.
		return nil
	}

	if err != nil {
		se := apperrors.AsStandard(err)
		if apperrors.IsCancelled(se) {
			return se
		}
		c.notifier.Error(se.UserMessage())
		return se
	}

	if mode == ModeAdd {
		c.notifier.Success(c.name + " added successfully")
	} else {
		c.notifier.Success(c.name + " updated successfully")
	}
	c.CloseModal()
	return c.Load(ctx)
}

// Delete removes an entity after explicit confirmation. Without
// confirmation nothing happens. On success the collection is re-fetched
// and, when the deleted entity is the one open in a modal, the modal
// closes; on failure a toast is emitted and all state is left unchanged.
func (c *Controller[E]) Delete(ctx context.Context, entity E, confirmed bool) error {
	if !confirmed {
		return nil
	}

	if err := c.hooks.Delete(ctx, entity.Key()); err != nil {
		se := apperrors.AsStandard(err)
		if apperrors.IsCancelled(se) {
			return se
		}
		c.notifier.Error(se.UserMessage())
		return se
	}

	c.mu.Lock()
	if c.selected != nil && (*c.selected).Key() == entity.Key() {
		c.closeLocked()
	}
	c.mu.Unlock()

	c.notifier.Success(c.name + " deleted successfully")
	return c.Load(ctx)
}

// Find looks an entity up by its stable identity in the loaded collection.
func (c *Controller[E]) Find(key string) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.Key() == key {
			return item, true
		}
	}
	var zero E
	return zero, false
}

func (c *Controller[E]) stampLocked(target string) uint64 {
	c.nextSeq++
	c.issued[target] = c.nextSeq
	return c.nextSeq
}

func (c *Controller[E]) stale(target string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issued[target] != seq
}
