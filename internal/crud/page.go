package crud

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/logging"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

var (
	// ErrDisposed is returned by operations on a disposed Page.
	ErrDisposed = errors.New("page disposed")
	// ErrUnsupported is returned for an operation the resource does not offer.
	ErrUnsupported = errors.New("operation not supported")
)

// Op is a mutating operation of a resource.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

// Capabilities is implemented by resources that offer only some operations.
// Resources without it support all of them.
type Capabilities interface {
	Supports(op Op) bool
}

// Validator is implemented by every form type.
type Validator interface {
	Validate() error
}

// Resource is the subset of a resource wrapper a Page needs.
type Resource[T any, F Validator] interface {
	List(ctx context.Context, q v1.ListQuery) (v1.Page[T], error)
	Create(ctx context.Context, in F) error
	Update(ctx context.Context, id string, in F) error
	Delete(ctx context.Context, id string) error
}

// Form describes how forms relate to items.
type Form[T any, F Validator] struct {
	Blank    func() F
	FromItem func(T) F
	ID       func(T) string
	// Prepare, when set, normalizes a form before validation.
	Prepare func(F) F
	// Removed is the past tense used in the delete notification.
	// Empty means "deleted".
	Removed string
}

// ModalKind identifies the open modal.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalCreate
	ModalEdit
	ModalDelete
	ModalDetail
)

func (k ModalKind) String() string {
	switch k {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	case ModalDelete:
		return "delete"
	case ModalDetail:
		return "detail"
	}
	return "none"
}

// Modal is the open modal and the item it acts on. Target is nil for
// ModalNone and ModalCreate.
type Modal[T any] struct {
	Kind   ModalKind
	Target *T
}

// State is a snapshot of a Page.
type State[T any, F Validator] struct {
	Items      []T
	Loading    bool
	Pagination v1.Pagination
	Modal      Modal[T]
	Form       F
}

// Option configures a Page.
type Option func(*options)

type options struct {
	limit  int
	logger *logging.Logger
}

// WithLimit sets the page size.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Page is the list state of one resource. It is safe for concurrent use.
type Page[T any, F Validator] struct {
	name   string
	res    Resource[T, F]
	form   Form[T, F]
	notify Notifier
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State[T, F]
	gen      uint64
	disposed bool
}

// New creates a page for the resource called name (used in notifications),
// bound to ctx. The list is empty until FetchList is called.
func New[T any, F Validator](ctx context.Context, name string, res Resource[T, F], form Form[T, F], notify Notifier, opts ...Option) *Page[T, F] {
	o := options{limit: DefaultLimit, logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if notify == nil {
		notify = NotifierFunc(func(Notification) {})
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Page[T, F]{
		name:   name,
		res:    res,
		form:   form,
		notify: notify,
		logger: o.logger.Named("crud").With(zap.String("resource", name)),
		ctx:    ctx,
		cancel: cancel,
	}
	p.state.Items = []T{}
	p.state.Pagination = v1.Pagination{Page: 1, Limit: o.limit}
	p.state.Form = form.Blank()
	return p
}

// Supports reports whether the resource offers op.
func (p *Page[T, F]) Supports(op Op) bool {
	if c, ok := p.res.(Capabilities); ok {
		return c.Supports(op)
	}
	return true
}

// State returns a copy of the current state.
func (p *Page[T, F]) State() State[T, F] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Items = append([]T(nil), p.state.Items...)
	return s
}

// Dispose cancels in-flight requests. Later results and operations are
// ignored.
func (p *Page[T, F]) Dispose() {
	p.mu.Lock()
	p.disposed = true
	p.mu.Unlock()
	p.cancel()
}

// FetchList loads page n. On failure the previous items stay in place and
// an error notification is sent. A result superseded by a newer fetch or
// arriving after Dispose is dropped.
func (p *Page[T, F]) FetchList(n int) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	p.gen++
	gen := p.gen
	p.state.Loading = true
	limit := p.state.Pagination.Limit
	p.mu.Unlock()

	res, err := p.res.List(p.ctx, v1.ListQuery{Page: n, Limit: limit})

	p.mu.Lock()
	if p.disposed || gen != p.gen {
		p.mu.Unlock()
		p.logger.Debug(p.ctx, "dropping stale list result", zap.Int("page", n))
		return nil
	}
	p.state.Loading = false
	if err == nil {
		p.state.Items = res.Items
		if p.state.Items == nil {
			p.state.Items = []T{}
		}
		p.state.Pagination = res.Pagination
		if p.state.Pagination.Page == 0 {
			p.state.Pagination.Page = n
		}
		if p.state.Pagination.Limit == 0 {
			p.state.Pagination.Limit = limit
		}
	}
	p.mu.Unlock()

	if err != nil {
		p.fail(err)
		return err
	}
	return nil
}

// SetPage fetches page n. Out of range pages are left to the server.
func (p *Page[T, F]) SetPage(n int) error {
	return p.FetchList(n)
}

// Refresh fetches the current page again.
func (p *Page[T, F]) Refresh() error {
	return p.FetchList(p.currentPage())
}

// OpenCreate opens the create modal with a blank form.
func (p *Page[T, F]) OpenCreate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Modal = Modal[T]{Kind: ModalCreate}
	p.state.Form = p.form.Blank()
}

// OpenEdit opens the edit modal with a form pre-filled from item.
func (p *Page[T, F]) OpenEdit(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Modal = Modal[T]{Kind: ModalEdit, Target: &item}
	p.state.Form = p.form.FromItem(item)
}

// OpenDelete opens the delete confirmation for item.
func (p *Page[T, F]) OpenDelete(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Modal = Modal[T]{Kind: ModalDelete, Target: &item}
}

// OpenDetail opens the read-only view of item.
func (p *Page[T, F]) OpenDetail(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Modal = Modal[T]{Kind: ModalDetail, Target: &item}
}

// Close closes any open modal.
func (p *Page[T, F]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Modal = Modal[T]{}
}

// Submit validates form and creates an item, or updates the edit target.
// On success the modal closes and the current page is fetched again. On
// failure the modal stays open and keeps the entered form.
func (p *Page[T, F]) Submit(form F) error {
	if p.form.Prepare != nil {
		form = p.form.Prepare(form)
	}

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrDisposed
	}
	p.state.Form = form
	var id string
	if p.state.Modal.Kind == ModalEdit && p.state.Modal.Target != nil {
		id = p.form.ID(*p.state.Modal.Target)
	}
	p.mu.Unlock()

	op := OpCreate
	if id != "" {
		op = OpUpdate
	}
	if !p.Supports(op) {
		p.fail(ErrUnsupported)
		return ErrUnsupported
	}

	if err := form.Validate(); err != nil {
		p.fail(err)
		return err
	}

	verb := "created"
	var err error
	if op == OpCreate {
		err = p.res.Create(p.ctx, form)
	} else {
		verb = "updated"
		err = p.res.Update(p.ctx, id, form)
	}
	if p.isDisposed() {
		return ErrDisposed
	}
	if err != nil {
		p.fail(err)
		return err
	}

	p.mu.Lock()
	p.state.Modal = Modal[T]{}
	p.state.Form = p.form.Blank()
	p.mu.Unlock()

	p.notify.Notify(Notification{Level: Success, Message: p.name + " " + verb})
	return p.Refresh()
}

// ConfirmDelete deletes item and fetches the current page again. The item
// stays listed until the refetch confirms it is gone.
func (p *Page[T, F]) ConfirmDelete(item T) error {
	if p.isDisposed() {
		return ErrDisposed
	}
	if !p.Supports(OpDelete) {
		p.fail(ErrUnsupported)
		return ErrUnsupported
	}

	err := p.res.Delete(p.ctx, p.form.ID(item))
	if p.isDisposed() {
		return ErrDisposed
	}
	if err != nil {
		p.fail(err)
		return err
	}

	p.mu.Lock()
	p.state.Modal = Modal[T]{}
	p.mu.Unlock()

	removed := p.form.Removed
	if removed == "" {
		removed = "deleted"
	}
	p.notify.Notify(Notification{Level: Success, Message: p.name + " " + removed})
	return p.Refresh()
}

func (p *Page[T, F]) currentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Pagination.Page < 1 {
		return 1
	}
	return p.state.Pagination.Page
}

func (p *Page[T, F]) isDisposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

// fail reports err unless it only reflects the page being disposed.
func (p *Page[T, F]) fail(err error) {
	if errors.Is(err, context.Canceled) && p.ctx.Err() != nil {
		return
	}
	p.logger.Debug(p.ctx, "operation failed", zap.Error(err))
	msg := apiclient.UserMessage(err)
	if errors.Is(err, ErrUnsupported) {
		msg = p.name + ": " + err.Error()
	}
	p.notify.Notify(Notification{Level: Failure, Message: msg})
}
