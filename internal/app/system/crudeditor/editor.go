// internal/app/system/crudeditor/editor.go
//
// Package crudeditor implements the create/edit workflow shared by every
// content resource: a draft staged in Create or Edit mode, validation,
// image selection, submission through the content API and reconciliation
// with the authoritative list.
package crudeditor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"github.com/dalemusser/institutehub/internal/app/system/formrules"
	"github.com/dalemusser/institutehub/internal/app/system/imageprep"
	"github.com/dalemusser/institutehub/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a mutation is already in flight.
	ErrBusy = errors.New("crudeditor: another change is in progress")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("crudeditor: editor closed")
	// ErrInvalid is returned by Submit when the draft fails validation.
	ErrInvalid = errors.New("crudeditor: draft is invalid")
	// ErrUnknownField is returned for fields the schema does not define.
	ErrUnknownField = errors.New("crudeditor: unknown field")
	// ErrNotFound is returned when an id is not in the current list.
	ErrNotFound = errors.New("crudeditor: record not in list")
	// ErrStale is returned when a slow image result arrives for a draft
	// that has since been reset or replaced.
	ErrStale = errors.New("crudeditor: draft changed")
	// ErrNotSupported is returned by ToggleActive on resources without a flag.
	ErrNotSupported = errors.New("crudeditor: operation not supported")
)

// Mode is the editor's state.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// API is the subset of the content client an editor needs.
type API[R models.Record] interface {
	List(ctx context.Context) ([]R, error)
	Create(ctx context.Context, p apiclient.Payload) (R, error)
	Update(ctx context.Context, id models.ID, p apiclient.Payload) (R, error)
	Remove(ctx context.Context, id models.ID) error
	ToggleActive(ctx context.Context, id models.ID) error
}

// Options configure an Editor.
type Options[R models.Record] struct {
	Resource string // label for logs and notices
	Owner    string // preview ownership key, unique per editor
	Schema   Schema
	API      API[R]
	Previews *imageprep.PreviewStore
	Notifier Notifier
	Logger   *zap.Logger
	// Sanitize cleans text input before it is stored in the draft.
	Sanitize func(string) string
}

// DraftImage is the state of one image field.
type DraftImage struct {
	Preview  imageprep.Handle // newly selected, not yet uploaded
	FileName string
	Existing string // filename already stored on the server
	Error    string
}

// Draft is a snapshot of the in-progress record.
type Draft struct {
	Mode      Mode
	EditingID models.ID
	Values    map[string]string
	Images    map[string]DraftImage
	Errors    formrules.Errors
	Dirty     bool
}

// Editor stages one resource's create/edit draft and keeps its list. It is
// safe for concurrent use; API calls run without holding the lock.
type Editor[R models.Record] struct {
	mu sync.Mutex

	resource string
	owner    string
	schema   Schema
	ruleset  formrules.Ruleset
	api      API[R]
	previews *imageprep.PreviewStore
	notify   Notifier
	log      *zap.Logger
	sanitize func(string) string

	mode      Mode
	editing   *R
	values    map[string]string
	slots     map[string]*imageprep.Slot
	imageErrs map[string]string
	touched   map[string]bool
	attempted bool
	errors    formrules.Errors
	dirty     bool
	gen       uint64

	items      []R
	issuedSeq  uint64
	appliedSeq uint64

	busy     bool
	closed   bool
	lastUsed time.Time
}

// New builds an editor in Create mode with an empty list.
func New[R models.Record](opts Options[R]) *Editor[R] {
	if opts.Previews == nil {
		opts.Previews = imageprep.NewPreviewStore(0, opts.Logger)
	}
	if opts.Notifier == nil {
		opts.Notifier = &Notices{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Sanitize == nil {
		opts.Sanitize = func(s string) string { return s }
	}
	e := &Editor[R]{
		resource: opts.Resource,
		owner:    opts.Owner,
		schema:   opts.Schema,
		ruleset:  opts.Schema.Ruleset(),
		api:      opts.API,
		previews: opts.Previews,
		notify:   opts.Notifier,
		log:      opts.Logger.With(zap.String("resource", opts.Resource)),
		sanitize: opts.Sanitize,
		lastUsed: time.Now(),
	}
	e.resetLocked()
	return e
}

// Schema returns the editor's schema.
func (e *Editor[R]) Schema() Schema { return e.schema }

// Notifier returns where the editor sends notices.
func (e *Editor[R]) Notifier() Notifier { return e.notify }

// DrainNotices returns queued notices when the notifier is a *Notices.
func (e *Editor[R]) DrainNotices() []Notice {
	if q, ok := e.notify.(*Notices); ok {
		return q.Drain()
	}
	return nil
}

// Draft returns a snapshot of the current draft.
func (e *Editor[R]) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()

	d := Draft{
		Mode:   e.mode,
		Values: make(map[string]string, len(e.values)),
		Images: make(map[string]DraftImage, len(e.slots)),
		Errors: make(formrules.Errors, len(e.errors)),
		Dirty:  e.dirty,
	}
	if e.editing != nil {
		d.EditingID = (*e.editing).RecordID()
	}
	for k, v := range e.values {
		d.Values[k] = v
	}
	for k, v := range e.errors {
		d.Errors[k] = v
	}
	var existing map[string]string
	if e.editing != nil {
		existing = (*e.editing).ImageFiles()
	}
	for field, sl := range e.slots {
		di := DraftImage{Preview: sl.Handle(), Existing: existing[field], Error: e.imageErrs[field]}
		if f, ok := sl.File(); ok {
			di.FileName = f.Name
		}
		d.Images[field] = di
	}
	return d
}

// Items returns the last list fetched from the API.
func (e *Editor[R]) Items() []R {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]R(nil), e.items...)
}

// Errors returns the current validation errors.
func (e *Editor[R]) Errors() formrules.Errors {
	return e.Draft().Errors
}

// Busy reports whether a mutation is in flight.
func (e *Editor[R]) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Closed reports whether Close has been called.
func (e *Editor[R]) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// SetField stores a text value and revalidates. Edits are refused with
// ErrBusy while a submit is in flight, since a successful submit resets
// the draft.
func (e *Editor[R]) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	if _, ok := e.schema.field(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	e.setLocked(name, value)
	e.recomputeLocked()
	return nil
}

// SetFields stores every schema field present in values. Other keys are ignored.
func (e *Editor[R]) SetFields(values map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	for _, f := range e.schema.Fields {
		if v, ok := values[f.Name]; ok {
			e.setLocked(f.Name, v)
		}
	}
	e.recomputeLocked()
	return nil
}

func (e *Editor[R]) editableLocked() error {
	if e.closed {
		return ErrClosed
	}
	if e.busy {
		return ErrBusy
	}
	return nil
}

func (e *Editor[R]) setLocked(name, value string) {
	v := e.sanitize(value)
	if e.values[name] != v {
		e.dirty = true
	}
	e.values[name] = v
	e.touched[name] = true
	e.lastUsed = time.Now()
}

// SelectImage validates and resizes f for field. On any failure the field
// keeps its previous image and the error is reported on the field.
func (e *Editor[R]) SelectImage(ctx context.Context, field string, f imageprep.File) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	spec, ok := e.schema.image(field)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	gen := e.gen
	e.mu.Unlock()

	f.Field = field
	img, err := imageprep.Prepare(ctx, f, spec.Constraints, spec.Target)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	if e.gen != gen {
		return ErrStale
	}
	e.touched[field] = true
	if err != nil {
		msg := imageprep.Message(err)
		if msg == "" {
			msg = "Failed to process image"
		}
		e.imageErrs[field] = msg
		e.recomputeLocked()
		return err
	}
	e.slots[field].Set(img)
	delete(e.imageErrs, field)
	e.dirty = true
	e.lastUsed = time.Now()
	e.recomputeLocked()
	return nil
}

// ClearImage drops a newly selected image, releasing its preview.
func (e *Editor[R]) ClearImage(field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editableLocked(); err != nil {
		return err
	}
	sl, ok := e.slots[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	sl.Clear()
	delete(e.imageErrs, field)
	e.recomputeLocked()
	return nil
}

// Validate checks the whole draft and from then on shows every error.
func (e *Editor[R]) Validate() formrules.Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempted = true
	e.recomputeLocked()
	out := make(formrules.Errors, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// BeginEdit seeds the draft from the listed record with id. Any unsaved
// draft is discarded.
func (e *Editor[R]) BeginEdit(id models.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	for i := range e.items {
		if e.items[i].RecordID() == id {
			e.seedLocked(e.items[i])
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Cancel discards the draft and returns to Create mode (or, for a
// singleton, to the stored record).
func (e *Editor[R]) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.resetLocked()
	return nil
}

// Submit sends the draft. On success the draft is reset and the list
// refetched. On failure the draft is left intact for a retry.
func (e *Editor[R]) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	e.attempted = true
	e.recomputeLocked()
	if e.validateLocked().Any() {
		e.mu.Unlock()
		return ErrInvalid
	}

	p := e.payloadLocked()
	mode := e.mode
	var id models.ID
	if e.editing != nil {
		id = (*e.editing).RecordID()
	}
	gen := e.gen
	e.busy = true
	e.mu.Unlock()

	var err error
	op := "create"
	if mode == ModeEdit {
		op = "update"
		_, err = e.api.Update(ctx, id, p)
	} else {
		_, err = e.api.Create(ctx, p)
	}

	e.mu.Lock()
	e.busy = false
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		e.mu.Unlock()
		e.notify.Notify(Notice{Level: LevelError, Message: apiclient.UserMessage(err)})
		return err
	}
	if e.gen == gen {
		e.resetLocked()
	}
	e.mu.Unlock()

	e.log.Info("record saved", zap.String("op", op), zap.String("id", id.String()))
	msg := "Created successfully"
	if mode == ModeEdit {
		msg = "Updated successfully"
	}
	e.notify.Notify(Notice{Level: LevelSuccess, Message: msg})
	e.refreshQuiet(ctx)
	return nil
}

// Delete removes the record with id after c confirms. It reports whether
// the record was deleted. Deleting the record being edited resets the draft.
func (e *Editor[R]) Delete(ctx context.Context, id models.ID, c Confirmer) (bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false, ErrClosed
	}
	if e.busy {
		e.mu.Unlock()
		return false, ErrBusy
	}
	e.mu.Unlock()

	if c == nil || !c.Confirm(ctx, e.schema.ConfirmPrompt()) {
		return false, nil
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return false, ErrBusy
	}
	e.busy = true
	e.mu.Unlock()

	err := e.api.Remove(ctx, id)

	e.mu.Lock()
	e.busy = false
	if e.closed {
		e.mu.Unlock()
		return false, ErrClosed
	}
	if err != nil {
		e.mu.Unlock()
		e.notify.Notify(Notice{Level: LevelError, Message: apiclient.UserMessage(err)})
		return false, err
	}
	if e.mode == ModeEdit && e.editing != nil && (*e.editing).RecordID() == id {
		e.resetLocked()
	}
	e.mu.Unlock()

	e.log.Info("record deleted", zap.String("id", id.String()))
	e.notify.Notify(Notice{Level: LevelSuccess, Message: "Deleted successfully"})
	e.refreshQuiet(ctx)
	return true, nil
}

// ToggleActive flips the record's active flag on the server and refetches
// the list. Any single-active rule is the server's to enforce.
func (e *Editor[R]) ToggleActive(ctx context.Context, id models.ID) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if !e.schema.Toggle {
		e.mu.Unlock()
		return ErrNotSupported
	}
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	e.busy = true
	e.mu.Unlock()

	err := e.api.ToggleActive(ctx, id)

	e.mu.Lock()
	e.busy = false
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err != nil {
		e.notify.Notify(Notice{Level: LevelError, Message: apiclient.UserMessage(err)})
		return err
	}
	e.log.Info("record toggled", zap.String("id", id.String()))
	e.notify.Notify(Notice{Level: LevelSuccess, Message: "Status updated"})
	e.refreshQuiet(ctx)
	return nil
}

// Refresh refetches the list. A response older than one already applied is
// dropped, and the draft is never changed except to open a pristine
// singleton in Edit mode.
func (e *Editor[R]) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.issuedSeq++
	seq := e.issuedSeq
	e.mu.Unlock()

	items, err := e.api.List(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	if seq <= e.appliedSeq {
		return nil
	}
	e.appliedSeq = seq
	e.items = items
	if e.schema.Singleton && !e.dirty {
		e.resetLocked()
	}
	return nil
}

func (e *Editor[R]) refreshQuiet(ctx context.Context) {
	if err := e.Refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
		e.log.Warn("list refresh failed", zap.Error(err))
		e.notify.Notify(Notice{Level: LevelError, Message: "Failed to reload the list: " + apiclient.UserMessage(err)})
	}
}

// Close releases every preview the editor holds. Results of calls still
// in flight are discarded.
func (e *Editor[R]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for _, sl := range e.slots {
		sl.Clear()
	}
	e.previews.ReleaseOwner(e.owner)
}

func (e *Editor[R]) touch() {
	e.mu.Lock()
	e.lastUsed = time.Now()
	e.mu.Unlock()
}

func (e *Editor[R]) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUsed
}

// resetLocked returns to an empty Create draft, or to the stored record for
// a singleton that has one.
func (e *Editor[R]) resetLocked() {
	if e.schema.Singleton && len(e.items) > 0 {
		e.seedLocked(e.items[0])
		return
	}
	e.clearDraftLocked()
	e.mode = ModeCreate
	e.editing = nil
}

func (e *Editor[R]) seedLocked(rec R) {
	e.clearDraftLocked()
	e.mode = ModeEdit
	r := rec
	e.editing = &r
	vals := rec.FieldValues()
	for _, f := range e.schema.Fields {
		e.values[f.Name] = vals[f.Name]
	}
}

func (e *Editor[R]) clearDraftLocked() {
	for _, sl := range e.slots {
		sl.Clear()
	}
	e.gen++
	e.values = make(map[string]string, len(e.schema.Fields))
	for _, f := range e.schema.Fields {
		e.values[f.Name] = ""
	}
	e.slots = make(map[string]*imageprep.Slot, len(e.schema.Images))
	for _, im := range e.schema.Images {
		e.slots[im.Field] = e.previews.NewSlot(e.owner)
	}
	e.imageErrs = map[string]string{}
	e.touched = map[string]bool{}
	e.errors = formrules.Errors{}
	e.attempted = false
	e.dirty = false
}

// validateLocked computes every error. A rejected image selection stays an
// error until the admin picks a valid file or clears the field.
func (e *Editor[R]) validateLocked() formrules.Errors {
	errs := formrules.ValidateAll(e.values, e.ruleset)
	for _, im := range e.schema.Images {
		if msg := e.imageErrs[im.Field]; msg != "" {
			errs[im.Field] = msg
			continue
		}
		if e.mode == ModeCreate && im.RequiredOnCreate && e.slots[im.Field].Empty() {
			errs[im.Field] = im.requiredMessage()
		}
	}
	return errs
}

// recomputeLocked refreshes the visible errors: only touched fields until
// a submit or Validate, every field afterwards.
func (e *Editor[R]) recomputeLocked() {
	all := e.validateLocked()
	if e.attempted {
		e.errors = all
		return
	}
	e.errors = formrules.Errors{}
	for f, msg := range all {
		if e.touched[f] {
			e.errors[f] = msg
		}
	}
}

func (e *Editor[R]) payloadLocked() apiclient.Payload {
	var p apiclient.Payload
	for _, f := range e.schema.Fields {
		v := strings.TrimSpace(e.values[f.Name])
		if f.Encode != nil {
			v = f.Encode(v)
		}
		p.Set(f.Name, v)
	}
	if e.mode == ModeCreate {
		keys := make([]string, 0, len(e.schema.CreateDefaults))
		for k := range e.schema.CreateDefaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.Set(k, e.schema.CreateDefaults[k])
		}
	} else if e.editing != nil {
		vals := (*e.editing).FieldValues()
		for _, k := range e.schema.Carry {
			if v, ok := vals[k]; ok {
				p.Set(k, v)
			}
		}
	}
	for _, im := range e.schema.Images {
		if f, ok := e.slots[im.Field].File(); ok {
			p.AddFile(apiclient.FilePart{Field: im.Field, Name: f.Name, ContentType: f.ContentType, Data: f.Data})
		}
	}
	return p
}
