package resource

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MockShop/pkg/kit"
)

// Kind describes one entity type to the generic API: how to validate and
// build it from a payload, how to patch it, and how to project it.
type Kind[T Record[T], In any] struct {
	// Name is the singular display name used in messages, e.g. "Product".
	Name string

	CheckCreate func(in In, mode UpdateMode) error
	CheckUpdate func(in In, mode UpdateMode) error
	Build       func(in In, now time.Time) T
	Apply       func(cur T, in In, mode UpdateMode) T

	// Filter turns query parameters into a predicate; nil keeps everything.
	Filter func(q url.Values) func(T) bool

	Unique          []Conflict[T]
	ConflictMessage string

	View     func(T) any
	ListView func(T) any
}

// API serves list/get/create/update/delete for one Kind over a Store.
type API[T Record[T], In any] struct {
	Kind    Kind[T, In]
	Store   Store[T]
	Mode    UpdateMode
	Log     *zap.Logger
	Metrics *Metrics
	Now     func() time.Time
}

// Mount registers the five CRUD routes under path, e.g. "/products".
func (a *API[T, In]) Mount(r chi.Router, path string) {
	r.Get(path, kit.Handle(a.List))
	r.Post(path, kit.Handle(a.Create))
	r.Get(path+"/{id}", kit.Handle(a.Get))
	r.Put(path+"/{id}", kit.Handle(a.Update))
	r.Delete(path+"/{id}", kit.Handle(a.Delete))
}

func (a *API[T, In]) List(r *http.Request) kit.Result {
	q := r.URL.Query()

	var match func(T) bool
	if a.Kind.Filter != nil {
		match = a.Kind.Filter(q)
	}
	page := a.Store.List(r.Context(), match, ParseLimit(q.Get("limit")))

	view := a.Kind.ListView
	if view == nil {
		view = a.view
	}
	data := make([]any, 0, len(page.Items))
	for _, v := range page.Items {
		data = append(data, view(v))
	}
	total := page.Total
	return kit.Ok{Data: data, Total: &total}
}

func (a *API[T, In]) Get(r *http.Request) kit.Result {
	id, ok := ParseID(r)
	if !ok {
		return a.notFound()
	}
	v, err := a.Store.Get(r.Context(), id)
	if err != nil {
		return a.fail("get", err)
	}
	return kit.Ok{Data: a.view(v)}
}

func (a *API[T, In]) Create(r *http.Request) kit.Result {
	var in In
	if err := kit.DecodeJSON(r, &in); err != nil {
		return badJSON()
	}
	if err := a.Kind.CheckCreate(in, a.Mode); err != nil {
		return a.fail("create", err)
	}

	stored, err := a.Store.Insert(r.Context(), a.Kind.Build(in, a.now()), a.Kind.Unique...)
	if err != nil {
		return a.fail("create", err)
	}

	a.Metrics.observe(a.Kind.Name, "create", a.Store.Len(r.Context()))
	return kit.Ok{
		Status:  http.StatusCreated,
		Data:    a.view(stored),
		Message: a.Kind.Name + " created successfully",
	}
}

func (a *API[T, In]) Update(r *http.Request) kit.Result {
	id, ok := ParseID(r)
	if !ok {
		return a.notFound()
	}

	var in In
	if err := kit.DecodeJSON(r, &in); err != nil {
		return badJSON()
	}
	if a.Kind.CheckUpdate != nil {
		if err := a.Kind.CheckUpdate(in, a.Mode); err != nil {
			return a.fail("update", err)
		}
	}

	updated, err := a.Store.Replace(r.Context(), id, func(cur T) T {
		return a.Kind.Apply(cur, in, a.Mode)
	}, a.Kind.Unique...)
	if err != nil {
		return a.fail("update", err)
	}

	a.Metrics.observe(a.Kind.Name, "update", a.Store.Len(r.Context()))
	return kit.Ok{
		Data:    a.view(updated),
		Message: a.Kind.Name + " updated successfully",
	}
}

func (a *API[T, In]) Delete(r *http.Request) kit.Result {
	id, ok := ParseID(r)
	if !ok {
		return a.notFound()
	}

	removed, err := a.Store.Remove(r.Context(), id)
	if err != nil {
		return a.fail("delete", err)
	}

	a.Metrics.observe(a.Kind.Name, "delete", a.Store.Len(r.Context()))
	return kit.Ok{
		Data:    a.view(removed),
		Message: a.Kind.Name + " deleted successfully",
	}
}

func (a *API[T, In]) fail(op string, err error) kit.Result {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return kit.Err{Status: http.StatusBadRequest, Message: verr.Message}
	case errors.Is(err, ErrNotFound):
		return a.notFound()
	case errors.Is(err, ErrConflict):
		msg := a.Kind.ConflictMessage
		if msg == "" {
			msg = a.Kind.Name + " already exists"
		}
		return kit.Err{Status: http.StatusConflict, Message: msg}
	}

	if a.Log != nil {
		a.Log.Error(fmt.Sprintf("%s %s failed", op, a.Kind.Name), zap.Error(err))
	}
	return kit.Err{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

func (a *API[T, In]) notFound() kit.Result {
	return kit.Err{Status: http.StatusNotFound, Message: a.Kind.Name + " not found"}
}

func (a *API[T, In]) view(v T) any {
	if a.Kind.View != nil {
		return a.Kind.View(v)
	}
	return v
}

func (a *API[T, In]) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func badJSON() kit.Result {
	return kit.Err{Status: http.StatusBadRequest, Message: "Invalid JSON body"}
}

// ParseID reads the {id} route parameter. Anything that is not an integer
// cannot name a record, so callers answer it with 404.
func ParseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseLimit reads the limit query parameter the way the dashboard's
// services always have: leading digits count ("2abc" is 2), anything without
// them, zero or a negative number means "no limit".
func ParseLimit(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
