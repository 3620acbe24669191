package kit

import "net/http"

// Result is the outcome of a handler: either Ok or Err. The interface is
// sealed so call sites never inspect optional envelope fields by hand.
type Result interface {
	write(w http.ResponseWriter, r *http.Request)
}

// Ok is a successful response. A zero Status means 200.
type Ok struct {
	Status  int
	Data    any
	Total   *int
	Message string
}

// Err is a failed response carrying the client-visible message.
type Err struct {
	Status  int
	Message string
}

func (o Ok) write(w http.ResponseWriter, _ *http.Request) {
	status := o.Status
	if status == 0 {
		status = http.StatusOK
	}
	WriteJSON(w, status, Envelope{
		Success: true,
		Data:    o.Data,
		Total:   o.Total,
		Message: o.Message,
	})
}

func (e Err) write(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, e.Status, e.Message)
}

func (e Err) Error() string { return e.Message }

// Handle adapts a Result-returning function to an http.HandlerFunc.
func Handle(fn func(r *http.Request) Result) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fn(r).write(w, r)
	}
}
