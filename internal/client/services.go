package client

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const StatusHealthy = "healthy"

type ServiceStatus struct {
	Healthy     bool      `json:"healthy"`
	Details     *Health   `json:"details,omitempty"`
	Error       string    `json:"error,omitempty"`
	LastChecked time.Time `json:"lastChecked"`
}

// Report is one aggregated health snapshot of both services.
type Report struct {
	ProductService ServiceStatus `json:"productService"`
	UserService    ServiceStatus `json:"userService"`
	AllHealthy     bool          `json:"allHealthy"`
}

type Services struct {
	Products *Products
	Users    *Users

	now func() time.Time
}

func NewServices(productsURL, usersURL string, timeout time.Duration) *Services {
	return &Services{
		Products: NewProducts(New(productsURL, timeout)),
		Users:    NewUsers(New(usersURL, timeout)),
		now:      time.Now,
	}
}

// CheckAll probes both services concurrently. A failing branch never
// affects the other one.
func (s *Services) CheckAll(ctx context.Context) Report {
	var (
		rep Report
		g   errgroup.Group
	)

	g.Go(func() error {
		rep.ProductService = s.check(ctx, s.Products.Health)
		return nil
	})
	g.Go(func() error {
		rep.UserService = s.check(ctx, s.Users.Health)
		return nil
	})
	_ = g.Wait()

	rep.AllHealthy = rep.ProductService.Healthy && rep.UserService.Healthy
	return rep
}

func (s *Services) check(ctx context.Context, probe func(context.Context) (Health, error)) ServiceStatus {
	h, err := probe(ctx)
	st := ServiceStatus{LastChecked: s.now().UTC()}
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Details = &h
	st.Healthy = h.Status == StatusHealthy
	return st
}
