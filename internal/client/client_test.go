package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"MockShop/internal/client"
	"MockShop/internal/products"
	"MockShop/internal/resource"
	"MockShop/internal/users"
)

func newProductsTS(t *testing.T) *httptest.Server {
	t.Helper()
	s := products.NewServer(products.NewStore(), resource.UpdateTruthy, zap.NewNop())
	ts := httptest.NewServer(products.NewHandler(s, products.HTTPDeps{Log: zap.NewNop(), Service: "products"}))
	t.Cleanup(ts.Close)
	return ts
}

func newUsersTS(t *testing.T) *httptest.Server {
	t.Helper()
	v, err := users.NewSharedPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	s := users.NewServer(users.NewStore(), resource.UpdateTruthy, v, users.NewOpaqueIssuer(time.Hour), zap.NewNop())
	ts := httptest.NewServer(users.NewHandler(s, users.HTTPDeps{Log: zap.NewNop(), Service: "users"}))
	t.Cleanup(ts.Close)
	return ts
}

func deadURL(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	u := ts.URL
	ts.Close()
	return u
}

func asAPIError(t *testing.T, err error) *client.APIError {
	t.Helper()
	var ae *client.APIError
	if !errors.As(err, &ae) {
		t.Fatalf("err=%v (%T), want *APIError", err, err)
	}
	return ae
}

func TestHTTP_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(ts.Close)

	c := client.New(ts.URL, 50*time.Millisecond)
	err := c.Get(context.Background(), "/slow", nil)

	ae := asAPIError(t, err)
	if ae.Code != client.CodeTimeout || ae.Status != http.StatusRequestTimeout {
		t.Fatalf("err=%+v", ae)
	}
}

func TestHTTP_ServiceUnavailable(t *testing.T) {
	c := client.New(deadURL(t), time.Second)
	err := c.Get(context.Background(), "/health", nil)

	ae := asAPIError(t, err)
	if ae.Code != client.CodeServiceUnavailable || ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("err=%+v", ae)
	}
	if !client.HasCode(err, client.CodeServiceUnavailable) {
		t.Fatalf("HasCode false")
	}
}

func TestHTTP_NonSuccessStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server message", http.StatusNotFound, `{"success":false,"message":"Product not found"}`, "Product not found"},
		{"json without message", http.StatusTeapot, `{"success":false}`, "HTTP Error: 418"},
		{"not json", http.StatusBadGateway, `upstream exploded`, "Bad Gateway"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				_, _ = w.Write([]byte(c.body))
			}))
			defer ts.Close()

			err := client.New(ts.URL, time.Second).Get(context.Background(), "/x", nil)
			ae := asAPIError(t, err)
			if ae.Message != c.want || ae.Status != c.status || ae.Code != "" {
				t.Fatalf("err=%+v", ae)
			}
		})
	}
}

func TestHTTP_MalformedSuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":tru`))
	}))
	t.Cleanup(ts.Close)

	var out map[string]any
	err := client.New(ts.URL, time.Second).Get(context.Background(), "/x", &out)
	ae := asAPIError(t, err)
	if ae.Code != client.CodeUnknown || ae.Status != http.StatusInternalServerError {
		t.Fatalf("err=%+v", ae)
	}
}

func TestProducts_TypedAccessors(t *testing.T) {
	ctx := context.Background()
	p := client.NewProducts(client.New(newProductsTS(t).URL, time.Second))

	page, err := p.List(ctx, client.ProductQuery{Category: "electronics", Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Total != 2 {
		t.Fatalf("page=%+v", page)
	}

	created, err := p.Create(ctx, client.ProductInput{
		Name: client.Ptr("Mug"), Price: client.Ptr(9.99), Category: client.Ptr("Home"),
	})
	if err != nil || created.ID != 5 {
		t.Fatalf("created=%+v err=%v", created, err)
	}

	updated, err := p.Update(ctx, created.ID, client.ProductInput{Stock: client.Ptr(3)})
	if err != nil || updated.Stock != 3 || updated.Name != "Mug" {
		t.Fatalf("updated=%+v err=%v", updated, err)
	}

	if _, err := p.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = p.Get(ctx, created.ID)
	if ae := asAPIError(t, err); ae.Status != http.StatusNotFound || ae.Message != "Product not found" {
		t.Fatalf("err=%+v", ae)
	}

	_, err = p.Create(ctx, client.ProductInput{Name: client.Ptr("Mug")})
	if client.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("err=%v", err)
	}
}

func TestUsers_TypedAccessors(t *testing.T) {
	ctx := context.Background()
	u := client.NewUsers(client.New(newUsersTS(t).URL, time.Second))

	page, err := u.List(ctx, client.UserQuery{Active: client.Ptr(false)})
	if err != nil || page.Total != 1 || page.Items[0].Username != "bob_wilson" {
		t.Fatalf("page=%+v err=%v", page, err)
	}

	res, err := u.Authenticate(ctx, "john_doe", "password123")
	if err != nil || res.Token == "" || res.User.ID != 1 {
		t.Fatalf("auth=%+v err=%v", res, err)
	}

	me, err := u.Me(ctx, res.Token)
	if err != nil || me.Username != "john_doe" {
		t.Fatalf("me=%+v err=%v", me, err)
	}

	_, err = u.Authenticate(ctx, "john_doe", "wrong")
	if ae := asAPIError(t, err); ae.Status != http.StatusUnauthorized || ae.Message != "Invalid credentials" {
		t.Fatalf("err=%+v", ae)
	}

	_, err = u.Create(ctx, client.UserInput{
		Username: client.Ptr("john_doe"), Email: client.Ptr("new@x.com"),
		FirstName: client.Ptr("A"), LastName: client.Ptr("B"),
	})
	if client.StatusOf(err) != http.StatusConflict {
		t.Fatalf("err=%v", err)
	}
}

func TestServices_CheckAllIsolatesFailures(t *testing.T) {
	s := client.NewServices(newProductsTS(t).URL, deadURL(t), time.Second)

	rep := s.CheckAll(context.Background())
	if !rep.ProductService.Healthy || rep.ProductService.Details == nil {
		t.Fatalf("product=%+v", rep.ProductService)
	}
	if rep.ProductService.Details.Service != products.ServiceName {
		t.Fatalf("details=%+v", rep.ProductService.Details)
	}
	if rep.UserService.Healthy || rep.UserService.Error == "" {
		t.Fatalf("user=%+v", rep.UserService)
	}
	if rep.AllHealthy {
		t.Fatalf("allHealthy=true with a dead service")
	}
	if rep.ProductService.LastChecked.IsZero() || rep.UserService.LastChecked.IsZero() {
		t.Fatalf("lastChecked not set: %+v", rep)
	}
}

func TestServices_CheckAllHealthy(t *testing.T) {
	s := client.NewServices(newProductsTS(t).URL, newUsersTS(t).URL, time.Second)

	if rep := s.CheckAll(context.Background()); !rep.AllHealthy {
		t.Fatalf("report=%+v", rep)
	}
}
