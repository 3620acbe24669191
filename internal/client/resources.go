package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type Products struct {
	c *HTTP
}

func NewProducts(c *HTTP) *Products { return &Products{c: c} }

func (p *Products) List(ctx context.Context, q ProductQuery) (Page[Product], error) {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return list[Product](ctx, p.c, "/products", v)
}

func (p *Products) Get(ctx context.Context, id int) (Product, error) {
	return one[Product](ctx, p.c, http.MethodGet, "/products/"+strconv.Itoa(id), nil)
}

func (p *Products) Create(ctx context.Context, in ProductInput) (Product, error) {
	return one[Product](ctx, p.c, http.MethodPost, "/products", in)
}

func (p *Products) Update(ctx context.Context, id int, in ProductInput) (Product, error) {
	return one[Product](ctx, p.c, http.MethodPut, "/products/"+strconv.Itoa(id), in)
}

func (p *Products) Delete(ctx context.Context, id int) (Product, error) {
	return one[Product](ctx, p.c, http.MethodDelete, "/products/"+strconv.Itoa(id), nil)
}

func (p *Products) Health(ctx context.Context) (Health, error) { return health(ctx, p.c) }

type Users struct {
	c *HTTP
}

func NewUsers(c *HTTP) *Users { return &Users{c: c} }

func (u *Users) List(ctx context.Context, q UserQuery) (Page[User], error) {
	v := url.Values{}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return list[User](ctx, u.c, "/users", v)
}

func (u *Users) Get(ctx context.Context, id int) (User, error) {
	return one[User](ctx, u.c, http.MethodGet, "/users/"+strconv.Itoa(id), nil)
}

func (u *Users) Create(ctx context.Context, in UserInput) (User, error) {
	return one[User](ctx, u.c, http.MethodPost, "/users", in)
}

func (u *Users) Update(ctx context.Context, id int, in UserInput) (User, error) {
	return one[User](ctx, u.c, http.MethodPut, "/users/"+strconv.Itoa(id), in)
}

func (u *Users) Delete(ctx context.Context, id int) (User, error) {
	return one[User](ctx, u.c, http.MethodDelete, "/users/"+strconv.Itoa(id), nil)
}

func (u *Users) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	body := map[string]string{"username": username, "password": password}
	return one[AuthResult](ctx, u.c, http.MethodPost, "/users/authenticate", body)
}

func (u *Users) Me(ctx context.Context, token string) (User, error) {
	var env Envelope[User]
	h := http.Header{"Authorization": []string{"Bearer " + token}}
	if err := u.c.do(ctx, http.MethodGet, "/users/me", nil, &env, h); err != nil {
		return User{}, err
	}
	return env.Data, nil
}

func (u *Users) Health(ctx context.Context) (Health, error) { return health(ctx, u.c) }

func list[T any](ctx context.Context, c *HTTP, path string, q url.Values) (Page[T], error) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var env Envelope[[]T]
	if err := c.Get(ctx, path, &env); err != nil {
		return Page[T]{}, err
	}
	p := Page[T]{Items: env.Data, Total: len(env.Data)}
	if env.Total != nil {
		p.Total = *env.Total
	}
	return p, nil
}

func one[T any](ctx context.Context, c *HTTP, method, path string, body any) (T, error) {
	var env Envelope[T]
	if err := c.do(ctx, method, path, body, &env, nil); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func health(ctx context.Context, c *HTTP) (Health, error) {
	var h Health
	if err := c.Get(ctx, "/health", &h); err != nil {
		return Health{}, err
	}
	return h, nil
}
