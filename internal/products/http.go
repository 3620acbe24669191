package products

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MockShop/internal/resource"
	"MockShop/pkg/kit"
)

const ServiceName = "Product Service"

type Server struct {
	API *resource.API[Product, Input]
	Log *zap.Logger
}

// NewServer builds a product server over store. Pass a fresh store per
// test to keep cases isolated.
func NewServer(store resource.Store[Product], mode resource.UpdateMode, log *zap.Logger) *Server {
	return &Server{
		API: &resource.API[Product, Input]{
			Kind:  Kind(),
			Store: store,
			Mode:  mode,
			Log:   log,
		},
		Log: log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", kit.Health(ServiceName))
	s.API.Mount(r, "/products")

	return r
}
