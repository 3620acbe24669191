package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"MockShop/pkg/kit"
)

// NewReverseProxy forwards requests unchanged to target. Transport failures
// become a 502 envelope.
func NewReverseProxy(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gateway: upstream url %q needs scheme and host", target)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			if id := chimw.GetReqID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(chimw.RequestIDHeader, id)
			}
		},
		Transport:      kit.TracedTransport(http.DefaultTransport),
		ModifyResponse: stripCORS,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("upstream request failed",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("upstream", u.Host),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			kit.WriteError(w, r, http.StatusBadGateway, "Upstream service unavailable")
		},
	}, nil
}

// stripCORS drops the upstream's CORS headers; the gateway sets its own.
func stripCORS(resp *http.Response) error {
	for k := range resp.Header {
		if strings.HasPrefix(k, "Access-Control-") {
			resp.Header.Del(k)
		}
	}
	return nil
}
