package api

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"

	"github.com/birddeck/birddeck/internal/logger"
)

// newCachingTransport returns a transport with HTTP response caching
// for cacheable endpoints (analytics summaries carry Cache-Control
// headers). cacheDir empty means in-memory only, which is fine for
// short-lived invocations but doesn't survive restarts.
func newCachingTransport(cacheDir string, log zerolog.Logger) http.RoundTripper {
	var cache httpcache.Cache
	if cacheDir == "" {
		cache = httpcache.NewMemoryCache()
	} else {
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = logger.NewHTTPRequests(nil, log)

	return transport
}
