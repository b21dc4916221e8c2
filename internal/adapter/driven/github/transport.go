package github

import (
	"net/http"

	"github.com/ericfisherdev/codehub/internal/domain/port/driven"
)

// refreshTransport sets Cache-Control: no-cache on requests whose context is
// marked by driven.WithForceRefresh. httpcache then skips its stored entry
// and keeps the fresh response for later reads.
type refreshTransport struct {
	next http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned before the
// header is added, as RoundTrippers must not modify their input.
func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if driven.IsForceRefresh(req.Context()) {
		req = req.Clone(req.Context())
		req.Header.Set("Cache-Control", "no-cache")
	}
	return t.next.RoundTrip(req)
}
