// Package network holds the HTTP client used for metadata requests.
// Audio is streamed by the player process, not through this client.
package network

import (
	"net/http"
	"time"

	"github.com/gurbani-cli/gurbani/constant"
)

// Client is shared by every metadata request.
var Client = &http.Client{
	Timeout:   10 * time.Second,
	Transport: &userAgent{next: http.DefaultTransport},
}

type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.Gurbani+"/"+constant.Version)
	return u.next.RoundTrip(req)
}
