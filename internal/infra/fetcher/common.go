package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/geraldfingburke/verinews/internal/resilience/retry"
)

// sourceDomain extracts a lowercased host from link, falling back to
// fallback (typically the feed URL itself) if link doesn't parse.
func sourceDomain(link, fallback string) string {
	for _, candidate := range []string{link, fallback} {
		if candidate == "" {
			continue
		}
		u, err := url.Parse(candidate)
		if err == nil && u.Host != "" {
			return strings.ToLower(strings.TrimPrefix(u.Host, "www."))
		}
	}
	return ""
}

// getJSON performs an HTTP GET and decodes the JSON response body into
// out. Non-2xx responses are surfaced as a retry.HTTPError-compatible
// error via the caller's retry wrapper.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// rateLimitedTransport bounds a fetcher's own outbound call rate (§4.1:
// "Respects per-source rate limits by bounding its own call count per
// window"), independent of any HTTP 429 the remote side might also send.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// userAgentTransport sets a fixed User-Agent on every outbound request.
// Reddit's API rejects unidentified clients; other variants tolerate it.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

func withUserAgent(client *http.Client, userAgent string) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone := *client
	clone.Transport = &userAgentTransport{base: base, userAgent: userAgent}
	return &clone
}

// withRateLimit wraps client's transport with a token-bucket limiter
// allowing rps requests per second, bursting up to burst.
func withRateLimit(client *http.Client, rps float64, burst int) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone := *client
	clone.Transport = &rateLimitedTransport{base: base, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	return &clone
}

