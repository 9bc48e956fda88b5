package fetcher

import (
	"net/http"
	"testing"
)

func TestSourceDomain(t *testing.T) {
	cases := []struct {
		link, fallback, want string
	}{
		{"https://www.example.com/a/b", "", "example.com"},
		{"", "https://feeds.example.org/rss", "feeds.example.org"},
		{"not a url", "", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		if got := sourceDomain(c.link, c.fallback); got != c.want {
			t.Errorf("sourceDomain(%q, %q) = %q, want %q", c.link, c.fallback, got, c.want)
		}
	}
}

func TestWithRateLimit_PreservesNonTransportFields(t *testing.T) {
	base := &http.Client{}
	limited := withRateLimit(base, 1, 1)
	if limited == base {
		t.Error("withRateLimit should return a distinct client")
	}
	if _, ok := limited.Transport.(*rateLimitedTransport); !ok {
		t.Error("Transport should be wrapped in rateLimitedTransport")
	}
}

func TestWithUserAgent_SetsTransport(t *testing.T) {
	client := withUserAgent(&http.Client{}, "VeriNewsBot/1.0")
	rt, ok := client.Transport.(*userAgentTransport)
	if !ok {
		t.Fatal("Transport should be wrapped in userAgentTransport")
	}
	if rt.userAgent != "VeriNewsBot/1.0" {
		t.Errorf("userAgent = %q", rt.userAgent)
	}
}
