// Package normalize implements C2: turning a batch of raw fetched items
// into Articles fit for storage — language filtering, URL
// canonicalization and dedup, near-duplicate title detection, entity
// extraction, and snippet truncation.
package normalize

import (
	"net/url"
	"strings"
)

// trackingParams are stripped during canonicalization (§4.2 step 2).
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
}

// CanonicalURL lowercases the host, strips utm_*/fbclid/gclid query
// params, the fragment, and a trailing slash on the path. It is
// idempotent: CanonicalURL(CanonicalURL(u)) == CanonicalURL(u)
// (property 1, §8).
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		values := u.Query()
		for key := range values {
			if trackingParams[strings.ToLower(key)] {
				values.Del(key)
			}
		}
		u.RawQuery = values.Encode()
	}

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}
