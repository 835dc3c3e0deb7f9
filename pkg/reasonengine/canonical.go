package reasonengine

import (
	"net/url"
	"strings"
)

// trackingParamAllowlist is the documented set of query parameters stripped
// during canonicalization (spec §4.3 step 3). Anything not in this set is
// kept and sorted by key so two URLs differing only in tracking noise or
// parameter order canonicalize identically.
var trackingParamAllowlist = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"ref":          true,
	"fbclid":       true,
	"gclid":        true,
	"mc_cid":       true,
	"mc_eid":       true,
}

var defaultPortByScheme = map[string]string{
	"http":  "80",
	"https": "443",
}

// CanonicalizeURL implements spec §4.3 step 3: lowercase scheme/host, strip
// default ports, drop fragment, strip allowlisted tracking query params,
// sort the remaining query keys.
func CanonicalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port != "" && port != defaultPortByScheme[u.Scheme] {
		host = host + ":" + port
	}
	u.Host = host
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		if trackingParamAllowlist[strings.ToLower(key)] {
			q.Del(key)
		}
	}
	// url.Values.Encode sorts by key, giving the stable ordering step 3
	// of the canonicalization rule requires.
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// IsHTTPURL reports whether raw parses as an http or https URL.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
