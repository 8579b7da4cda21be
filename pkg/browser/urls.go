package browser

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"
)

// NormalizeURL returns a canonical representation of a URL string so that
// addresses reported by the browser can be compared with configured targets:
//   - Lower-case the scheme and host
//   - Ensure path is present; empty path becomes "/"
//   - Clean the path (resolve dot-segments, collapse duplicate slashes)
//   - Remove a trailing slash (except for the root path "/")
//   - Drop default ports (http:80, https:443), keep non-default ports
//   - Sort query parameters by key and by value for stable ordering
//   - Remove the fragment
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}
	// relative references cannot be compared with what the browser reports
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %q is not absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)

	// "http://host" and "http://host/" are the same page
	if u.Path == "" {
		u.Path = "/"
	}

	// path.Clean resolves dot-segments, collapses slashes and drops the
	// trailing slash everywhere but the root
	cleaned := path.Clean(u.Path)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	u.Path = cleaned
	// RawPath would override the cleaned Path in String()
	u.RawPath = ""

	// hosts are case-insensitive; a port is kept only when it is not the
	// scheme's default
	host := strings.ToLower(u.Host)
	port := ""
	if ph, pp, err := net.SplitHostPort(host); err == nil {
		host, port = ph, pp
	} // no explicit port, or a bare IPv6 literal
	if port != "" && !(u.Scheme == "http" && port == "80") && !(u.Scheme == "https" && port == "443") {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	// order of query parameters does not change the page
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			sort.Strings(q[k])
		}
		// Encode sorts the keys
		u.RawQuery = q.Encode()
	}

	// fragments never reach the server
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

// JoinURL resolves ref against base and normalizes the result.
func JoinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("could not parse base URL: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("could not parse reference %q: %w", ref, err)
	}

	// keep a base path such as /app when joining "/login"
	if !r.IsAbs() && strings.HasPrefix(r.Path, "/") && b.Path != "" && b.Path != "/" {
		r.Path = strings.TrimRight(b.Path, "/") + r.Path
	}

	return NormalizeURL(b.ResolveReference(r).String())
}

// SameURL reports whether a and b point at the same address after
// normalization. Unparseable inputs are compared literally.
func SameURL(a, b string) bool {
	na, errA := NormalizeURL(a)
	nb, errB := NormalizeURL(b)
	if errA != nil || errB != nil {
		return a == b
	}

	return na == nb
}
