// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package leadsnake

import (
	"fmt"
	"net/url"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// parseURL runs raw through the WHATWG parser first so that inputs such as
// "HTTP://Example.com:443/a/../b" resolve the same way a browser would.
func parseURL(raw string) (*url.URL, error) {
	parsed, err := urlParser.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	u, err := url.Parse(parsed.Href(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrInvalidURL, raw)
	}
	return u, nil
}

// resolveReference resolves href against base, returning "" if either side
// cannot be parsed.
func resolveReference(base, href string) string {
	u, err := urlParser.ParseRef(base, href)
	if err != nil {
		return ""
	}
	return u.Href(true)
}

// NormalizeURL reduces a URL to scheme://host[:port]/path with the query,
// fragment and trailing slash removed. Scheme and host are lowercased and
// default ports dropped. The result is used as cache key, visited key and
// graph node identity, and normalizing it again returns it unchanged.
func NormalizeURL(raw string) (string, error) {
	u, err := parseURL(raw)
	if err != nil {
		return "", err
	}
	return joinURL(u, u.EscapedPath()), nil
}

// DomainRoot returns the normalized root of raw's site, i.e. the URL with an
// empty path.
func DomainRoot(raw string) (string, error) {
	u, err := parseURL(raw)
	if err != nil {
		return "", err
	}
	return joinURL(u, ""), nil
}

// Hostname returns the lowercase host of raw without its port, or "" if raw
// cannot be parsed.
func Hostname(raw string) string {
	u, err := parseURL(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func joinURL(u *url.URL, path string) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !isDefaultPort(scheme, port) {
		host = host + ":" + port
	}
	path = strings.TrimRight(path, "/")
	return scheme + "://" + host + path
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "http" && port == "80") || (scheme == "https" && port == "443")
}
