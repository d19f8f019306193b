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
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var socialHosts = map[string]bool{
	"instagram.com": true,
	"facebook.com":  true,
	"twitter.com":   true,
	"x.com":         true,
	"tiktok.com":    true,
	"linkedin.com":  true,
	"pinterest.com": true,
	"youtube.com":   true,
}

// reservedSocialPaths are first path segments that name a site feature
// rather than an account.
var reservedSocialPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "explore": true, "share": true,
	"sharer": true, "sharer.php": true, "intent": true, "home": true,
	"login": true, "watch": true, "channel": true, "company": true, "in": true,
	"pin": true, "tv": true, "stories": true, "hashtag": true, "search": true,
	"accounts": true, "embed": true, "results": true, "dialog": true,
	"plugins": true, "tr": true, "i": true,
}

var socialHandlePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// extractSocialHandle returns the first account handle linked from doc.
func extractSocialHandle(doc *goquery.Document) *string {
	var handle *string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if h, ok := SocialHandle(s.AttrOr("href", "")); ok {
			handle = &h
			return false
		}
		return true
	})
	return handle
}

// SocialHandle extracts the account name from a social profile link, e.g.
// "https://www.instagram.com/@acme.studio/" yields "acme.studio".
func SocialHandle(href string) (string, bool) {
	u, err := parseURL(href)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")
	if !socialHosts[host] {
		return "", false
	}
	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	segment = strings.TrimPrefix(segment, "@")
	if segment == "" || reservedSocialPaths[strings.ToLower(segment)] {
		return "", false
	}
	if !socialHandlePattern.MatchString(segment) {
		return "", false
	}
	return segment, true
}
