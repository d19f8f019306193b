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

var (
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	hexLocalPart   = regexp.MustCompile(`^[0-9a-f]{16,}$`)
	emailTrimChars = ".,;:<>\"'()[]{} "

	blacklistedEmailDomains = map[string]bool{
		"example.com": true, "example.org": true, "example.net": true, "localhost": true,
	}
	noReplySubstrings   = []string{"no-reply", "noreply", "no_reply", "notify", "mailer-daemon", "postmaster"}
	telemetrySubstrings = []string{"sentry", "wix", "wixpress", "sentry-next"}
	imageExtensions     = map[string]bool{
		"jpg": true, "jpeg": true, "png": true, "gif": true,
		"svg": true, "ico": true, "webp": true, "bmp": true,
	}
)

// extractEmails returns the addresses found in the visible text of doc and
// in its mailto: links, trimmed and deduplicated in order of appearance,
// with suspicious addresses removed.
func extractEmails(doc *goquery.Document) []string {
	candidates := emailPattern.FindAllString(extractAllText(doc), -1)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if len(href) < 7 || !strings.EqualFold(href[:7], "mailto:") {
			return
		}
		addr, _, _ := strings.Cut(href[7:], "?")
		candidates = append(candidates, addr)
	})
	return filterEmails(candidates)
}

func filterEmails(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	var emails []string
	for _, raw := range candidates {
		e := strings.Trim(raw, emailTrimChars)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		if !IsSuspiciousEmail(e) {
			emails = append(emails, e)
		}
	}
	return emails
}

// IsSuspiciousEmail reports whether addr looks like a placeholder,
// no-reply, telemetry token or file name rather than a contact address.
func IsSuspiciousEmail(addr string) bool {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok {
		return true
	}
	local = strings.ToLower(strings.TrimSpace(local))
	domain = strings.ToLower(strings.TrimSpace(domain))

	if blacklistedEmailDomains[domain] {
		return true
	}
	for _, subs := range [][]string{noReplySubstrings, telemetrySubstrings} {
		for _, sub := range subs {
			if strings.Contains(local, sub) || strings.Contains(domain, sub) {
				return true
			}
		}
	}
	if i := strings.LastIndexByte(domain, '.'); i >= 0 && imageExtensions[domain[i+1:]] {
		return true
	}
	if hexLocalPart.MatchString(local) {
		return true
	}
	if len(local) > 64 {
		return true
	}
	return strings.ContainsAny(local, "/\\` ")
}
