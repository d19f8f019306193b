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

// Package keywords normalizes the search keywords typed by a user.
package keywords

import (
	"strings"
	"unicode"

	"github.com/kennygrant/sanitize"
)

// Clean strips markup and accents from keyword, lowercases it and collapses
// runs of whitespace. The result may be empty.
func Clean(keyword string) string {
	s := sanitize.HTML(keyword)
	s = sanitize.Accents(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Split parses a comma or newline separated keyword list into cleaned,
// non-empty keywords in first-seen order.
func Split(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	return Normalize(parts)
}

// Normalize cleans every keyword and drops empty and repeated ones.
func Normalize(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = Clean(kw)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
