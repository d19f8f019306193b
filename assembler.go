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
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// LeadAssembler extracts a CandidateLead from a single page.
type LeadAssembler struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewLeadAssembler creates an assembler. A nil clock means time.Now.
func NewLeadAssembler(fetcher Fetcher, now func() time.Time) *LeadAssembler {
	if now == nil {
		now = time.Now
	}
	return &LeadAssembler{fetcher: fetcher, now: now}
}

// Assemble fetches pageURL (through the cache) and extracts its title,
// first acceptable email and first social handle. Malformed HTML never
// fails; a fetch failure returns the fetcher's *NodeFetchError.
func (a *LeadAssembler) Assemble(ctx context.Context, pageURL string) (CandidateLead, error) {
	page, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return CandidateLead{}, err
	}
	doc, err := parseDocument(page.Body)
	if err != nil {
		return CandidateLead{}, &NodeFetchError{URL: page.URL, StatusCode: page.StatusCode, Err: err}
	}
	return a.assembleDocument(page, doc), nil
}

func (a *LeadAssembler) assembleDocument(page *Page, doc *goquery.Document) CandidateLead {
	lead := CandidateLead{
		Title:        extractTitle(doc),
		SourceURL:    page.URL,
		ScrapedAt:    a.now(),
		SocialHandle: extractSocialHandle(doc),
	}
	if emails := extractEmails(doc); len(emails) > 0 {
		lead.Email = &emails[0]
	}
	return lead
}
