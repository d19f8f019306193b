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
	"encoding/json"
	"time"
)

// Display values used for absent fields at the serialization boundary.
const (
	NoTitle = "no title"
	NoEmail = "no email"
)

// CandidateLead is what the assembler extracts from one page. Absent fields
// are nil. A CandidateLead is never modified after it is built.
type CandidateLead struct {
	Title        *string
	Email        *string
	SourceURL    string
	ScrapedAt    time.Time
	SocialHandle *string
}

// Validation holds the post-hoc checks a Validator attached to a lead.
type Validation struct {
	EmailValid  bool
	SocialValid bool
	Valid       bool
}

// Lead is an accepted CandidateLead together with the keyword run and
// domain it was found for.
type Lead struct {
	CandidateLead
	Keyword string
	// Domain is the normalized domain root of the seed
	Domain     string
	Validation *Validation
}

// LeadRecord is the flat, sentinel-carrying form of a Lead written to JSON,
// CSV and the database.
type LeadRecord struct {
	Title        string    `json:"title"`
	Email        string    `json:"email"`
	SourceURL    string    `json:"source_url"`
	ScrapedAt    time.Time `json:"scraped_at"`
	SocialHandle string    `json:"social_handle,omitempty"`
	Keyword      string    `json:"keyword"`
	Domain       string    `json:"domain"`
	EmailValid   *bool     `json:"email_valid,omitempty"`
	SocialValid  *bool     `json:"social_valid,omitempty"`
	Valid        *bool     `json:"valid,omitempty"`
}

// Record converts l to its display form.
func (l Lead) Record() LeadRecord {
	r := LeadRecord{
		Title:     NoTitle,
		Email:     NoEmail,
		SourceURL: l.SourceURL,
		ScrapedAt: l.ScrapedAt,
		Keyword:   l.Keyword,
		Domain:    l.Domain,
	}
	if l.Title != nil {
		r.Title = *l.Title
	}
	if l.Email != nil {
		r.Email = *l.Email
	}
	if l.SocialHandle != nil {
		r.SocialHandle = *l.SocialHandle
	}
	if v := l.Validation; v != nil {
		r.EmailValid = &v.EmailValid
		r.SocialValid = &v.SocialValid
		r.Valid = &v.Valid
	}
	return r
}

// MarshalJSON writes the lead as its LeadRecord.
func (l Lead) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Record())
}

// EmailAddress returns the email or "" when absent.
func (l CandidateLead) EmailAddress() string {
	if l.Email == nil {
		return ""
	}
	return *l.Email
}
