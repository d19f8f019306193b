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

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agentberlin/leadsnake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreLeads inserts leads for keyword and returns how many were new. Leads
// whose website URL is already stored are skipped.
func (s *Store) StoreLeads(ctx context.Context, keyword string, leads []leadsnake.Lead) (int, error) {
	stored := 0
	for _, l := range leads {
		row := leadFromDomain(keyword, l)
		result := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "website_url"}}, DoNothing: true}).
			Create(&row)
		if result.Error != nil {
			return stored, fmt.Errorf("failed to store lead %s: %v", l.SourceURL, result.Error)
		}
		stored += int(result.RowsAffected)
	}
	return stored, nil
}

// GetAllLeads returns every stored lead, newest first
func (s *Store) GetAllLeads() ([]Lead, error) {
	var leads []Lead
	if err := s.db.Order("scraped_at DESC, id DESC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to get leads: %v", err)
	}
	return leads, nil
}

// GetLeadsByKeyword returns the leads found for keyword, newest first
func (s *Store) GetLeadsByKeyword(keyword string) ([]Lead, error) {
	var leads []Lead
	result := s.db.Where("keyword = ?", keyword).Order("scraped_at DESC, id DESC").Find(&leads)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get leads for keyword %q: %v", keyword, result.Error)
	}
	return leads, nil
}

// CountLeads returns the number of stored leads
func (s *Store) CountLeads() (int64, error) {
	var n int64
	if err := s.db.Model(&Lead{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count leads: %v", err)
	}
	return n, nil
}

// ClearLeads deletes every stored lead and returns how many were removed
func (s *Store) ClearLeads() (int64, error) {
	result := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Lead{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear leads: %v", result.Error)
	}
	return result.RowsAffected, nil
}

// ToLead converts a stored row back to a leadsnake.Lead. Display sentinels
// become absent fields again.
func (l Lead) ToLead() leadsnake.Lead {
	out := leadsnake.Lead{
		CandidateLead: leadsnake.CandidateLead{
			SourceURL: l.WebsiteURL,
			ScrapedAt: time.Unix(l.ScrapedAt, 0).UTC(),
		},
		Keyword: l.Keyword,
		Domain:  l.Domain,
		Validation: &leadsnake.Validation{
			EmailValid:  l.IsEmailValid,
			SocialValid: l.IsInstaValid,
			Valid:       l.IsLeadValid,
		},
	}
	if l.Name != "" && l.Name != leadsnake.NoTitle {
		name := l.Name
		out.Title = &name
	}
	if l.Email != "" && l.Email != leadsnake.NoEmail {
		email := l.Email
		out.Email = &email
	}
	if l.InstagramID != "" {
		handle := l.InstagramID
		out.SocialHandle = &handle
	}
	return out
}

func leadFromDomain(keyword string, l leadsnake.Lead) Lead {
	r := l.Record()
	if r.Keyword == "" {
		r.Keyword = keyword
	}
	row := Lead{
		Name:        r.Title,
		Email:       r.Email,
		WebsiteURL:  r.SourceURL,
		Domain:      r.Domain,
		ScrapedAt:   r.ScrapedAt.Unix(),
		InstagramID: r.SocialHandle,
		Keyword:     r.Keyword,
	}
	if v := l.Validation; v != nil {
		row.IsEmailValid = v.EmailValid
		row.IsInstaValid = v.SocialValid
		row.IsLeadValid = v.Valid
	}
	return row
}
