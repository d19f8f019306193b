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

// Lead is a stored lead. WebsiteURL is unique, so a page that already
// produced a lead is never stored twice.
type Lead struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"type:text"`
	Email        string `gorm:"type:text;index"`
	WebsiteURL   string `gorm:"uniqueIndex;not null"`
	Domain       string `gorm:"index"`
	ScrapedAt    int64  `gorm:"index"`
	InstagramID  string `gorm:"type:text"`
	IsEmailValid bool   `gorm:"default:false"`
	IsInstaValid bool   `gorm:"default:false"`
	IsLeadValid  bool   `gorm:"default:false"`
	Keyword      string `gorm:"index"`
	CreatedAt    int64  `gorm:"autoCreateTime"`
}

// Run states
const (
	RunStateRunning   = "running"
	RunStateCompleted = "completed"
	RunStateFailed    = "failed"
)

// Run records one keyword search
type Run struct {
	ID          string `gorm:"primaryKey"`
	Keyword     string `gorm:"index;not null"`
	State       string `gorm:"default:'running'"`
	StartedAt   int64  `gorm:"index"`
	FinishedAt  int64
	Attempts    int
	Seeds       int
	Crawled     int
	Skipped     int
	Misses      int
	Duplicates  int
	LeadsFound  int
	LeadsStored int
	Error       string `gorm:"type:text"`
}
