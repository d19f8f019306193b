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
	"errors"
	"fmt"
)

var (
	// ErrNetwork is wrapped by every fetch failure: timeouts, connection
	// errors and non-2xx responses
	ErrNetwork = errors.New("network error")
	// ErrRobotsTxtBlocked is the error type for robots.txt errors
	ErrRobotsTxtBlocked = errors.New("URL blocked by robots.txt")
	// ErrInvalidURL is returned for URLs that cannot be parsed or have no host
	ErrInvalidURL = errors.New("invalid URL")
	// ErrNoSeeds is returned when the seed provider finds nothing for a keyword
	ErrNoSeeds = errors.New("no seed URLs found")
	// ErrKeywordAbandoned marks a keyword whose retries were exhausted
	ErrKeywordAbandoned = errors.New("keyword abandoned after retries")
)

// NodeFetchError is a non-fatal failure to fetch one page. The crawler
// treats it as "no content" for that node.
type NodeFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NodeFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NodeFetchError) Unwrap() error {
	return e.Err
}

// SeedError is a failure confined to a single seed. The orchestrator logs it,
// records a miss and moves on to the next seed.
type SeedError struct {
	Seed string
	Err  error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed %s: %v", e.Seed, e.Err)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

// KeywordError is an unexpected failure during one attempt at a keyword. It
// triggers a from-scratch retry.
type KeywordError struct {
	Keyword string
	Attempt int
	Err     error
}

func (e *KeywordError) Error() string {
	return fmt.Sprintf("keyword %q attempt %d: %v", e.Keyword, e.Attempt, e.Err)
}

func (e *KeywordError) Unwrap() error {
	return e.Err
}
