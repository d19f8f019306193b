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

// Package validator runs the post-crawl checks on accepted leads.
package validator

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/charmbracelet/log"
)

var emailFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// DefaultProfileBaseURL is where social handles are resolved.
const DefaultProfileBaseURL = "https://www.instagram.com"

// LeadValidator checks email syntax and whether the social profile exists.
// It implements leadsnake.Validator.
type LeadValidator struct {
	client      *http.Client
	baseURL     string
	checkSocial bool
	mx          *MXChecker
	logger      *log.Logger
}

// Option configures a LeadValidator
type Option func(*LeadValidator)

// WithHTTPClient sets the client used for profile checks
func WithHTTPClient(c *http.Client) Option {
	return func(v *LeadValidator) {
		v.client = c
	}
}

// WithProfileBaseURL points profile checks at another host
func WithProfileBaseURL(base string) Option {
	return func(v *LeadValidator) {
		v.baseURL = strings.TrimRight(base, "/")
	}
}

// WithSocialCheck turns the profile reachability request on or off. When
// off, a present handle counts as valid.
func WithSocialCheck(enabled bool) Option {
	return func(v *LeadValidator) {
		v.checkSocial = enabled
	}
}

// WithMXCheck additionally requires the email domain to accept mail
func WithMXCheck(m *MXChecker) Option {
	return func(v *LeadValidator) {
		v.mx = m
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(v *LeadValidator) {
		v.logger = l
	}
}

// New creates a LeadValidator with a 5s client timeout.
func New(options ...Option) *LeadValidator {
	v := &LeadValidator{
		client:      &http.Client{Timeout: 5 * time.Second},
		baseURL:     DefaultProfileBaseURL,
		checkSocial: true,
		logger:      log.Default(),
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

// ValidEmail reports whether email is syntactically an address.
func ValidEmail(email string) bool {
	return emailFormat.MatchString(email)
}

// Validate attaches a Validation to lead. A lead is valid when either its
// email or its social handle checks out.
func (v *LeadValidator) Validate(ctx context.Context, lead *leadsnake.Lead) {
	res := &leadsnake.Validation{}
	if lead.Email != nil {
		res.EmailValid = ValidEmail(*lead.Email)
		if res.EmailValid && v.mx != nil {
			res.EmailValid = v.domainAcceptsMail(ctx, *lead.Email)
		}
	}
	if lead.SocialHandle != nil && *lead.SocialHandle != "" {
		res.SocialValid = v.profileExists(ctx, *lead.SocialHandle)
	}
	res.Valid = res.EmailValid || res.SocialValid
	lead.Validation = res
}

// domainAcceptsMail keeps the syntax verdict when DNS cannot be reached.
func (v *LeadValidator) domainAcceptsMail(ctx context.Context, email string) bool {
	domain := email[strings.LastIndex(email, "@")+1:]
	ok, err := v.mx.Accepts(ctx, domain)
	if err != nil {
		v.logger.Debug("mx check failed", "domain", domain, "err", err)
		return true
	}
	return ok
}

func (v *LeadValidator) profileExists(ctx context.Context, handle string) bool {
	if !v.checkSocial {
		return true
	}
	target := v.baseURL + "/" + url.PathEscape(handle) + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("profile check failed", "handle", handle, "err", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}
