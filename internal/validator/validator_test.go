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

package validator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentberlin/leadsnake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("info@acme.example"))
	assert.True(t, ValidEmail("first.last+tag@sub.acme.co"))
	assert.False(t, ValidEmail("no-at-sign.example"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a@b.c"))
	assert.False(t, ValidEmail("spaces in@acme.example"))
}

func TestValidate(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		switch r.URL.Path {
		case "/acmebakery/":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	v := New(WithHTTPClient(srv.Client()), WithProfileBaseURL(srv.URL+"/"))

	tests := []struct {
		name string
		lead leadsnake.Lead
		want leadsnake.Validation
	}{
		{
			name: "email only",
			lead: leadsnake.Lead{CandidateLead: leadsnake.CandidateLead{Email: strPtr("info@acme.example")}},
			want: leadsnake.Validation{EmailValid: true, Valid: true},
		},
		{
			name: "existing profile",
			lead: leadsnake.Lead{CandidateLead: leadsnake.CandidateLead{SocialHandle: strPtr("acmebakery")}},
			want: leadsnake.Validation{SocialValid: true, Valid: true},
		},
		{
			name: "missing profile and bad email",
			lead: leadsnake.Lead{CandidateLead: leadsnake.CandidateLead{
				Email:        strPtr("broken@"),
				SocialHandle: strPtr("ghost"),
			}},
			want: leadsnake.Validation{},
		},
		{
			name: "nothing to check",
			lead: leadsnake.Lead{},
			want: leadsnake.Validation{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := tt.lead
			v.Validate(context.Background(), &lead)
			require.NotNil(t, lead.Validation)
			assert.Equal(t, tt.want, *lead.Validation)
		})
	}
	for _, m := range methods {
		assert.Equal(t, http.MethodHead, m)
	}
}

func TestValidateUnreachableProfileHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	v := New(WithProfileBaseURL(base))
	lead := leadsnake.Lead{CandidateLead: leadsnake.CandidateLead{SocialHandle: strPtr("acmebakery")}}
	v.Validate(context.Background(), &lead)
	assert.False(t, lead.Validation.SocialValid)
	assert.False(t, lead.Validation.Valid)
}

func TestValidateWithoutSocialCheck(t *testing.T) {
	v := New(WithSocialCheck(false), WithProfileBaseURL("http://127.0.0.1:1"))
	lead := leadsnake.Lead{CandidateLead: leadsnake.CandidateLead{SocialHandle: strPtr("acmebakery")}}
	v.Validate(context.Background(), &lead)
	assert.True(t, lead.Validation.SocialValid)
	assert.True(t, lead.Validation.Valid)
}
