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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSuspiciousEmail(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"sales@biz.example", false},
		{"jane.doe+shop@studio.co.uk", false},
		{"info@example.com", true},
		{"someone@EXAMPLE.org", true},
		{"root@localhost", true},
		{"no-reply@biz.example", true},
		{"noreply@biz.example", true},
		{"orders@notify.biz.example", true},
		{"MAILER-DAEMON@biz.example", true},
		{"postmaster@biz.example", true},
		{"abc@sentry.io", true},
		{"605a7baede844d278b89dc95ae0a9123@sentry-next.wixpress.com", true},
		{"logo@2x.png", true},
		{"icon@3x.webp", true},
		{"0123456789abcdef@biz.example", true},
		{"0123456789abcde@biz.example", false},
		{strings.Repeat("a", 65) + "@biz.example", true},
		{strings.Repeat("a", 64) + "@biz.example", false},
		{"a/b@biz.example", true},
		{"a`b@biz.example", true},
		{"not-an-email", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSuspiciousEmail(tt.addr), tt.addr)
	}
}

func TestExtractEmails(t *testing.T) {
	doc, err := parseDocument([]byte(`<html><body>
		<p>Questions? (sales@biz.example).</p>
		<p>Press: press@biz.example, or sales@biz.example again</p>
		<p>Ignore noreply@biz.example and info@example.com</p>
		<img src="hero@2x.png">
		<script>var dsn = "abc@o123.ingest.sentry.io";</script>
		<a href="mailto:owner@biz.example?subject=Hello">Email the owner</a>
		<a href="MAILTO:press@biz.example">Press</a>
	</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"sales@biz.example", "press@biz.example", "owner@biz.example"}, extractEmails(doc))
}

func TestExtractEmailsNone(t *testing.T) {
	doc, err := parseDocument([]byte(`<html><body><p>Call us</p><a href="mailto:">x</a></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, extractEmails(doc))
}

func TestFilterEmailsTrimsAndDedupes(t *testing.T) {
	got := filterEmails([]string{"<a@biz.example>", "a@biz.example", "'b@biz.example';", "", "()"})
	assert.Equal(t, []string{"a@biz.example", "b@biz.example"}, got)
}
