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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialHandle(t *testing.T) {
	tests := []struct {
		href   string
		handle string
		ok     bool
	}{
		{"https://www.instagram.com/bizshop/", "bizshop", true},
		{"https://instagram.com/@biz.shop", "biz.shop", true},
		{"https://m.facebook.com/Biz-Shop?ref=bookmarks", "Biz-Shop", true},
		{"https://x.com/biz_shop/status/1", "biz_shop", true},
		{"https://www.tiktok.com/@bizshop", "bizshop", true},
		{"https://www.youtube.com/watch?v=abc", "", false},
		{"https://www.instagram.com/p/Cx123/", "", false},
		{"https://www.facebook.com/sharer/sharer.php?u=x", "", false},
		{"https://twitter.com/intent/tweet?text=hi", "", false},
		{"https://www.linkedin.com/company/biz", "", false},
		{"https://www.instagram.com/", "", false},
		{"https://www.instagram.com/biz%20shop", "", false},
		{"https://shop.biz.example/instagram", "", false},
		{"https://notinstagram.com/bizshop", "", false},
		{"/relative", "", false},
	}
	for _, tt := range tests {
		handle, ok := SocialHandle(tt.href)
		assert.Equal(t, tt.ok, ok, tt.href)
		assert.Equal(t, tt.handle, handle, tt.href)
	}
}

func TestExtractSocialHandleFirstValid(t *testing.T) {
	doc, err := parseDocument([]byte(`<body>
		<a href="https://www.facebook.com/sharer/sharer.php?u=x">Share</a>
		<a href="https://www.instagram.com/bizshop/">IG</a>
		<a href="https://twitter.com/bizshop_tw">Twitter</a>
	</body>`))
	require.NoError(t, err)

	handle := extractSocialHandle(doc)
	require.NotNil(t, handle)
	assert.Equal(t, "bizshop", *handle)

	doc, err = parseDocument([]byte(`<body><a href="/about">About</a></body>`))
	require.NoError(t, err)
	assert.Nil(t, extractSocialHandle(doc))
}
