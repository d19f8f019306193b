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

package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Bakery", "bakery"},
		{"  Coffee   Roasters\t", "coffee roasters"},
		{"<b>Café</b> Berlin", "cafe berlin"},
		{"Zürich\nFlorist", "zurich florist"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestSplit(t *testing.T) {
	got := Split("Bakery, bakery ,Florist;\n  ,Plumber Berlin")
	assert.Equal(t, []string{"bakery", "florist", "plumber berlin"}, got)
	assert.Empty(t, Split(" , ;"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"yoga studio"}, Normalize([]string{"Yoga  Studio", "yoga studio", ""}))
}
