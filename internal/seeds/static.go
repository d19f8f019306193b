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

package seeds

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Static serves fixed seed lists. ByKeyword wins over Default.
type Static struct {
	ByKeyword map[string][]string
	Default   []string
}

// Seeds implements leadsnake.SeedProvider.
func (s *Static) Seeds(_ context.Context, keyword string, max int) ([]string, error) {
	list, ok := s.ByKeyword[keyword]
	if !ok {
		list = s.Default
	}
	c := newCollector(max)
	for _, u := range list {
		c.add(u)
	}
	return c.urls, nil
}

// ReadList reads one URL per line, skipping blanks and # comments.
func ReadList(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}

// FromFile builds a Static provider that answers every keyword with the
// URLs listed in path.
func FromFile(path string) (*Static, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed list: %w", err)
	}
	defer fh.Close()
	urls, err := ReadList(fh)
	if err != nil {
		return nil, fmt.Errorf("read seed list: %w", err)
	}
	return &Static{Default: urls}, nil
}
