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

package app

import (
	"errors"
	"strings"

	"github.com/agentberlin/leadsnake"
)

// normalizeSeedInput turns user input such as "Example.com/about" into the
// domain root a probe starts from and the host identifying the domain.
// Returns: (rootURL, domain, error)
func normalizeSeedInput(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", errors.New("empty URL")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	} else if !strings.HasPrefix(strings.ToLower(input), "http://") && !strings.HasPrefix(strings.ToLower(input), "https://") {
		return "", "", errors.New("only http and https URLs can be crawled")
	}

	root, err := leadsnake.DomainRoot(input)
	if err != nil {
		return "", "", err
	}
	return root, leadsnake.Hostname(root), nil
}
