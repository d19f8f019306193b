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

import "strings"

// Heuristic costs, lowest first. A link's cost estimates how far it is from
// a page carrying contact details.
const (
	CostContact = 1
	CostService = 2
	CostCompany = 3
	CostPolicy  = 4
	CostDefault = 10
	CostDeadEnd = 15
)

type costTier struct {
	cost     int
	keywords []string
}

// costTiers are matched in order; the first tier with a matching keyword
// decides the cost.
var costTiers = []costTier{
	{CostContact, []string{"contact", "support", "email", "billing", "shipment", "about", "terms-of-service"}},
	{CostService, []string{"customer service", "customer-service", "affiliates", "returns", "exchanges"}},
	{CostCompany, []string{"careers", "newsroom", "community", "team"}},
	{CostPolicy, []string{"privacy", "legal", "terms", "accessibility"}},
	{CostDeadEnd, []string{"blog", "shop", "product", "checkout", "login", "rewards", "sale"}},
}

// Cost scores a link by case-insensitive keyword match against its URL and
// anchor text.
func Cost(url, anchorText string) int {
	haystack := strings.ToLower(url + " " + anchorText)
	for _, tier := range costTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(haystack, kw) {
				return tier.cost
			}
		}
	}
	return CostDefault
}
