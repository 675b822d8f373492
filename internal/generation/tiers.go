package generation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Tier is one backend model configuration. Tiers are tried in list order,
// so the order of a tier list is the fallback policy.
type Tier struct {
	ID              string `json:"id"`
	Quota           string `json:"quota"` // informational only
	MaxOutputTokens int32  `json:"max_output_tokens"`
}

// DefaultTiers prefers the highest-quota model first and falls back toward
// the higher-quality, lower-quota ones.
var DefaultTiers = []Tier{
	{ID: "gemini-2.5-flash-lite", Quota: "1000/day", MaxOutputTokens: 2048},
	{ID: "gemini-2.5-flash", Quota: "250/day", MaxOutputTokens: 2048},
	{ID: "gemini-2.0-flash", Quota: "200/day", MaxOutputTokens: 2048},
	{ID: "gemini-2.5-pro", Quota: "100/day", MaxOutputTokens: 2048},
}

var providerTiers = map[string][]Tier{
	"gemini": DefaultTiers,
	"openai": {
		{ID: "gpt-4o-mini", MaxOutputTokens: 2048},
		{ID: "gpt-4.1-mini", MaxOutputTokens: 2048},
		{ID: "gpt-4o", MaxOutputTokens: 2048},
	},
	"anthropic": {
		{ID: "claude-3-5-haiku-latest", MaxOutputTokens: 2048},
		{ID: "claude-sonnet-4-20250514", MaxOutputTokens: 2048},
	},
}

// DefaultTiersFor returns the built-in tier list of a provider, or nil
// when the provider has none.
func DefaultTiersFor(provider string) []Tier {
	tiers, ok := providerTiers[provider]
	if !ok {
		return nil
	}
	return append([]Tier(nil), tiers...)
}

// ParseTiers reads a tier list of the form "id|quota|tokens,id|quota|tokens".
// Quota and tokens are optional; a missing token budget defaults to 2048.
func ParseTiers(raw string) ([]Tier, error) {
	var tiers []Tier
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, "|")
		tier := Tier{ID: strings.TrimSpace(parts[0]), MaxOutputTokens: 2048}
		if tier.ID == "" {
			return nil, fmt.Errorf("tier %q has no model id", entry)
		}
		if len(parts) > 1 {
			tier.Quota = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(parts[2]))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("tier %q has invalid token budget %q", tier.ID, parts[2])
			}
			tier.MaxOutputTokens = int32(n)
		}
		tiers = append(tiers, tier)
	}

	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier list is empty")
	}
	if dup := lo.FindDuplicatesBy(tiers, func(t Tier) string { return t.ID }); len(dup) > 0 {
		return nil, fmt.Errorf("tier %q is listed more than once", dup[0].ID)
	}
	return tiers, nil
}

// TierIDs returns the model identifiers in fallback order.
func TierIDs(tiers []Tier) []string {
	return lo.Map(tiers, func(t Tier, _ int) string { return t.ID })
}

func effectiveTokens(requested, tierMax int32) int32 {
	switch {
	case requested <= 0:
		return tierMax
	case tierMax <= 0:
		return requested
	default:
		return min(requested, tierMax)
	}
}
