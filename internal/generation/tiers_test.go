package generation

import (
	"reflect"
	"testing"
)

func TestParseTiers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Tier
		wantErr bool
	}{
		{
			name:  "full entries",
			input: "gemini-2.5-flash|250/day|1024, gemini-2.5-pro|100/day|4096",
			want: []Tier{
				{ID: "gemini-2.5-flash", Quota: "250/day", MaxOutputTokens: 1024},
				{ID: "gemini-2.5-pro", Quota: "100/day", MaxOutputTokens: 4096},
			},
		},
		{
			name:  "id only gets default budget",
			input: "gpt-4o-mini",
			want:  []Tier{{ID: "gpt-4o-mini", MaxOutputTokens: 2048}},
		},
		{name: "empty", input: " , ", wantErr: true},
		{name: "bad tokens", input: "m|q|lots", wantErr: true},
		{name: "missing id", input: "|q|10", wantErr: true},
		{name: "duplicate", input: "a,b,a", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTiers(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestDefaultTierOrder(t *testing.T) {
	want := []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-2.0-flash", "gemini-2.5-pro"}
	if got := TierIDs(DefaultTiers); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDefaultTiersFor(t *testing.T) {
	if got := DefaultTiersFor("gemini"); !reflect.DeepEqual(got, DefaultTiers) {
		t.Errorf("Expected Gemini defaults, got %+v", got)
	}
	if got := DefaultTiersFor("openai"); len(got) == 0 || got[0].ID != "gpt-4o-mini" {
		t.Errorf("Unexpected OpenAI tiers %+v", got)
	}
	if got := DefaultTiersFor("anthropic"); len(got) == 0 || got[0].ID != "claude-3-5-haiku-latest" {
		t.Errorf("Unexpected Anthropic tiers %+v", got)
	}
	if got := DefaultTiersFor("llama"); got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}

	// Callers get a copy.
	DefaultTiersFor("gemini")[0].ID = "changed"
	if DefaultTiers[0].ID != "gemini-2.5-flash-lite" {
		t.Errorf("DefaultTiers was modified through the returned slice")
	}
}

func TestEffectiveTokens(t *testing.T) {
	tests := []struct {
		requested, tier, want int32
	}{
		{1500, 2048, 1500},
		{4096, 2048, 2048},
		{0, 2048, 2048},
		{1500, 0, 1500},
	}
	for _, tc := range tests {
		if got := effectiveTokens(tc.requested, tc.tier); got != tc.want {
			t.Errorf("effectiveTokens(%d, %d) = %d, want %d", tc.requested, tc.tier, got, tc.want)
		}
	}
}
