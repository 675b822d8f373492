package generation

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean array", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"bare fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"prose around array", "Here is your quiz:\n[1, 2]\nGood luck!", `[1, 2]`},
		{"trailing commas", "[{\"a\":1,},\n{\"b\":2},\n]", "[{\"a\":1},\n{\"b\":2}]"},
		{"no array", "  not json at all ", "not json at all"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSanitize_CleanInputKeepsStructure(t *testing.T) {
	clean := `[{"id":1,"type":"mcq","question":"Q?","options":["a","b","c","d"],"correct_answer":"a","explanation":"e"},{"id":2,"nested":{"k":[1,2]}}]`

	var before, after any
	if err := json.Unmarshal([]byte(clean), &before); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(Sanitize(clean)), &after); err != nil {
		t.Fatalf("sanitized clean input no longer parses: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected %v, got %v", before, after)
	}
}

func TestSanitize_CommasInsideStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid input untouched", `[{"q":"Which list is valid: [1, 2,] ?","o":["x, }","y"]}]`, `[{"q":"Which list is valid: [1, 2,] ?","o":["x, }","y"]}]`},
		{"repair skips strings", `[{"q":"a, ]","o":["x, }",],},]`, `[{"q":"a, ]","o":["x, }"]}]`},
		{"escaped quote", `[{"q":"say \"hi, ]\"",},]`, `[{"q":"say \"hi, ]\""}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Sanitize(tc.input)
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
			if again := Sanitize(got); again != got {
				t.Errorf("Expected Sanitize to be idempotent, got %q then %q", got, again)
			}
		})
	}
}
