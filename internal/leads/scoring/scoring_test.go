package scoring

import "testing"

func TestScoreKnownStatuses(t *testing.T) {
	cases := map[string]int{
		"New":       10,
		"Qualified": 65,
		"Converted": 100,
		"Lost":      0,
	}
	for status, want := range cases {
		if got := Score(status); got != want {
			t.Fatalf("Score(%q) = %d, want %d", status, got, want)
		}
	}
}

func TestScoreUnknownStatusUsesDefault(t *testing.T) {
	if got := Score("Completely Made Up"); got != 10 {
		t.Fatalf("expected default score 10, got %d", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	first := Score("Negotiation")
	for i := 0; i < 3; i++ {
		if got := Score("Negotiation"); got != first {
			t.Fatalf("score changed between calls: %d vs %d", first, got)
		}
	}
}
