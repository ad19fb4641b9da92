package phone

import "testing"

func TestDigitsOnlyStripsFormatting(t *testing.T) {
	got := DigitsOnly("+1 (987) 654-3210")
	if got != "19876543210" {
		t.Fatalf("expected 19876543210, got %q", got)
	}
}

func TestIsDigitSearchTenDigits(t *testing.T) {
	if !IsDigitSearch("9876543210") {
		t.Fatalf("expected ten digit term to be a digit search")
	}
}

func TestIsDigitSearchFormattedNumber(t *testing.T) {
	if !IsDigitSearch("+1 (987) 654-3210") {
		t.Fatalf("expected formatted number to be a digit search")
	}
}

func TestIsDigitSearchRejectsShortNumeric(t *testing.T) {
	if IsDigitSearch("1234") {
		t.Fatalf("expected four digit term to not be a digit search")
	}
}

func TestIsDigitSearchRejectsLetters(t *testing.T) {
	if IsDigitSearch("john123456") {
		t.Fatalf("expected term with letters to not be a digit search")
	}
}

func TestNormalizeE164FallsBackToTrimmedInput(t *testing.T) {
	got := NormalizeE164("  not-a-number  ")
	if got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}
