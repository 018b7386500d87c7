package utils

import "testing"

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Locale Price With Currency", "1 299,99 €", 1299.99},
		{"Comma Decimal", "549,00", 549.00},
		{"Plain Decimal", "119.00", 119.00},
		{"Integer Price", "99 €", 99.0},
		{"Non-Breaking Space Separator", "1 299,99 €", 1299.99},
		{"Leading Whitespace", "  749,50€ ", 749.50},
		{"Empty String", "", 0.0},
		{"Invalid String", "invalid", 0.0},
		{"No Digits", "€ --", 0.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParsePrice(tc.input)
			if result != tc.expected {
				t.Errorf("ParsePrice(%q) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePriceNeverPanics(t *testing.T) {
	// A bad price must never block the pipeline, whatever the input.
	inputs := []string{"", "€", "abc", "1,2,3", "....", ",,,,"}
	for _, input := range inputs {
		_ = ParsePrice(input)
	}
}

func TestParseStock(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int
	}{
		{"Saturating Sentinel", "5+", 5},
		{"Sentinel With Text", "Sandėlyje: 5+", 5},
		{"Plain Number", "3", 3},
		{"Number In Text", "Liko 12 vnt.", 12},
		{"Status Text", "Nėra sandėlyje", 0},
		{"Empty", "", 0},
		{"Whitespace", "   ", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParseStock(tc.input)
			if result != tc.expected {
				t.Errorf("ParseStock(%q) = %d; want %d", tc.input, result, tc.expected)
			}
		})
	}
}
