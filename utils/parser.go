package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRegex finds the first number-like token in a price string. It accepts
// both "1299.99" and the locale form "1 299,99" once spaces are stripped.
var priceRegex = regexp.MustCompile(`[\d.,]+`)

// ParsePrice cleans a locale-formatted price string ("1 299,99 €") and
// converts it to a float64. Parse failures return 0.0, never an error: one
// bad price must not block the rest of a scrape.
func ParsePrice(priceStr string) float64 {
	if priceStr == "" {
		return 0.0
	}

	cleaned := strings.NewReplacer("€", "", " ", "", " ", "").Replace(priceStr)

	found := priceRegex.FindString(cleaned)
	if found == "" {
		return 0.0
	}

	// Comma is the decimal separator on the target sites.
	found = strings.ReplaceAll(found, ",", ".")

	// "1.299.99" can come out of thousand-dot inputs; keep only the last dot.
	if parts := strings.Split(found, "."); len(parts) > 2 {
		found = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}

	price, err := strconv.ParseFloat(found, 64)
	if err != nil {
		return 0.0
	}
	return price
}

var stockDigits = regexp.MustCompile(`\d+`)

// ParseStock converts site stock text into a count. "5+" saturates to 5,
// plain numbers are extracted, anything else (status text, dates) yields 0.
func ParseStock(stockText string) int {
	text := strings.TrimSpace(stockText)
	if text == "" {
		return 0
	}
	if strings.Contains(text, "5+") {
		return 5
	}
	if m := stockDigits.FindString(text); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}
