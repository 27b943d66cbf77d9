package chatbot

import (
	"strconv"
	"strings"
	"unicode"
)

// Bounds for a single water entry in millilitres.
const (
	MinWaterEntryML = 1
	MaxWaterEntryML = 5000
)

// glassML is the assumed volume of one glass.
const glassML = 250

// defaultWaterML is logged when a water message names no amount.
const defaultWaterML = 200

// waterPresets maps the bare-digit quick replies to amounts.
var waterPresets = map[string]int{
	"1": 200,
	"2": 250,
	"3": 500,
}

// drinkWords are the consumption verbs a water message may use, including
// the common "içim" misspelling.
var drinkWords = []string{"içtim", "ictim", "icdim", "içtik", "içim", "icim"}

// ParseWaterIntent decides whether a message is a water log and extracts the
// amount in millilitres. A message qualifies when it pairs a volume word
// with a drink verb, or when it is short and names a unit outright. Glasses
// count as 250 ml each; a volume word with no number logs 200 ml.
func ParseWaterIntent(text string) (int, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return 0, false
	}

	if amount, ok := waterPresets[lowered]; ok {
		return amount, true
	}

	tokens := strings.Fields(lowered)
	hasVolume := hasVolumeWord(tokens)
	hasDrink := hasDrinkWord(tokens)
	shortWithUnit := len(tokens) <= 3 && hasUnitWord(tokens)

	if !(hasVolume && hasDrink) && !shortWithUnit {
		return 0, false
	}

	number, found := firstNumber(tokens)
	switch {
	case hasWord(tokens, "bardak"):
		if !found {
			number = 1
		}
		return number * glassML, true
	case found:
		return number, true
	default:
		return defaultWaterML, true
	}
}

func hasVolumeWord(tokens []string) bool {
	// Inflected forms like "suyu" or "suyunu" still signal water.
	for _, token := range tokens {
		if strings.HasPrefix(token, "su") {
			return true
		}
	}
	return hasUnitWord(tokens)
}

func hasUnitWord(tokens []string) bool {
	for _, token := range tokens {
		if token == "ml" || token == "bardak" || trimDigits(token) == "ml" {
			return true
		}
	}
	return false
}

func hasDrinkWord(tokens []string) bool {
	for _, token := range tokens {
		for _, verb := range drinkWords {
			if token == verb {
				return true
			}
		}
	}
	return false
}

func hasWord(tokens []string, word string) bool {
	for _, token := range tokens {
		if token == word {
			return true
		}
	}
	return false
}

// firstNumber returns the first run of digits found in the tokens. Numbers
// glued to a unit ("200ml") count too.
func firstNumber(tokens []string) (int, bool) {
	for _, token := range tokens {
		digits := leadingDigits(token)
		if digits == "" {
			continue
		}
		if number, err := strconv.Atoi(digits); err == nil {
			return number, true
		}
	}
	return 0, false
}

func leadingDigits(token string) string {
	for i, r := range token {
		if !unicode.IsDigit(r) {
			return token[:i]
		}
	}
	return token
}

func trimDigits(token string) string {
	return strings.TrimLeftFunc(token, unicode.IsDigit)
}
