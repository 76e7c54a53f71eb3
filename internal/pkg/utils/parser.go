package utils

import (
	"strings"
	"time"
)

// ParseAllergies splits comma-separated free text into clean tokens. Empty
// tokens are dropped so trailing or doubled commas do not produce entries.
func ParseAllergies(raw string) []string {
	parts := strings.Split(raw, ",")
	allergies := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		allergies = append(allergies, token)
	}
	return allergies
}

func CalculateAge(birthDate string) int {
	if birthDate == "" {
		return 0
	}

	layout := "2006-01-02"
	dob, err := time.Parse(layout, birthDate)
	if err != nil {
		return 0
	}

	today := time.Now()
	age := today.Year() - dob.Year()
	if today.YearDay() < dob.YearDay() {
		age--
	}

	return age
}
