package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/liftlog/internal/models"
)

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	agoRegex       = regexp.MustCompile(`^(\d+)\s*(d|day|days|w|week|weeks)\s*(ago)?$`)
)

// ParseSessionDate turns user input into a session date (YYYY-MM-DD).
// Supported formats:
// - empty or "today"
// - "yesterday"
// - YYYY-MM-DD (e.g., "2024-01-31")
// - dd/mm/yyyy (e.g., "31/01/2024")
// - X days/weeks ago (e.g., "3 days ago", "2w")
func ParseSessionDate(input string, now time.Time) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "", "today":
		return models.DateISO(now), nil
	case "yesterday":
		return models.DateISO(now.AddDate(0, 0, -1)), nil
	}

	if IsDateISO(input) {
		return input, nil
	}

	if matches := slashDateRegex.FindStringSubmatch(input); len(matches) == 4 {
		day, _ := strconv.Atoi(matches[1])
		month, _ := strconv.Atoi(matches[2])
		year, _ := strconv.Atoi(matches[3])
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		// time.Date normalises overflow, so 31/02 comes back as March
		if d.Day() != day || d.Month() != time.Month(month) {
			return "", fmt.Errorf("invalid date %q", input)
		}
		return models.DateISO(d), nil
	}

	if matches := agoRegex.FindStringSubmatch(input); len(matches) >= 3 {
		amount, err := strconv.Atoi(matches[1])
		if err != nil || amount > 3650 {
			return "", fmt.Errorf("invalid relative date %q", input)
		}
		days := amount
		if strings.HasPrefix(matches[2], "w") {
			days = amount * 7
		}
		return models.DateISO(now.AddDate(0, 0, -days)), nil
	}

	return "", fmt.Errorf("invalid date %q. Use: today, yesterday, YYYY-MM-DD, dd/mm/yyyy or X days ago", input)
}

// IsDateISO reports whether s is a real calendar date in YYYY-MM-DD form
func IsDateISO(s string) bool {
	if len(s) != len(models.DateLayout) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
