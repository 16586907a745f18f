package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClockMinutes parses an "HH:MM" clock string to minutes past midnight.
func ParseClockMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock format: %s", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in clock: %s", clock)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in clock: %s", clock)
	}

	return hour*60 + minute, nil
}
