package shared

import (
	"fmt"
	"time"
)

// ParsePeriod validates a payroll period in YYYY-MM form and returns it
// normalized.
func ParsePeriod(raw string) (string, error) {
	parsed, err := time.Parse("2006-01", raw)
	if err != nil {
		return "", fmt.Errorf("period must be formatted YYYY-MM: %w", err)
	}
	return parsed.Format("2006-01"), nil
}
