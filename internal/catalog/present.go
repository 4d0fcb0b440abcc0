package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/ModelMarket/internal/market"
)

// DateLayout renders timestamps as "Jan 2, 2006, 03:04 PM".
const DateLayout = "Jan 2, 2006, 03:04 PM"

// Badge variants for status labels.
const (
	BadgeDefault     = "default"
	BadgeDestructive = "destructive"
	BadgeSecondary   = "secondary"
	BadgeOutline     = "outline"
)

// BadgeVariant maps a moderation status to its badge style.
func BadgeVariant(status market.Status) string {
	switch status {
	case market.StatusApproved:
		return BadgeDefault
	case market.StatusRejected:
		return BadgeDestructive
	case market.StatusPending:
		return BadgeSecondary
	default:
		return BadgeOutline
	}
}

// StatusLabel capitalizes the first letter of status.
func StatusLabel(status market.Status) string {
	s := string(status)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatDate renders t in DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ResultsHeading titles the result grid.
func ResultsHeading(f Filter, count int) string {
	if f.Searching() {
		return fmt.Sprintf("Search Results (%d)", count)
	}
	return "All Models"
}
