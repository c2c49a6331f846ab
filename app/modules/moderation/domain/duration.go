// Package moderationdomain parses mute durations.
package moderationdomain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

const (
	MinMuteDuration = time.Minute
	MaxMuteDuration = 28 * 24 * time.Hour
)

var (
	bareAmount = regexp.MustCompile(`^\d+\s*[a-z]`)
	parser     = newParser()
)

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDuration reads a mute length. A bare integer is a number of minutes;
// anything else is a phrase such as "in 2 hours" or "tomorrow", measured
// from now. The result is rounded to the minute.
func ParseDuration(input string, now time.Time) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, apperrors.Invalid("duration is required")
	}

	var d time.Duration
	if minutes, err := strconv.Atoi(input); err == nil {
		d = time.Duration(minutes) * time.Minute
	} else {
		if bareAmount.MatchString(input) {
			input = "in " + input
		}
		r, err := parser.Parse(input, now)
		if err != nil || r == nil {
			return 0, apperrors.Invalid("could not read duration %q", input)
		}
		d = r.Time.Sub(now).Round(time.Minute)
	}

	if d < MinMuteDuration {
		return 0, apperrors.Invalid("duration must be at least one minute")
	}
	if d > MaxMuteDuration {
		return 0, apperrors.Invalid("duration must be at most %d days", int(MaxMuteDuration/(24*time.Hour)))
	}
	return d, nil
}

// FormatMinutes renders d the way mute embeds show it.
func FormatMinutes(d time.Duration) string {
	return fmt.Sprintf("%d minute(s)", int(d/time.Minute))
}
