// Package clock provides the wall clock used in production and a manually
// advanced clock for deterministic tests of debounce and indicator timers.
package clock

import (
	"time"

	"github.com/alexisbeaulieu97/varplay/internal/ports"
)

// Wall is a ports.Clock backed by the time package.
type Wall struct{}

// Now implements ports.Clock.
func (Wall) Now() time.Time { return time.Now() }

// AfterFunc implements ports.Clock.
func (Wall) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

var _ ports.Clock = Wall{}
