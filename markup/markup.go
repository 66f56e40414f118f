// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package markup

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is safe for concurrent use once built
var policy = bluemonday.StrictPolicy()

// Sanitize strips all markup from s and trims surrounding whitespace
func Sanitize(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
