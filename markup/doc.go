// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package markup sanitizes user-supplied poll text with bluemonday's strict
// policy. It is plugged into the store with store.WithSanitizer.
package markup
