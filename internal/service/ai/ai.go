// Package ai provides language model adapters for the conversation core.
package ai

import "errors"

// ErrEmptyCompletion is returned when a provider answers without content.
// The core requires model clients to fail rather than return empty text.
var ErrEmptyCompletion = errors.New("model returned no content")
