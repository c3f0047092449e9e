package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrTransient marks provider failures worth a single retry (5xx, timeouts,
// connection resets). Anything else propagates immediately.
var ErrTransient = errors.New("transient ai provider error")

// ErrEmptyCompletion indicates the provider answered with no usable text.
var ErrEmptyCompletion = errors.New("empty completion from ai provider")
