package capi

import (
	"errors"
	"sync"
)

var errInvalidHandle = errors.New("capi: invalid or released handle")

// lastErrors is the per-thread last-error slot: a call that fails
// deposits a message here before returning; take_last_error consumes
// it. Go has no native thread-local storage, so the slot is keyed by
// a caller-supplied token standing in for the calling thread's
// identity — the nearest stdlib-available equivalent.
var lastErrors sync.Map // any (thread token) -> string

// setLastError records msg for threadToken, overwriting any value
// already there. Per the ordering guarantee, this is only ever called
// on a failing path immediately before that path returns.
func setLastError(threadToken any, msg string) {
	lastErrors.Store(threadToken, msg)
}

// TakeLastError consumes and clears threadToken's last-error message.
// A second call before any new failure returns ("", false) — a
// successful call must not clear a pending failure on its own, only
// TakeLastError does.
func TakeLastError(threadToken any) (string, bool) {
	v, ok := lastErrors.LoadAndDelete(threadToken)
	if !ok {
		return "", false
	}
	return v.(string), true
}
