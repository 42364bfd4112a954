package backend

import "sync/atomic"

// Token is a one-way cancellation flag shared between a WorkItem and its
// Handle. Once canceled it never reverts.
type Token struct {
	canceled atomic.Bool
}

// Cancel sets the token. It reports whether this call changed it, so among
// concurrent callers exactly one sees true.
func (t *Token) Cancel() bool {
	return t.canceled.CompareAndSwap(false, true)
}

// Canceled returns whether the token has been set.
func (t *Token) Canceled() bool {
	return t.canceled.Load()
}
