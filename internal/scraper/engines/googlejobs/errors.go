package googlejobs

import (
	"errors"
	"fmt"
)

// BlockedError indicates the page served an anti-bot interstitial instead
// of search results. Recoverable: a fresh proxy session usually clears it.
type BlockedError struct {
	Signature string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by anti-bot measures (matched %q)", e.Signature)
}

// PartialLoadError indicates the page rendered but its content is too
// small to be a real results page. Recoverable.
type PartialLoadError struct {
	Bytes int
	Min   int
}

func (e *PartialLoadError) Error() string {
	return fmt.Sprintf("page loaded partially: %d bytes, expected at least %d", e.Bytes, e.Min)
}

// NavigationTimeoutError indicates the browser could not finish loading
// the page in time. Recoverable.
type NavigationTimeoutError struct {
	URL string
	Err error
}

func (e *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("navigation timed out for %s: %v", e.URL, e.Err)
}

func (e *NavigationTimeoutError) Unwrap() error { return e.Err }

// ProxyConnectionError indicates the proxy session could not be
// established or dropped mid-request. Recoverable with a new session.
type ProxyConnectionError struct {
	Session string
	Err     error
}

func (e *ProxyConnectionError) Error() string {
	return fmt.Sprintf("proxy connection failed via %s: %v", e.Session, e.Err)
}

func (e *ProxyConnectionError) Unwrap() error { return e.Err }

// ExtractionError indicates parsing failed on a page that loaded fine.
// Not recoverable by retrying: the same page yields the same parse.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IsRecoverable reports whether a retry with a fresh proxy session has a
// chance of succeeding.
func IsRecoverable(err error) bool {
	var blocked *BlockedError
	var partial *PartialLoadError
	var timeout *NavigationTimeoutError
	var proxyErr *ProxyConnectionError

	switch {
	case errors.As(err, &blocked),
		errors.As(err, &partial),
		errors.As(err, &timeout),
		errors.As(err, &proxyErr):
		return true
	}

	return false
}
