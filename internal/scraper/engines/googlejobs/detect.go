package googlejobs

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Verdict classifies a rendered page.
type Verdict int

const (
	// VerdictOK means the page looks like a real results page.
	VerdictOK Verdict = iota
	// VerdictBlocked means an anti-bot interstitial was served.
	VerdictBlocked
	// VerdictPartial means the page is too small to hold results.
	VerdictPartial
)

// Detector classifies rendered page content. Block signatures are matched
// case-insensitively against the raw HTML; the size floor catches pages
// that returned 200 but never hydrated.
type Detector struct {
	signatures []string
	minBytes   int
}

// NewDetector creates a detector with the given block signatures and
// minimum content size.
func NewDetector(signatures []string, minBytes int) *Detector {
	lowered := make([]string, len(signatures))
	for i, s := range signatures {
		lowered[i] = strings.ToLower(s)
	}
	return &Detector{signatures: lowered, minBytes: minBytes}
}

// Classify inspects page HTML and returns a verdict plus a matching error
// for non-OK verdicts. Block signatures are checked before the size floor
// since interstitials are small pages themselves.
func (d *Detector) Classify(html string) (Verdict, error) {
	lowered := strings.ToLower(html)
	for _, sig := range d.signatures {
		if strings.Contains(lowered, sig) {
			return VerdictBlocked, &BlockedError{Signature: sig}
		}
	}

	if len(html) < d.minBytes {
		return VerdictPartial, &PartialLoadError{Bytes: len(html), Min: d.minBytes}
	}

	return VerdictOK, nil
}

// ExtractRecaptchaSitekey pulls the reCAPTCHA sitekey out of a blocked
// page, when present. Returns an empty string if the interstitial does
// not carry a solvable challenge.
func ExtractRecaptchaSitekey(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if key, ok := doc.Find(".g-recaptcha").First().Attr("data-sitekey"); ok {
		return key
	}

	if key, ok := doc.Find("[data-sitekey]").First().Attr("data-sitekey"); ok {
		return key
	}

	return ""
}
