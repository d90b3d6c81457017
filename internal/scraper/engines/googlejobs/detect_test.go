package googlejobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorClassifiesBlocked(t *testing.T) {
	detector := NewDetector([]string{"unusual traffic", "captcha"}, 100)

	verdict, err := detector.Classify("Our systems have detected Unusual Traffic from your network")
	assert.Equal(t, VerdictBlocked, verdict)

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "unusual traffic", blocked.Signature)
	assert.True(t, IsRecoverable(err))
}

func TestDetectorClassifiesPartial(t *testing.T) {
	detector := NewDetector([]string{"captcha"}, 100)

	verdict, err := detector.Classify("tiny page")
	assert.Equal(t, VerdictPartial, verdict)

	var partial *PartialLoadError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 9, partial.Bytes)
	assert.True(t, IsRecoverable(err))
}

func TestDetectorBlockWinsOverSize(t *testing.T) {
	// Interstitials are small pages; the signature must win
	detector := NewDetector([]string{"captcha"}, 1000)

	verdict, err := detector.Classify("please solve this CAPTCHA")
	assert.Equal(t, VerdictBlocked, verdict)
	assert.Error(t, err)
}

func TestDetectorClassifiesUsable(t *testing.T) {
	detector := NewDetector([]string{"unusual traffic"}, 100)

	verdict, err := detector.Classify(strings.Repeat("job listing content ", 10))
	assert.Equal(t, VerdictOK, verdict)
	assert.NoError(t, err)
}

func TestExtractRecaptchaSitekey(t *testing.T) {
	html := `<html><body><div class="g-recaptcha" data-sitekey="6LeKey123"></div></body></html>`
	assert.Equal(t, "6LeKey123", ExtractRecaptchaSitekey(html))

	assert.Empty(t, ExtractRecaptchaSitekey("<html><body>no challenge</body></html>"))
}

func TestExtractionErrorNotRecoverable(t *testing.T) {
	assert.False(t, IsRecoverable(&ExtractionError{Stage: "candidate"}))
}
