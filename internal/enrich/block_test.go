package enrich

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock_Cloudflare403(t *testing.T) {
	resp := &http.Response{
		StatusCode: 403,
		Header:     http.Header{"Cf-Ray": {"abc123"}},
	}
	blocked, bt := DetectBlock(resp, nil)
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_Cloudflare503Server(t *testing.T) {
	resp := &http.Response{
		StatusCode: 503,
		Header:     http.Header{"Server": {"cloudflare"}},
	}
	blocked, bt := DetectBlock(resp, nil)
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_ChallengeBody(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	blocked, bt := DetectBlock(resp, []byte("<html>Checking your browser before accessing</html>"))
	assert.True(t, blocked)
	assert.Equal(t, BlockCloudflare, bt)
}

func TestDetectBlock_CaptchaOnlyPage(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	blocked, bt := DetectBlock(resp, []byte("<html><body>Please complete the reCAPTCHA to continue</body></html>"))
	assert.True(t, blocked)
	assert.Equal(t, BlockCaptcha, bt)
}

func TestDetectBlock_CaptchaOnContactForm(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	body := "<html><body>" + strings.Repeat("<p>Joe's Plumbing services</p>", 200) +
		`<form><div class="g-recaptcha"></div></form></body></html>`
	blocked, _ := DetectBlock(resp, []byte(body))
	assert.False(t, blocked)
}

func TestDetectBlock_JSShell(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	blocked, bt := DetectBlock(resp, []byte("<html><noscript>Enable JavaScript to continue</noscript></html>"))
	assert.True(t, blocked)
	assert.Equal(t, BlockJSShell, bt)
}

func TestDetectBlock_NilResponse(t *testing.T) {
	blocked, bt := DetectBlock(nil, nil)
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, bt)
}

func TestDetectBlock_CleanPage(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}
	blocked, bt := DetectBlock(resp, []byte("<html><title>Joe's Plumbing</title><a href='/contact'>Contact</a></html>"))
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, bt)
}
