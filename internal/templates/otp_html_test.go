package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderOtpHTML(t *testing.T) {
	html, err := RenderOtpHTML(OtpEmailData{Code: "482913", ExpiryMinutes: 10})
	require.NoError(t, err)
	require.Contains(t, html, "482913")
	require.Contains(t, html, "10 minutes")
	require.False(t, strings.Contains(html, "{{"), "unexpanded template action in output")
}

func TestRenderOtpHTMLEscapes(t *testing.T) {
	html, err := RenderOtpHTML(OtpEmailData{Code: `<script>alert(1)</script>`, ExpiryMinutes: 10})
	require.NoError(t, err)
	require.NotContains(t, html, "<script>alert(1)</script>")
}
