package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderActivation(t *testing.T) {
	html, err := RenderActivation(ActivationData{FirstName: "Ada", Subject: "Welcome!"})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "Welcome!")
}

func TestRenderPasswordReset(t *testing.T) {
	html, err := RenderPasswordReset(PasswordResetData{
		Email:    "a@x.com",
		Subject:  "Reset Password Link",
		Token:    "tok-123",
		ResetURL: "http://localhost:8080/reset-password?token=tok-123",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "a@x.com")
	assert.Contains(t, html, "tok-123")
	assert.Contains(t, html, `href="http://localhost:8080/reset-password?token=tok-123"`)
}

func TestRenderEscapesHTML(t *testing.T) {
	html, err := RenderActivation(ActivationData{FirstName: "<script>alert(1)</script>", Subject: "hi"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}
