package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type ActivationData struct {
	FirstName string
	Subject   string
}

type PasswordResetData struct {
	Email    string
	Subject  string
	Token    string
	ResetURL string
}

// RenderActivation renders the welcome email sent right after registration.
func RenderActivation(data ActivationData) (string, error) {
	return render("account_activation.html", data)
}

// RenderPasswordReset renders the reset email. A render failure here must
// abort the forgot-password flow before anything is sent.
func RenderPasswordReset(data PasswordResetData) (string, error) {
	return render("reset_password.html", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
