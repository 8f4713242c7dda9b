package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var mailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// OTPBody fills templates/otp.html.
type OTPBody struct {
	Code      string
	ExpiresIn string
}

// PasswordResetBody fills templates/password_reset.html.
type PasswordResetBody struct {
	ResetURL  string
	ExpiresIn string
}

// ReceiptBody fills templates/receipt.html.
type ReceiptBody struct {
	ProductName string
	ReceiptID   string
}

// Render executes the named embedded template with data and returns the
// HTML body.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render mail template %s: %w", name, err)
	}
	return buf.String(), nil
}
