package mailer

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

type PasswordResetData struct {
	Username string
	ResetURL string
	ValidFor string
}

// PasswordReset renders the reset email with plaintext and HTML parts.
func PasswordReset(to string, data PasswordResetData) (Message, error) {
	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, "password_reset.txt", data); err != nil {
		return Message{}, err
	}
	if err := htmlTemplates.ExecuteTemplate(&html, "password_reset.html", data); err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Password reset request",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
