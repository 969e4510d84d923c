package mailer

import (
	"fmt"
	"html"
)

// MagicLinkMessage renders the sign-in email for the given recipient and
// callback link.
func MagicLinkMessage(to, link string) Message {
	text := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Click here to sign in:\n%s\n\n"+
			"If you didn't request this, please ignore this email.\n\n"+
			"Best,\n- Thahrav Team\n",
		to, link,
	)

	htmlBody := fmt.Sprintf(
		`<html><body>`+
			`<h1>🪄 Your magic link</h1>`+
			`<p>Hello %s,<br><br>`+
			`<a href=%q target="_blank" rel="noopener noreferrer">👉 Click here to sign in 👈</a></p>`+
			`<p>If you didn't request this, please ignore this email.</p>`+
			`<p>Best,<br>- Thahrav Team</p>`+
			`</body></html>`,
		html.EscapeString(to), link,
	)

	return Message{
		To:      to,
		Subject: "Verify your email address",
		Text:    text,
		HTML:    htmlBody,
	}
}
