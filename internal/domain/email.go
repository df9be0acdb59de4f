package domain

// Mailer sends a rendered email.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template into subject, html, and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData is the template data for the welcome email sent when an
// admin user is created.
type WelcomeEmailData struct {
	Email    string
	LoginURL string
}
