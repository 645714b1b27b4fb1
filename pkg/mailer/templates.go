package mailer

import "fmt"

// WelcomeEmail builds the subject and body of the post-registration email.
func WelcomeEmail(username string) (subject, html string) {
	subject = "Welcome to MiAltar!"
	html = fmt.Sprintf("<h1>Welcome to MiAltar, %s!</h1><p>Thank you for registering.</p>", username)
	return subject, html
}

// PasswordResetEmail builds the subject and body of the reset-link email.
func PasswordResetEmail(username, resetURL string) (subject, html string) {
	subject = "Password Reset Request - MiAltar"
	html = fmt.Sprintf(
		"<h2>Password Reset Request</h2>"+
			"<p>Hello %s,</p>"+
			"<p>You requested a password reset for your MiAltar account.</p>"+
			"<p>Click this link to reset your password: <a href=%q>%s</a></p>"+
			"<p><strong>This link will expire in 1 hour.</strong></p>"+
			"<p>If you didn't request this password reset, please ignore this email.</p>",
		username, resetURL, resetURL)
	return subject, html
}

// ActivityEmail builds the subject and body of an altar activity alert.
func ActivityEmail(activity string) (subject, html string) {
	subject = "Altar Activity Notification"
	html = fmt.Sprintf("<h1>Altar Activity Alert</h1><p>%s</p>", activity)
	return subject, html
}

// NewsletterEmail builds the body of a newsletter issue.
func NewsletterEmail(subject, content string) string {
	return fmt.Sprintf("<h1>%s</h1>%s", subject, content)
}
