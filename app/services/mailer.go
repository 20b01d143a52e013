package services

import (
	"fmt"
	"log"
	"net/smtp"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

// Enabled reports whether the mailer has an SMTP host to talk to. Without
// one, reset emails are logged instead of sent.
func (m *Mailer) Enabled() bool {
	return m.config.Host != ""
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth(m.config.From, m.config.Username, m.config.Password, m.config.Host)

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	if err != nil {
		log.Printf("failed to send HTML email to %s: %v", to, err)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

func BuildOrderConfirmationEmailBody(orderID, totalFormatted string) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Order Confirmed</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                .content { padding: 20px; text-align: center; }
                .total { font-size: 1.5em; font-weight: bold; margin: 20px 0; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>Thank You for Your Order</h2>
                </div>
                <div class="content">
                    <p>Your payment was received and your order is confirmed.</p>
                    <p>Order reference: <strong>%s</strong></p>
                    <p class="total">%s</p>
                    <p>We will let you know as soon as it ships.</p>
                </div>
                <div class="footer">
                    <p>&copy; 2025 DR Bijoux. All rights reserved.</p>
                </div>
            </div>
        </body>
        </html>
    `, orderID, totalFormatted)
}

func BuildPasswordResetEmailBody(resetURL string, expiryMinutes int) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>Reset Your Password</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .header { background-color: #f8f8f8; padding: 10px 0; text-align: center; border-bottom: 1px solid #ddd; }
                .content { padding: 20px; text-align: center; }
                .button { font-size: 1.1em; font-weight: bold; color: #fff; background-color: #1a1a2e; margin: 20px 0; padding: 12px 24px; border-radius: 5px; display: inline-block; text-decoration: none; }
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="header">
                    <h2>Password Reset Request</h2>
                </div>
                <div class="content">
                    <p>We received a request to reset the password for your account.</p>
                    <p>Click the button below to choose a new password:</p>
                    <p><a class="button" href="%s">Reset Password</a></p>
                    <p>This link expires in <strong>%d minutes</strong>.</p>
                    <p>If you did not request a password reset, you can safely ignore this email.</p>
                    <p>Thank you,</p>
                    <p>The DR Bijoux Team</p>
                </div>
                <div class="footer">
                    <p>&copy; 2025 DR Bijoux. All rights reserved.</p>
                </div>
            </div>
        </body>
        </html>
    `, resetURL, expiryMinutes)
}
