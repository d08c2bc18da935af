package utils

import (
	"fmt"
	"net/smtp"

	"edupay/config"
)

// SendEmail sends an HTML email via SMTP
func SendEmail(to []string, subject, body string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	header := "Subject: " + subject + "\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	message := []byte(header + "\n" + body)

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, message); err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendPaymentReceiptEmail mails a receipt after a payment is verified
func SendPaymentReceiptEmail(email, userName, courseName string, amount uint, videoAccess string) error {
	accessLabel := "full course access"
	switch videoAccess {
	case VideoAccessFirst4:
		accessLabel = "access to the first 4 videos"
	case VideoAccessFirst8:
		accessLabel = "access to the first 8 videos"
	}

	subject := "Payment Received - Course Access Unlocked"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f9; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">Payment Successful!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">We have received your payment of <strong>&#8377;%d</strong> for:</p>
					<h3 style="text-align: center; color: #1e51fa; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">You now have %s. Open the course to start learning.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">Thank you for learning with us.</p>
				</div>
			</body>
		</html>
	`, userName, amount, courseName, accessLabel)

	return SendEmail([]string{email}, subject, body)
}
