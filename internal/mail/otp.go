package mail

import (
	"fmt"
	"time"
)

const otpSubject = "Your bizdata login code"

// OTPMessage renders the login code email for email.
func OTPMessage(email, code string, expiresAt time.Time) Message {
	body := fmt.Sprintf(
		"Your login code is %s\r\n\r\n"+
			"It expires at %s and can only be used once.\r\n"+
			"If you did not request it, ignore this email.\r\n",
		code,
		expiresAt.UTC().Format(time.RFC1123),
	)
	return Message{To: email, Subject: otpSubject, Body: body}
}
