package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendDepositReceipt emails a confirmation for a completed mobile-money deposit.
func SendDepositReceipt(email string, amountUGX float64, reference string) {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "MiniSente Deposit Confirmed")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your deposit of UGX %.0f has been received.\nReference: %s\n\nThank you for using MiniSente.",
		amountUGX, reference))

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send deposit receipt to %s: %v", email, err)
		return
	}

	log.Printf("Deposit receipt sent to %s", email)
}
