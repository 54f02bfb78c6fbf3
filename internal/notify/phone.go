package notify

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone parses raw in the context of region (ISO 3166 alpha-2, e.g. "IN") and
// returns it in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("phone number is empty")
	}
	p, err := libphonenumber.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

// RecipientFor builds a recipient from an account, dropping a phone number that does not
// normalize.
func RecipientFor(name, accountID, email, phone, region string) Recipient {
	r := Recipient{AccountID: accountID, Name: name, Email: email}
	if phone != "" {
		if e164, err := NormalizePhone(phone, region); err == nil {
			r.Phone = e164
		}
	}
	return r
}
