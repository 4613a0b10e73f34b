/*
Package upi builds UPI deep links for member payouts.

PURPOSE:
  A payment link encodes the payee address and display name in the
  upi:// scheme understood by Indian payment apps. The Paytm variant
  uses the paytmmp:// scheme, which routes straight into the Paytm app
  on devices that have it installed.

LINKS CARRY NO AMOUNT:
  The admin enters the amount in the payment app after following the
  link, so the link stays valid regardless of how many days the member
  worked.
*/
package upi

import (
	"errors"
	"net/url"
)

// ErrNoUPIID is returned when a member has no UPI address on file.
var ErrNoUPIID = errors.New("upi: member has no UPI ID")

// PayLink returns a generic upi:// payment link for the given payee.
func PayLink(upiID, payeeName string) (string, error) {
	return link("upi", upiID, payeeName)
}

// PaytmLink returns a Paytm-specific payment link for the given payee.
func PaytmLink(upiID, payeeName string) (string, error) {
	return link("paytmmp", upiID, payeeName)
}

func link(scheme, upiID, payeeName string) (string, error) {
	if upiID == "" {
		return "", ErrNoUPIID
	}
	q := url.Values{}
	q.Set("pa", upiID)
	if payeeName != "" {
		q.Set("pn", payeeName)
	}
	q.Set("cu", "INR")
	return scheme + "://pay?" + q.Encode(), nil
}
