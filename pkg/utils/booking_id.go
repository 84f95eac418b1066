package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const bookingIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var bookingIDPattern = regexp.MustCompile(`^BK-[A-Z0-9]{4}-[0-9]{1,3}$`)

// GenerateBookingID returns a short customer facing id like BK-7Q2M-481.
func GenerateBookingID() (string, error) {
	code := make([]byte, 4)
	max := big.NewInt(int64(len(bookingIDCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = bookingIDCharset[n.Int64()]
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("BK-%s-%d", code, suffix.Int64()), nil
}

func IsBookingID(id string) bool {
	return bookingIDPattern.MatchString(id)
}
