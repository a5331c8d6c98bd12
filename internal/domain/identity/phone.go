package identity

import (
	"strconv"
	"strings"

	"github.com/billbook/backend/internal/domain/shared"
	"github.com/ttacon/libphonenumber"
)

// MobileRegion is the region mobile numbers are parsed against
const MobileRegion = "IN"

// ErrInvalidMobile is returned for numbers that are not valid Indian mobiles
var ErrInvalidMobile = shared.NewDomainError("INVALID_MOBILE", "Mobile number must be a valid 10-digit Indian number")

// NormalizeMobile parses an Indian mobile number in any common notation
// ("98765 43210", "+91-9876543210", "09876543210") and returns its ten
// national digits.
func NormalizeMobile(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidMobile
	}
	num, err := libphonenumber.Parse(raw, MobileRegion)
	if err != nil {
		return "", ErrInvalidMobile
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidMobile
	}
	national := strconv.FormatUint(num.GetNationalNumber(), 10)
	if len(national) != 10 {
		return "", ErrInvalidMobile
	}
	return national, nil
}

// IsValidMobile reports whether raw normalizes to a 10-digit Indian number
func IsValidMobile(raw string) bool {
	_, err := NormalizeMobile(raw)
	return err == nil
}
