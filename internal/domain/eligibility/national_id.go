package eligibility

import "fmt"

// ValidateNationalID checks the 10-digit national ID checksum: the first
// nine digits are weighted 10 down to 2, summed mod 11; the check digit
// equals the remainder when it is below 2, otherwise 11 minus it.
// All-identical digit strings are rejected outright.
func ValidateNationalID(nid string) error {
	if len(nid) != 10 {
		return fmt.Errorf("%w: must be exactly 10 digits", ErrInvalidNationalID)
	}

	allSame := true
	for i := 0; i < 10; i++ {
		if nid[i] < '0' || nid[i] > '9' {
			return fmt.Errorf("%w: must be exactly 10 digits", ErrInvalidNationalID)
		}
		if nid[i] != nid[0] {
			allSame = false
		}
	}
	if allSame {
		return fmt.Errorf("%w: repeated digits", ErrInvalidNationalID)
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(nid[i]-'0') * (10 - i)
	}

	remainder := sum % 11
	check := int(nid[9] - '0')
	if remainder < 2 {
		if check != remainder {
			return fmt.Errorf("%w: checksum mismatch", ErrInvalidNationalID)
		}
		return nil
	}
	if check != 11-remainder {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidNationalID)
	}

	return nil
}
