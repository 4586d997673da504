package eligibility

import (
	"errors"
	"fmt"
	"testing"
)

// buildNationalID appends the correct check digit to nine body digits.
func buildNationalID(body string) string {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(body[i]-'0') * (10 - i)
	}
	remainder := sum % 11
	check := remainder
	if remainder >= 2 {
		check = 11 - remainder
	}

	return body + fmt.Sprintf("%d", check)
}

func TestValidateNationalID_Valid(t *testing.T) {
	bodies := []string{"123456789", "006827140", "998765432", "045678912"}
	for _, body := range bodies {
		nid := buildNationalID(body)
		if err := ValidateNationalID(nid); err != nil {
			t.Fatalf("expected %s to be valid: %v", nid, err)
		}
	}
}

func TestValidateNationalID_FlippedCheckDigit(t *testing.T) {
	nid := buildNationalID("123456789")
	flipped := nid[:9] + string('0'+(nid[9]-'0'+1)%10)

	if err := ValidateNationalID(flipped); !errors.Is(err, ErrInvalidNationalID) {
		t.Fatalf("expected ErrInvalidNationalID for %s, got %v", flipped, err)
	}
}

func TestValidateNationalID_RepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		nid := ""
		for i := 0; i < 10; i++ {
			nid += string(d)
		}
		if err := ValidateNationalID(nid); !errors.Is(err, ErrInvalidNationalID) {
			t.Fatalf("expected %s to be rejected, got %v", nid, err)
		}
	}
}

func TestValidateNationalID_Format(t *testing.T) {
	bad := []string{"", "123", "12345678901", "12345abc90", "۱۲۳۴۵۶۷۸۹۰"}
	for _, nid := range bad {
		if err := ValidateNationalID(nid); !errors.Is(err, ErrInvalidNationalID) {
			t.Fatalf("expected %q to be rejected, got %v", nid, err)
		}
	}
}
