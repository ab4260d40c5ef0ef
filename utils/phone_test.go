package utils

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{"0912345678", "091 234 5678", "+84 912 345 678", "0387654321"}
	for _, p := range valid {
		if !ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	invalid := []string{"", "12345", "0212345678", "09123456789", "+1 555 123 4567"}
	for _, p := range invalid {
		if ValidatePhoneNumber(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestNormalizeAndDisplayPhoneNumber(t *testing.T) {
	if got := NormalizePhoneNumber("091-234-5678"); got != "84912345678" {
		t.Fatalf("unexpected normalized number %s", got)
	}
	if got := DisplayPhoneNumber("0912345678"); got != "+84 912 345 678" {
		t.Fatalf("unexpected display number %s", got)
	}
}
