package validator

import "testing"

func TestValidMobile(t *testing.T) {
	valid := []string{"13812345678", "19987654321", "15000000000"}
	for _, phone := range valid {
		if !ValidMobile(phone) {
			t.Errorf("ValidMobile(%q) = false, want true", phone)
		}
	}

	invalid := []string{"", "12812345678", "1381234567", "138123456789", "23812345678", "phone-number"}
	for _, phone := range invalid {
		if ValidMobile(phone) {
			t.Errorf("ValidMobile(%q) = true, want false", phone)
		}
	}
}
