package utils

import "testing"

func TestValidateGSTIN(t *testing.T) {
	cases := []struct {
		gstin   string
		wantErr bool
	}{
		{"27AAPFU0939F1ZV", false},
		{"27aapfu0939f1zv", false}, // case-insensitive
		{" 27AAPFU0939F1ZV ", false},
		{"27AAPFU0939F1ZZ", true}, // wrong check digit
		{"27AAPFU0939F1YV", true}, // missing literal Z
		{"27AAPFU0939F1Z", true},  // short
		{"", true},
		{"27AAPFU0939F1ZVX", true},
	}
	for _, c := range cases {
		err := ValidateGSTIN(c.gstin)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateGSTIN(%q) err=%v, wantErr=%v", c.gstin, err, c.wantErr)
		}
	}
}

func TestValidateTaxId(t *testing.T) {
	cases := []struct {
		country string
		taxId   string
		wantErr bool
	}{
		{"IN", "27AAPFU0939F1ZV", false},
		{"IN", "27AAPFU0939F1ZZ", true},
		{"AE", "123456789012345", false},
		{"AE", "12345", true},
		{"GB", "123456789", false},
		{"GB", "12345678", true},
		{"TH", "1234567890123", false},
		{"XX", "anything", false}, // unknown country: presence only
		{"XX", "", true},
	}
	for _, c := range cases {
		err := ValidateTaxId(c.country, c.taxId)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateTaxId(%q, %q) err=%v, wantErr=%v", c.country, c.taxId, err, c.wantErr)
		}
	}
}
