package utils

import (
	"errors"
	"regexp"
	"strings"
)

// Supplier tax-id validation. India gets the full GSTIN structural check
// including the check digit; other supported countries get format rules.

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

const gstinAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ValidateGSTIN checks the 15-character Indian GST number: state code,
// embedded PAN, entity code, the literal Z, and the weighted check digit.
func ValidateGSTIN(gstin string) error {
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if len(gstin) != 15 {
		return errors.New("GSTIN must be 15 characters")
	}
	if !gstinPattern.MatchString(gstin) {
		return errors.New("GSTIN format is invalid")
	}

	sum := 0
	for i, r := range gstin[:14] {
		v := strings.IndexRune(gstinAlphabet, r)
		if v < 0 {
			return errors.New("GSTIN contains invalid characters")
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		product := v * factor
		sum += product/36 + product%36
	}
	check := (36 - sum%36) % 36
	if gstinAlphabet[check] != gstin[14] {
		return errors.New("GSTIN check digit mismatch")
	}
	return nil
}

var taxIdRules = map[string]*regexp.Regexp{
	"AE": regexp.MustCompile(`^[0-9]{15}$`),         // TRN
	"GB": regexp.MustCompile(`^[0-9]{9}$`),          // VAT
	"SG": regexp.MustCompile(`^[0-9]{8,9}[A-Z]$`),   // GST reg no
	"SA": regexp.MustCompile(`^[0-9]{15}$`),         // VAT
	"QA": regexp.MustCompile(`^[0-9]{10}$`),         // TIN
	"TH": regexp.MustCompile(`^[0-9]{13}$`),         // TIN
	"MY": regexp.MustCompile(`^[A-Z0-9]{10,14}$`),   // SST
	"EU": regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]+$`), // generic VAT
}

// ValidateTaxId validates a supplier tax identifier for the given ISO
// country code. Unknown countries only require a non-empty value.
func ValidateTaxId(countryCode, taxId string) error {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	taxId = strings.ToUpper(strings.TrimSpace(taxId))
	if taxId == "" {
		return errors.New("tax id is required")
	}
	if countryCode == "IN" {
		return ValidateGSTIN(taxId)
	}
	if rule, ok := taxIdRules[countryCode]; ok {
		if !rule.MatchString(taxId) {
			return errors.New("tax id format is invalid for " + countryCode)
		}
	}
	return nil
}
