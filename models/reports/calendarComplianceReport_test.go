package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
)

func TestBuildComplianceGrid(t *testing.T) {
	required := []models.DocumentType{
		models.DocumentTypeSalesReport,
		models.DocumentTypeVendorInvoice,
	}
	present := map[string][]models.DocumentType{
		"2024-02-01": {models.DocumentTypeSalesReport, models.DocumentTypeVendorInvoice},
		"2024-02-02": {models.DocumentTypeSalesReport},
	}
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

	days := BuildComplianceGrid(2024, time.February, time.UTC, required, present, now)

	// 2024 is a leap year.
	if len(days) != 29 {
		t.Fatalf("len(days) = %d, want 29", len(days))
	}

	byDate := make(map[string]CalendarDay)
	for _, d := range days {
		byDate[d.Date] = d
	}

	if got := byDate["2024-02-01"].State; got != models.ComplianceComplete {
		t.Errorf("day 1 state = %s, want complete", got)
	}
	if got := byDate["2024-02-02"].State; got != models.CompliancePartial {
		t.Errorf("day 2 state = %s, want partial", got)
	}
	if got := byDate["2024-02-03"].State; got != models.ComplianceMissing {
		t.Errorf("day 3 state = %s, want missing", got)
	}
	if got := byDate["2024-02-10"].State; got != models.ComplianceMissing {
		t.Errorf("today state = %s, want missing", got)
	}
	if got := byDate["2024-02-11"].State; got != models.ComplianceFuture {
		t.Errorf("tomorrow state = %s, want future", got)
	}

	if missing := byDate["2024-02-02"].Missing; len(missing) != 1 || missing[0] != models.DocumentTypeVendorInvoice {
		t.Errorf("day 2 missing = %v", missing)
	}
}

func TestBuildComplianceGridNoRequirements(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	days := BuildComplianceGrid(2024, time.March, time.UTC, nil, nil, now)
	if len(days) != 31 {
		t.Fatalf("len(days) = %d, want 31", len(days))
	}
	for _, d := range days {
		if d.Date <= "2024-03-15" && d.State != models.ComplianceComplete {
			t.Errorf("%s state = %s, want complete when nothing is required", d.Date, d.State)
		}
	}
}
