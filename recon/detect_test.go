package recon

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fig(outlet, date, source, amount string) SourceFigure {
	return SourceFigure{OutletID: outlet, Date: date, Source: source, Amount: decimal.RequireFromString(amount)}
}

func TestDetectMismatch(t *testing.T) {
	ledger := []SourceFigure{fig("o-1", "2024-03-01", "ledger", "1000")}
	bank := []SourceFigure{fig("o-1", "2024-03-01", "bank", "950")}

	got := Detect(ledger, bank, "o-1")
	if len(got) != 1 {
		t.Fatalf("discrepancies = %d, want 1", len(got))
	}
	d := got[0]
	if d.Difference.String() != "50" {
		t.Errorf("difference = %s, want 50", d.Difference)
	}
	if d.SourceA != "ledger" || d.SourceB != "bank" {
		t.Errorf("sources = %s/%s", d.SourceA, d.SourceB)
	}
}

func TestDetectSymmetry(t *testing.T) {
	a := []SourceFigure{
		fig("o-1", "2024-03-01", "ledger", "1000"),
		fig("o-1", "2024-03-02", "ledger", "400"),
	}
	b := []SourceFigure{
		fig("o-1", "2024-03-01", "bank", "950"),
		fig("o-1", "2024-03-02", "bank", "400"),
	}

	ab := Detect(a, b, "o-1")
	ba := Detect(b, a, "o-1")
	if len(ab) != len(ba) {
		t.Fatalf("asymmetric counts: %d vs %d", len(ab), len(ba))
	}
	for i := range ab {
		if ab[i].Date != ba[i].Date || !ab[i].Difference.Equal(ba[i].Difference) {
			t.Errorf("asymmetric at %d: %+v vs %+v", i, ab[i], ba[i])
		}
	}
}

func TestDetectSingleSidedIgnored(t *testing.T) {
	a := []SourceFigure{
		fig("o-1", "2024-03-01", "ledger", "1000"),
		fig("o-1", "2024-03-03", "ledger", "500"),
	}
	b := []SourceFigure{fig("o-1", "2024-03-01", "bank", "1000")}

	if got := Detect(a, b, "o-1"); len(got) != 0 {
		t.Errorf("single-sided or matching days flagged: %+v", got)
	}
}

func TestDetectOutletScoped(t *testing.T) {
	a := []SourceFigure{
		fig("o-1", "2024-03-01", "ledger", "1000"),
		fig("o-2", "2024-03-01", "ledger", "777"),
	}
	b := []SourceFigure{
		fig("o-1", "2024-03-01", "bank", "900"),
		fig("o-2", "2024-03-01", "bank", "111"),
	}
	got := Detect(a, b, "o-1")
	if len(got) != 1 || got[0].OutletID != "o-1" {
		t.Errorf("cross-outlet pairing: %+v", got)
	}
}

func TestDetectSortedByDate(t *testing.T) {
	a := []SourceFigure{
		fig("o-1", "2024-03-05", "ledger", "10"),
		fig("o-1", "2024-03-01", "ledger", "20"),
	}
	b := []SourceFigure{
		fig("o-1", "2024-03-05", "bank", "11"),
		fig("o-1", "2024-03-01", "bank", "21"),
	}
	got := Detect(a, b, "o-1")
	if len(got) != 2 || got[0].Date != "2024-03-01" || got[1].Date != "2024-03-05" {
		t.Errorf("not date-ordered: %+v", got)
	}
}

func TestFingerprintStable(t *testing.T) {
	d := Discrepancy{
		OutletID: "o-1", Date: "2024-03-01",
		SourceA: "ledger", SourceB: "bank",
		AmountA: decimal.NewFromInt(1000), AmountB: decimal.NewFromInt(950),
	}
	if d.Fingerprint() != d.Fingerprint() {
		t.Error("fingerprint not deterministic")
	}
	d2 := d
	d2.AmountB = decimal.NewFromInt(900)
	if d.Fingerprint() == d2.Fingerprint() {
		t.Error("different figures share a fingerprint")
	}
}
