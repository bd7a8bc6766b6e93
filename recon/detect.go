package recon

import "sort"

// Detect compares two sources' daily figures for one outlet and flags
// every (outlet, day) present in both where the amounts differ. Days
// present in only one source are not discrepancies. The result is
// symmetric up to source labels: swapping a and b swaps AmountA/AmountB
// but yields the same days and the same absolute differences.
func Detect(a, b []SourceFigure, outletID string) []Discrepancy {
	byDate := make(map[string]SourceFigure, len(b))
	for _, f := range b {
		if f.OutletID != outletID {
			continue
		}
		byDate[f.Date] = f
	}

	var out []Discrepancy
	for _, fa := range a {
		if fa.OutletID != outletID {
			continue
		}
		fb, ok := byDate[fa.Date]
		if !ok {
			continue
		}
		if fa.Amount.Equal(fb.Amount) {
			continue
		}
		out = append(out, Discrepancy{
			OutletID:   outletID,
			Date:       fa.Date,
			SourceA:    fa.Source,
			SourceB:    fb.Source,
			AmountA:    fa.Amount,
			AmountB:    fb.Amount,
			Difference: fa.Amount.Sub(fb.Amount).Abs(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
