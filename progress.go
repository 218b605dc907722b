package loadcontig

import "math/bits"

// Progress receives the completion percentage of a load. Updates are in
// [0, 100], never decrease, and a successful load always ends with 100.
// Reporting is best effort: a Progress cannot fail a load.
type Progress interface {
	Update(pct int)
}

// ProgressFunc adapts a function to a Progress.
type ProgressFunc func(pct int)

// Update calls f(pct).
func (f ProgressFunc) Update(pct int) { f(pct) }

type noProgress struct{}

func (noProgress) Update(int) {}

// percent returns floor(100 * loaded / total) without overflowing, or 100
// when total is zero. It requires loaded <= total.
func percent(loaded, total uint64) int {
	if total == 0 {
		return 100
	}
	hi, lo := bits.Mul64(loaded, 100)
	pct, _ := bits.Div64(hi, lo, total)
	return int(pct)
}
