// Package spk writes NAIF DAF/SPK kernels containing type-9 segments
// (Lagrange-interpolated, unequally-spaced states), and provides a
// companion Reader restricted to type-9 segments so written kernels can
// be verified in-process. The on-disk layout follows the classic DAF
// physical record structure: an 8.8-byte-aligned file record, a
// reserved comment area, a chain of summary records (each paired with
// a preceding name record holding its segments' identifier strings),
// and a data area holding each segment's state matrix, epoch vector,
// and trailer.
package spk

const (
	recordLen = 1024 // bytes per DAF physical record
	nd        = 2     // doubles per summary: segment start/end et
	ni        = 6     // ints per summary: target, center, frame, type, start word, end word

	locidw = "DAF/SPK "
	locfmt = "LTL-IEEE"

	frameJ2000  = 1 // NAIF frame code for J2000
	dataTypeSPK = 9

	interpDegree = 7 // degree-7 Lagrange interpolation, per prior art

	minCommentBytes = 256
)

// summaryWords is the number of double-precision words one summary
// occupies: nd doubles plus ni 32-bit ints packed two-per-double.
const summaryWords = nd + (ni+1)/2

// summariesPerRecord is how many summaries fit in one 1024-byte summary
// record after its 3-word control area (next, previous, count).
const summariesPerRecord = (recordLen/8 - 3) / summaryWords

// nameWidth is the width in bytes of one segment identifier entry in a
// name record: the DAF convention pairs every summary record with a
// preceding name record holding one fixed-width, space-padded string
// per summary, the same byte-width as the summary itself.
const nameWidth = summaryWords * 8

// DownsampleStep returns the stride used to down-sample a trajectory
// for a given "fraction to save", fts. step = floor(1/fts), so fts=1.0
// keeps every sample, fts=0.5 keeps every second sample, and — as
// preserved from prior art for compatibility — fts=0.9 also keeps every
// sample (floor(1/0.9) == 1): this asymmetry is surprising but
// intentional.
func DownsampleStep(fts float64) int {
	step := int(1.0 / fts)
	if step < 1 {
		step = 1
	}
	return step
}

// Downsample returns every step-th element of ets/states, including
// index 0.
func Downsample(ets []float64, states [][]float64, step int) ([]float64, [][]float64) {
	var outETs []float64
	var outStates [][]float64
	for i := 0; i < len(ets); i += step {
		outETs = append(outETs, ets[i])
		outStates = append(outStates, states[i])
	}
	return outETs, outStates
}
