package spk

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Reader is a minimal DAF/SPK reader restricted to type-9 segments,
// structured as the mirror image of Write: it walks the same file
// record / summary-record chain / data area layout Write produces.
// It exists so the propagator's own kernels can be verified in-process,
// not as a general-purpose SPK reader.
type Reader struct {
	segments []segmentPayload
}

// Open reads and parses an SPK file containing only type-9 segments.
func Open(filename string) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fileRec := make([]byte, recordLen)
	if _, err := f.Read(fileRec); err != nil {
		return nil, fmt.Errorf("spk: reading file record: %w", err)
	}
	if string(fileRec[0:8]) != locidw {
		return nil, fmt.Errorf("spk: not a DAF/SPK file: got %q", fileRec[0:8])
	}
	gotND := int(binary.LittleEndian.Uint32(fileRec[8:12]))
	gotNI := int(binary.LittleEndian.Uint32(fileRec[12:16]))
	if gotND != nd || gotNI != ni {
		return nil, fmt.Errorf("spk: unsupported summary shape ND=%d NI=%d", gotND, gotNI)
	}
	fward := int(binary.LittleEndian.Uint32(fileRec[76:80]))

	r := &Reader{}
	recNum := fward
	for recNum != 0 {
		off := int64(recNum-1) * recordLen
		if _, err := f.Seek(off, 0); err != nil {
			return nil, err
		}
		rec := make([]byte, recordLen)
		if _, err := f.Read(rec); err != nil {
			return nil, fmt.Errorf("spk: reading summary record %d: %w", recNum, err)
		}
		next := math.Float64frombits(binary.LittleEndian.Uint64(rec[0:8]))
		count := int(math.Float64frombits(binary.LittleEndian.Uint64(rec[16:24])))

		pos := 24
		for i := 0; i < count; i++ {
			intOff := pos + nd*8
			target := int32(binary.LittleEndian.Uint32(rec[intOff:]))
			center := int32(binary.LittleEndian.Uint32(rec[intOff+4:]))
			dataType := int32(binary.LittleEndian.Uint32(rec[intOff+12:]))
			startWord := int(binary.LittleEndian.Uint32(rec[intOff+16:]))
			endWord := int(binary.LittleEndian.Uint32(rec[intOff+20:]))
			if dataType != dataTypeSPK {
				return nil, fmt.Errorf("spk: unsupported segment type %d for body %d", dataType, target)
			}

			nWords := endWord - startWord + 1
			if _, err := f.Seek(int64(startWord-1)*8, 0); err != nil {
				return nil, err
			}
			raw := make([]byte, nWords*8)
			if _, err := f.Read(raw); err != nil {
				return nil, fmt.Errorf("spk: reading segment data for body %d: %w", target, err)
			}
			words := make([]float64, nWords)
			for j := range words {
				words[j] = math.Float64frombits(binary.LittleEndian.Uint64(raw[j*8 : j*8+8]))
			}

			n := int(words[nWords-1])
			seg := segmentPayload{target: target, center: center, ets: make([]float64, n), states: make([][6]float64, n)}
			for k := 0; k < n; k++ {
				var s [6]float64
				copy(s[:], words[6*k:6*k+6])
				seg.states[k] = s
			}
			copy(seg.ets, words[6*n:6*n+n])
			r.segments = append(r.segments, seg)

			pos += summaryWords * 8
		}

		recNum = int(next)
	}

	return r, nil
}

// Position returns the interpolated position (km) of target relative
// to its segment's center at et, via Lagrange interpolation over the
// degree+1 stored samples nearest et. If et exactly matches a stored
// epoch, the interpolation reproduces that sample exactly.
func (r *Reader) Position(target int32, et float64) ([3]float64, error) {
	seg := r.find(target)
	if seg == nil {
		return [3]float64{}, fmt.Errorf("spk: no segment for body %d", target)
	}
	window := lagrangeWindow(seg.ets, et, interpDegree+1)
	var pos [3]float64
	for _, idx := range window {
		l := lagrangeBasis(seg.ets, window, idx, et)
		for k := 0; k < 3; k++ {
			pos[k] += l * seg.states[idx][k]
		}
	}
	return pos, nil
}

func (r *Reader) find(target int32) *segmentPayload {
	for i := range r.segments {
		if r.segments[i].target == target {
			return &r.segments[i]
		}
	}
	return nil
}

// lagrangeWindow picks up to size indices of ets nearest to et,
// preserving ascending order.
func lagrangeWindow(ets []float64, et float64, size int) []int {
	if size > len(ets) {
		size = len(ets)
	}
	center := 0
	best := math.Abs(ets[0] - et)
	for i, t := range ets {
		if d := math.Abs(t - et); d < best {
			best = d
			center = i
		}
	}
	lo := center - size/2
	if lo < 0 {
		lo = 0
	}
	hi := lo + size
	if hi > len(ets) {
		hi = len(ets)
		lo = hi - size
		if lo < 0 {
			lo = 0
		}
	}
	idx := make([]int, hi-lo)
	for i := range idx {
		idx[i] = lo + i
	}
	return idx
}

func lagrangeBasis(ets []float64, window []int, i int, et float64) float64 {
	l := 1.0
	ti := ets[i]
	for _, j := range window {
		if j == i {
			continue
		}
		l *= (et - ets[j]) / (ti - ets[j])
	}
	return l
}
