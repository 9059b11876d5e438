package spk

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// segmentPayload is one type-9 segment ready to be laid out on disk:
// target/center identify the bodies, ets the (already down-sampled)
// epoch samples, and states the matching 6-vectors in km and km/s,
// already expressed relative to center.
type segmentPayload struct {
	target, center int32
	ets            []float64
	states         [][6]float64
}

// Write down-samples the propagated trajectory by fts, re-centers every
// non-center body onto cbID, and writes one SPK type-9 segment per
// target body to path. If path already names an existing kernel, its
// segments are preserved and the new ones are appended to them in the
// rewritten file — true DAF in-place append is not implemented, so the
// whole file is reconstructed with old and new segments combined.
func Write(path string, bodies []int32, ets []float64, states [][]float64, cbID int32, fts float64) error {
	if fts <= 0 || fts > 1 {
		return &WriteError{Stage: "open", Cause: &BadFractionError{Fts: fts}}
	}
	step := DownsampleStep(fts)
	dsETs, dsStates := Downsample(ets, states, step)

	var existing []segmentPayload
	if _, err := os.Stat(path); err == nil {
		r, err := Open(path)
		if err != nil {
			return &WriteError{Stage: "open", Cause: err}
		}
		existing = r.segments
	}

	var cbMatrix [][3]float64
	var cbVel [][3]float64
	centerIndex := -1
	for i, id := range bodies {
		if id == cbID {
			centerIndex = i
			break
		}
	}
	if centerIndex >= 0 {
		cbMatrix = make([][3]float64, len(dsStates))
		cbVel = make([][3]float64, len(dsStates))
		for k, y := range dsStates {
			base := 6 * centerIndex
			cbMatrix[k] = [3]float64{y[base] / 1000, y[base+1] / 1000, y[base+2] / 1000}
			cbVel[k] = [3]float64{y[base+3] / 1000, y[base+4] / 1000, y[base+5] / 1000}
		}
	}

	var fresh []segmentPayload
	for i, id := range bodies {
		if id == cbID {
			continue
		}
		seg := segmentPayload{target: id, center: cbID, ets: dsETs, states: make([][6]float64, len(dsStates))}
		base := 6 * i
		for k, y := range dsStates {
			var s [6]float64
			s[0], s[1], s[2] = y[base]/1000, y[base+1]/1000, y[base+2]/1000
			s[3], s[4], s[5] = y[base+3]/1000, y[base+4]/1000, y[base+5]/1000
			if cbMatrix != nil {
				s[0] -= cbMatrix[k][0]
				s[1] -= cbMatrix[k][1]
				s[2] -= cbMatrix[k][2]
				s[3] -= cbVel[k][0]
				s[4] -= cbVel[k][1]
				s[5] -= cbVel[k][2]
			}
			seg.states[k] = s
		}
		fresh = append(fresh, seg)
	}

	all := append(existing, fresh...)
	buf, err := buildFile(all)
	if err != nil {
		return &WriteError{Stage: "write-segment", Cause: err}
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return &WriteError{Stage: "close", Cause: err}
	}
	return nil
}

// buildFile lays out the full DAF/SPK byte image for the given
// segments: a file record, a reserved comment area of at least
// minCommentBytes, a summary-record chain, and a data area holding
// each segment's state matrix, epoch vector, and (degree, n) trailer.
func buildFile(segments []segmentPayload) ([]byte, error) {
	commentRecords := (minCommentBytes + recordLen - 1) / recordLen
	afterComment := 2 + commentRecords

	nSummaries := len(segments)
	nSummaryRecords := 1
	if nSummaries > 0 {
		nSummaryRecords = (nSummaries + summariesPerRecord - 1) / summariesPerRecord
	}

	// Every summary record is paired with a preceding name record holding
	// one fixed-width identifier string per summary in that record, so
	// the chain consumes two physical records per summary record.
	fward := afterComment + 1

	dataStartRecord := afterComment + 2*nSummaryRecords
	dataStartWord := (dataStartRecord-1)*(recordLen/8) + 1

	type placed struct {
		segmentPayload
		startWord, endWord int
	}
	placedSegs := make([]placed, len(segments))
	word := dataStartWord
	for i, seg := range segments {
		n := len(seg.ets)
		nWords := 6*n + n + 2
		placedSegs[i] = placed{segmentPayload: seg, startWord: word, endWord: word + nWords - 1}
		word += nWords
	}
	totalWords := word - 1
	totalBytes := totalWords * 8
	totalBytes = ((totalBytes + recordLen - 1) / recordLen) * recordLen

	buf := make([]byte, totalBytes)

	bward := fward + 2*(nSummaryRecords-1)
	writeFileRecord(buf, fward, bward, word)
	writeCommentArea(buf, commentRecords)

	for recIdx := 0; recIdx < nSummaryRecords; recIdx++ {
		nameRecNum := afterComment + 2*recIdx
		recNum := nameRecNum + 1
		nameOff := (nameRecNum - 1) * recordLen
		off := (recNum - 1) * recordLen
		lo := recIdx * summariesPerRecord
		hi := lo + summariesPerRecord
		if hi > len(placedSegs) {
			hi = len(placedSegs)
		}
		next := 0.0
		if recIdx < nSummaryRecords-1 {
			next = float64(recNum + 2)
		}
		prev := 0.0
		if recIdx > 0 {
			prev = float64(recNum - 2)
		}
		putFloat64(buf, off, next)
		putFloat64(buf, off+8, prev)
		putFloat64(buf, off+16, float64(hi-lo))
		pos := off + 24
		namePos := nameOff
		for _, p := range placedSegs[lo:hi] {
			pos = writeSummary(buf, pos, p.segmentPayload, p.startWord, p.endWord)
			namePos = writeNameRecord(buf, namePos, p.segmentPayload)
		}
	}

	for _, p := range placedSegs {
		byteOff := (p.startWord - 1) * 8
		for _, s := range p.states {
			for _, v := range s {
				putFloat64(buf, byteOff, v)
				byteOff += 8
			}
		}
		for _, et := range p.ets {
			putFloat64(buf, byteOff, et)
			byteOff += 8
		}
		putFloat64(buf, byteOff, float64(interpDegree))
		byteOff += 8
		putFloat64(buf, byteOff, float64(len(p.ets)))
	}

	return buf, nil
}

func writeFileRecord(buf []byte, fward, bward, freeWord int) {
	copy(buf[0:8], locidw)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(nd))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(ni))
	name := "Propagated"
	copy(buf[16:76], name)
	for i := 16 + len(name); i < 76; i++ {
		buf[i] = ' '
	}
	binary.LittleEndian.PutUint32(buf[76:80], uint32(fward))
	binary.LittleEndian.PutUint32(buf[80:84], uint32(bward))
	binary.LittleEndian.PutUint32(buf[84:88], uint32(freeWord))
	copy(buf[88:96], locfmt)
}

func writeCommentArea(buf []byte, commentRecords int) {
	comment := fmt.Sprintf("Propagated SPK kernel, type-9 segments, interpolation degree %d.", interpDegree)
	off := recordLen
	copy(buf[off:off+commentRecords*recordLen], comment)
}

// writeSummary writes one type-9 summary (start/end et, then the six
// packed integer fields) at byte offset pos and returns the offset of
// the next summary slot.
func writeSummary(buf []byte, pos int, seg segmentPayload, startWord, endWord int) int {
	putFloat64(buf, pos, seg.ets[0])
	putFloat64(buf, pos+8, seg.ets[len(seg.ets)-1])
	intOff := pos + nd*8
	binary.LittleEndian.PutUint32(buf[intOff:], uint32(seg.target))
	binary.LittleEndian.PutUint32(buf[intOff+4:], uint32(seg.center))
	binary.LittleEndian.PutUint32(buf[intOff+8:], uint32(frameJ2000))
	binary.LittleEndian.PutUint32(buf[intOff+12:], uint32(dataTypeSPK))
	binary.LittleEndian.PutUint32(buf[intOff+16:], uint32(startWord))
	binary.LittleEndian.PutUint32(buf[intOff+20:], uint32(endWord))
	return pos + summaryWords*8
}

// writeNameRecord writes one segment's identifier string
// ("Position of <target> relative to <center>") into its name-record
// slot at byte offset pos, space-padded to nameWidth bytes, and returns
// the offset of the next slot.
func writeNameRecord(buf []byte, pos int, seg segmentPayload) int {
	ident := fmt.Sprintf("Position of %d relative to %d", seg.target, seg.center)
	if len(ident) > nameWidth {
		ident = ident[:nameWidth]
	}
	copy(buf[pos:pos+nameWidth], ident)
	for i := pos + len(ident); i < pos+nameWidth; i++ {
		buf[i] = ' '
	}
	return pos + nameWidth
}

func putFloat64(buf []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
}
