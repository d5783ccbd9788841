package sourcemap

import (
	"fmt"
	"strings"
)

var base64Chars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

var base64Values = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i, c := range base64Chars {
		t[c] = int8(i)
	}
	return t
}()

// Each base64 digit carries 5 bits of payload plus a continuation bit, the
// lowest payload bit of the whole quantity is the sign.
func appendVLQ(dst []byte, value int32) []byte {
	var vlq int32
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}
	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		dst = append(dst, base64Chars[digit])
		if vlq == 0 {
			return dst
		}
	}
}

func decodeVLQ(s string, start int) (int32, int, error) {
	shift := 0
	var vlq int32
	for {
		if start >= len(s) {
			return 0, start, fmt.Errorf("truncated VLQ at offset %d", start)
		}
		digit := base64Values[s[start]]
		if digit < 0 {
			return 0, start, fmt.Errorf("invalid VLQ digit %q at offset %d", s[start], start)
		}
		start++
		vlq |= int32(digit&31) << shift
		shift += 5
		if digit&32 == 0 {
			break
		}
	}
	value := vlq >> 1
	if vlq&1 != 0 {
		value = -value
	}
	return value, start, nil
}

func segmentEnd(s string, i int) bool {
	return i >= len(s) || s[i] == ',' || s[i] == ';'
}

// decodeMappings expands the delta encoded "mappings" field. Generated lines
// are separated by ';', segments within a line by ','.
func decodeMappings(s string) ([]Mapping, error) {
	var (
		out      []Mapping
		line     int32
		col      int32
		srcIdx   int32
		origLine int32
		origCol  int32
		nameIdx  int32
		i        int
		err      error
		d1       int32
	)

	for i < len(s) {
		switch s[i] {
		case ';':
			line++
			col = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		if d1, i, err = decodeVLQ(s, i); err != nil {
			return nil, formatErr("bad mappings", err)
		}
		col += d1
		m := Mapping{GeneratedLine: line, GeneratedColumn: col, SourceIndex: -1, NameIndex: -1}

		if !segmentEnd(s, i) {
			if d1, i, err = decodeVLQ(s, i); err != nil {
				return nil, formatErr("bad mappings", err)
			}
			srcIdx += d1
			if d1, i, err = decodeVLQ(s, i); err != nil {
				return nil, formatErr("bad mappings", err)
			}
			origLine += d1
			if d1, i, err = decodeVLQ(s, i); err != nil {
				return nil, formatErr("bad mappings", err)
			}
			origCol += d1
			m.SourceIndex = srcIdx
			m.OriginalLine = origLine
			m.OriginalColumn = origCol

			if !segmentEnd(s, i) {
				if d1, i, err = decodeVLQ(s, i); err != nil {
					return nil, formatErr("bad mappings", err)
				}
				nameIdx += d1
				m.NameIndex = nameIdx
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// encodeMappings produces the delta encoded "mappings" field from decoded
// segments. Mappings must already be ordered by generated position.
func encodeMappings(mappings []Mapping) string {
	var (
		buf      []byte
		line     int32
		col      int32
		srcIdx   int32
		origLine int32
		origCol  int32
		nameIdx  int32
	)

	var sb strings.Builder
	var last byte
	for _, m := range mappings {
		for line < m.GeneratedLine {
			sb.WriteByte(';')
			last = ';'
			line++
			col = 0
		}
		if last != 0 && last != ';' {
			sb.WriteByte(',')
		}
		last = ','

		buf = appendVLQ(buf[:0], m.GeneratedColumn-col)
		col = m.GeneratedColumn
		if m.SourceIndex >= 0 {
			buf = appendVLQ(buf, m.SourceIndex-srcIdx)
			srcIdx = m.SourceIndex
			buf = appendVLQ(buf, m.OriginalLine-origLine)
			origLine = m.OriginalLine
			buf = appendVLQ(buf, m.OriginalColumn-origCol)
			origCol = m.OriginalColumn
			if m.NameIndex >= 0 {
				buf = appendVLQ(buf, m.NameIndex-nameIdx)
				nameIdx = m.NameIndex
			}
		}
		sb.Write(buf)
	}
	return sb.String()
}
