package view

import (
	"strconv"
	"strings"
)

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatBytes renders a size in powers of 1000 with at most decimals
// fractional digits, trailing zeros removed: FormatBytes(1500000, 2) is "1.5 MB".
func FormatBytes(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	v := float64(bytes)
	i := 0
	for v >= 1000 && i < len(byteUnits)-1 {
		v /= 1000
		i++
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s + " " + byteUnits[i]
}
