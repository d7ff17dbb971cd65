package utils

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize converts a byte count into a human-readable string such as "1.5 KB".
// Whole bytes are reported without a decimal.
func FormatSize(byteCount int64) string {
	if byteCount < 0 {
		byteCount = 0
	}
	value := float64(byteCount)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(sizeUnits)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%d %s", byteCount, sizeUnits[unitIndex])
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unitIndex])
}
