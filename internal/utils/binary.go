// Package utils contains small helpers shared across the analysis packages.
package utils

// SniffLength is the number of leading bytes inspected when classifying content.
const SniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Only the leading SniffLength bytes are inspected; a null byte anywhere
// in the sample marks the content as binary.
func IsBinary(data []byte) bool {
	sample := data
	if len(sample) > SniffLength {
		sample = sample[:SniffLength]
	}
	for _, sampleByte := range sample {
		if sampleByte == 0 {
			return true
		}
	}
	return false
}
