package utils_test

import (
	"bytes"
	"testing"

	"github.com/saiprashanths/code-analysis-mcp/internal/utils"
)

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{"plain text", []byte("package main\n"), false},
		{"empty content", nil, false},
		{"null byte", []byte{'a', 0x00, 'b'}, true},
		{"invalid utf-8 without null", []byte{'a', 0xe9, '\n'}, false},
		{"null beyond sniff window", append(bytes.Repeat([]byte{'x'}, utils.SniffLength), 0x00), false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if utils.IsBinary(testCase.data) != testCase.expected {
				t.Fatalf("IsBinary(%s) != %v", testCase.name, testCase.expected)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	testCases := []struct {
		byteCount int64
		expected  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
		{-1, "0 B"},
	}

	for _, testCase := range testCases {
		if formatted := utils.FormatSize(testCase.byteCount); formatted != testCase.expected {
			t.Fatalf("FormatSize(%d) = %q, expected %q", testCase.byteCount, formatted, testCase.expected)
		}
	}
}

func TestGetApplicationVersion(t *testing.T) {
	if utils.GetApplicationVersion() == "" {
		t.Fatalf("version should never be empty")
	}
}
