package normalize

import (
	"testing"
	"time"
)

// TestALPN tests ALPN normalization of legacy null encodings.
func TestALPN(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "literal none",
			input:    "none",
			expected: nil,
		},
		{
			name:     "uppercase null with padding",
			input:    "NULL ",
			expected: nil,
		},
		{
			name:     "mixed case None",
			input:    "None",
			expected: nil,
		},
		{
			name:     "real alpn list",
			input:    "h2,http/1.1",
			expected: "h2,http/1.1",
		},
		{
			name:     "padded value is trimmed",
			input:    "  h3  ",
			expected: "h3",
		},
		{
			name:     "byte slice from driver",
			input:    []byte("h2"),
			expected: "h2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ALPN(tt.input)
			if result != tt.expected {
				t.Errorf("ALPN(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestJSONField tests JSON validation and serialization.
func TestJSONField(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "valid json string passes through",
			input:    `{"mux":true}`,
			expected: `{"mux":true}`,
		},
		{
			name:     "invalid json string",
			input:    "not json",
			expected: nil,
		},
		{
			name:     "empty object",
			input:    map[string]any{},
			expected: "{}",
		},
		{
			name:     "structured value is marshalled",
			input:    map[string]any{"packets": "tlshello"},
			expected: `{"packets":"tlshello"}`,
		},
		{
			name:     "byte slice from driver",
			input:    []byte(`[1,2]`),
			expected: `[1,2]`,
		},
		{
			name:     "corrupt byte slice",
			input:    []byte(`{"a":`),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := JSONField(tt.input)
			if result != tt.expected {
				t.Errorf("JSONField(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestExpiryTime tests Unix epoch and string timestamp conversion.
func TestExpiryTime(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()

	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{
			name:     "nil input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "zero epoch",
			input:    int64(0),
			expected: nil,
		},
		{
			name:     "epoch int64",
			input:    int64(1700000000),
			expected: want,
		},
		{
			name:     "epoch float",
			input:    float64(1700000000),
			expected: want,
		},
		{
			name:     "epoch as string",
			input:    "1700000000",
			expected: want,
		},
		{
			name:     "epoch as bytes",
			input:    []byte("1700000000"),
			expected: want,
		},
		{
			name:     "garbage string",
			input:    "garbage",
			expected: nil,
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "datetime string",
			input:    "2023-11-14 22:13:20",
			expected: want,
		},
		{
			name:     "time passthrough",
			input:    want,
			expected: want,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpiryTime(tt.input)
			if result != tt.expected {
				t.Errorf("ExpiryTime(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
