package voice

import (
	"errors"
	"testing"
)

func TestValidateAmount_Canonical(t *testing.T) {
	limits := DefaultAmountLimits()

	tests := []struct {
		in   string
		want string
	}{
		{"0.1", "0.1"},
		{"0.005", "0.005"},
		{"1", "1"},
		{"1000", "1000"},
		{"0.000001", "0.000001"},
		{"00.5", "0.5"},
		{"007", "7"},
		{".5", "0.5"},
		{"0.500000", "0.5"},
		// Non-numeric noise is stripped before parsing.
		{"0.5 eth please", "0.5"},
		{"about 2", "2"},
	}

	for _, tt := range tests {
		got, err := ValidateAmount(tt.in, limits)
		if err != nil {
			t.Errorf("ValidateAmount(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateAmount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateAmount_Rounding(t *testing.T) {
	limits := DefaultAmountLimits()

	tests := []struct {
		in   string
		want string
	}{
		// Seventh fraction digit rounds half-up, never truncates.
		{"0.1234564", "0.123456"},
		{"0.1234565", "0.123457"},
		{"0.9999994", "0.999999"},
		{"0.9999995", "1"},
		{"1.0000001", "1"},
	}

	for _, tt := range tests {
		got, err := ValidateAmount(tt.in, limits)
		if err != nil {
			t.Errorf("ValidateAmount(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateAmount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateAmount_Rejections(t *testing.T) {
	limits := DefaultAmountLimits()

	tests := []struct {
		in      string
		wantErr error
	}{
		{"", ErrAmountNotNumeric},
		{"no numbers here", ErrAmountNotNumeric},
		{".", ErrAmountNotNumeric},
		{"1.2.3", ErrAmountNotNumeric},
		{"0", ErrAmountNotPositive},
		{"0.000", ErrAmountNotPositive},
		{"0.0000001", ErrAmountBelowMinimum},
		{"1000.000001", ErrAmountAboveMaximum},
		{"1500", ErrAmountAboveMaximum},
		{"99999", ErrAmountAboveMaximum},
	}

	for _, tt := range tests {
		_, err := ValidateAmount(tt.in, limits)
		if err == nil {
			t.Errorf("ValidateAmount(%q) expected error, got nil", tt.in)
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateAmount(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateAmount_Deterministic(t *testing.T) {
	limits := DefaultAmountLimits()
	inputs := []string{"0.1", "0.1234565", "999.999999", "0.000001"}

	for _, in := range inputs {
		first, err1 := ValidateAmount(in, limits)
		for i := 0; i < 100; i++ {
			got, err2 := ValidateAmount(in, limits)
			if got != first || (err1 == nil) != (err2 == nil) {
				t.Fatalf("ValidateAmount(%q) not deterministic: %q then %q", in, first, got)
			}
		}
	}
}

func TestValidateAmount_CustomLimits(t *testing.T) {
	limits := AmountLimits{Min: "0.01", Max: "10"}

	if _, err := ValidateAmount("0.005", limits); !errors.Is(err, ErrAmountBelowMinimum) {
		t.Errorf("expected below-minimum, got %v", err)
	}
	if _, err := ValidateAmount("10.5", limits); !errors.Is(err, ErrAmountAboveMaximum) {
		t.Errorf("expected above-maximum, got %v", err)
	}
	if got, err := ValidateAmount("10", limits); err != nil || got != "10" {
		t.Errorf("expected max boundary to pass, got %q err %v", got, err)
	}
	if got, err := ValidateAmount("0.01", limits); err != nil || got != "0.01" {
		t.Errorf("expected min boundary to pass, got %q err %v", got, err)
	}
}

func TestCompareDecimal(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "1", 0},
		{"0.5", "0.5", 0},
		{"0.5", "0.50", 0},
		{"2", "10", -1},
		{"10", "2", 1},
		{"0.000001", "0.000002", -1},
		{"1000", "999.999999", 1},
		{"0.1", "0.05", 1},
	}

	for _, tt := range tests {
		if got := compareDecimal(tt.a, tt.b); got != tt.want {
			t.Errorf("compareDecimal(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
