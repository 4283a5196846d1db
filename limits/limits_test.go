package limits

import (
	"errors"
	"math"
	"testing"
)

func TestValidateBlockSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"default", DefaultBlockSize, false},
		{"one byte", 1, false},
		{"odd size", 7, false},
		{"maximum", MaxBlockSize, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"above maximum", MaxBlockSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockSize(tt.size)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBlockSize) {
					t.Errorf("ValidateBlockSize(%d) = %v, want ErrInvalidBlockSize", tt.size, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateBlockSize(%d) unexpected error: %v", tt.size, err)
			}
		})
	}
}

func TestValidateProgressStep(t *testing.T) {
	valid := []float64{DefaultProgressStep, 1.01, 2, 10}
	for _, step := range valid {
		if err := ValidateProgressStep(step); err != nil {
			t.Errorf("ValidateProgressStep(%v) unexpected error: %v", step, err)
		}
	}

	invalid := []float64{1, 0.5, 0, -2, math.NaN(), math.Inf(1)}
	for _, step := range invalid {
		if err := ValidateProgressStep(step); !errors.Is(err, ErrInvalidProgressStep) {
			t.Errorf("ValidateProgressStep(%v) = %v, want ErrInvalidProgressStep", step, err)
		}
	}
}

// TestDefaultsAreConsistent guards the relationships other packages rely on.
func TestDefaultsAreConsistent(t *testing.T) {
	if err := ValidateBlockSize(DefaultBlockSize); err != nil {
		t.Errorf("DefaultBlockSize rejected: %v", err)
	}
	if DefaultBlockSize != 4096 {
		t.Errorf("DefaultBlockSize = %d, want 4096", DefaultBlockSize)
	}
	if ListenBacklog != 10 {
		t.Errorf("ListenBacklog = %d, want 10", ListenBacklog)
	}
	if err := ValidateProgressStep(DefaultProgressStep); err != nil {
		t.Errorf("DefaultProgressStep rejected: %v", err)
	}
}
