package tui

import "testing"

func TestFocusTarget_Next(t *testing.T) {
	tests := []struct {
		name  string
		input FocusTarget
		want  FocusTarget
	}{
		{"history → ops", FocusHistory, FocusOps},
		{"ops → pattern", FocusOps, FocusPattern},
		{"pattern → activity", FocusPattern, FocusActivity},
		{"activity wraps → history", FocusActivity, FocusHistory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Next(); got != tt.want {
				t.Errorf("Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFocusTarget_Prev(t *testing.T) {
	tests := []struct {
		name  string
		input FocusTarget
		want  FocusTarget
	}{
		{"history wraps → activity", FocusHistory, FocusActivity},
		{"ops → history", FocusOps, FocusHistory},
		{"pattern → ops", FocusPattern, FocusOps},
		{"activity → pattern", FocusActivity, FocusPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.Prev(); got != tt.want {
				t.Errorf("Prev() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFocusTarget_String(t *testing.T) {
	tests := []struct {
		input FocusTarget
		want  string
	}{
		{FocusHistory, "history"},
		{FocusOps, "ops"},
		{FocusPattern, "pattern"},
		{FocusActivity, "activity"},
		{FocusTarget(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.input.String(); got != tt.want {
			t.Errorf("FocusTarget(%d).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}
