package cmd

import (
	"testing"
	"time"
)

func TestParseNow(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-10-19", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), false},
		{"2026-10-19T08:30:00Z", time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC), false},
		{"19/10/2026", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := parseNow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNow(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseNow(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got, _ := parseNow(""); time.Since(got) > time.Minute {
		t.Errorf("empty --now must mean current time, got %v", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"serve": false, "migrate": false, "remind": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s not registered", name)
		}
	}
}
