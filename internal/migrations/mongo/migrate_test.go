package mongo

import "testing"

func TestFingerprintTTLFollowsDedupWindow(t *testing.T) {
	tests := []struct {
		name   string
		window string
		want   int32
	}{
		{name: "unset falls back to default", window: "", want: 300},
		{name: "raised window raises TTL", window: "15m", want: 900},
		{name: "lowered window lowers TTL", window: "90s", want: 90},
		{name: "garbage falls back to default", window: "soon", want: 300},
		{name: "non-positive falls back to default", window: "-1m", want: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEDUP_WINDOW", tt.window)
			if got := fingerprintTTLSeconds(); got != tt.want {
				t.Errorf("expected TTL of %d seconds for window %q, got %d", tt.want, tt.window, got)
			}
		})
	}
}
