package websocket

import "testing"

func TestOriginAllowed(t *testing.T) {
	t.Parallel()
	hosts := []string{"http://localhost:5173", "obs.example.com:443", "studio.lan:80", "tablet.lan"}
	tests := []struct {
		origin string
		want   bool
	}{
		{origin: "", want: true},
		{origin: "http://localhost:5173", want: true},
		{origin: "HTTP://LOCALHOST:5173", want: true},
		{origin: "https://obs.example.com", want: true},
		{origin: "https://obs.example.com:443", want: true},
		{origin: "http://studio.lan", want: true},
		{origin: "http://tablet.lan:8080", want: true},
		{origin: "https://evil.example.net", want: false},
		{origin: "http://localhost:3000", want: false},
		{origin: "https://localhost:5173", want: false},
		{origin: "http://obs.example.com", want: false},
		{origin: "https://obs.example.com.attacker.net", want: false},
		{origin: "https://attacker.net/obs.example.com", want: false},
		{origin: "http://tablet.lan.attacker.net", want: false},
		{origin: "null", want: false},
	}
	for _, tt := range tests {
		if got := originAllowed(tt.origin, hosts); got != tt.want {
			t.Errorf("originAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestOriginAllowedWithoutCORSHosts(t *testing.T) {
	t.Parallel()
	for _, origin := range []string{"", "http://192.168.1.20:5173", "https://obs.example.com"} {
		if !originAllowed(origin, nil) {
			t.Errorf("originAllowed(%q) with no hosts = false, want true", origin)
		}
	}
}
