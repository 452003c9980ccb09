package geo

import "testing"

func TestResolveNeverFails(t *testing.T) {
	r := NewResolver()
	cases := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", "local"},
		{"::1", "local"},
		{"10.0.0.5", "local"},
		{"192.168.1.2", "local"},
		{"8.8.8.8", "unknown"},
		{"not-an-ip", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.ip); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.ip, got, tc.want)
		}
	}
}
