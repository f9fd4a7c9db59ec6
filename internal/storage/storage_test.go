package storage

import "testing"

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base, key, want string
	}{
		{"https://cdn.example.com", "u1-1700000000000-me.png", "https://cdn.example.com/u1-1700000000000-me.png"},
		{"https://cdn.example.com/", "/a.png", "https://cdn.example.com/a.png"},
		{"https://pub.r2.dev/images//", "b.jpg", "https://pub.r2.dev/images/b.jpg"},
	}
	for _, tc := range cases {
		if got := joinURL(tc.base, tc.key); got != tc.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tc.base, tc.key, got, tc.want)
		}
	}
}
