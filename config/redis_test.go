package config

import "testing"

func TestRedisOptions(t *testing.T) {
	cases := []struct {
		in      string
		addr    string
		db      int
		wantErr bool
	}{
		{in: "localhost:6379", addr: "localhost:6379"},
		{in: "redis://:pw@cache:6380/2", addr: "cache:6380", db: 2},
		{in: "rediss://cache:6390", addr: "cache:6390"},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		opt, err := redisOptions(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("redisOptions(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("redisOptions(%q): %v", tc.in, err)
		}
		if opt.Addr != tc.addr || opt.DB != tc.db {
			t.Errorf("redisOptions(%q) = %s db %d", tc.in, opt.Addr, opt.DB)
		}
	}
}

func TestFirstEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", " redis://a:1 ")
	t.Setenv("REDIS_URL", "redis://b:2")
	if got := firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"); got != "redis://a:1" {
		t.Fatalf("firstEnv = %q", got)
	}
}
