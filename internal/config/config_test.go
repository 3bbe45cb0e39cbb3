package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Server.Port != 20262 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Source.DefaultWorkbook != "main" {
		t.Fatalf("default workbook = %q", cfg.Source.DefaultWorkbook)
	}
	if len(cfg.Source.Sheets) != 3 {
		t.Fatalf("sheet mappings = %d, want 3", len(cfg.Source.Sheets))
	}
	for _, m := range cfg.Source.Sheets {
		if m.HeaderRow != 1 {
			t.Fatalf("sheet %q header row = %d, want 1", m.Name, m.HeaderRow)
		}
	}
	if cfg.Business.CacheTTLSeconds != 60 {
		t.Fatalf("cache ttl = %d", cfg.Business.CacheTTLSeconds)
	}
	if cfg.Business.CompareDays != 7 {
		t.Fatalf("compare days = %d", cfg.Business.CompareDays)
	}
	if len(cfg.Business.Companies) != 2 {
		t.Fatalf("companies = %v", cfg.Business.Companies)
	}
}

func TestNormalizeClampsDefectiveValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Source.FetchLimit = 0
	cfg.Business.CacheTTLSeconds = -5
	cfg.Business.CompareDays = 0

	Normalize(cfg)

	if cfg.Source.FetchLimit != 3 {
		t.Fatalf("fetch limit = %d", cfg.Source.FetchLimit)
	}
	if cfg.Business.CacheTTLSeconds != 60 {
		t.Fatalf("cache ttl = %d", cfg.Business.CacheTTLSeconds)
	}
	if cfg.Business.CompareDays != 7 {
		t.Fatalf("compare days = %d", cfg.Business.CompareDays)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Source.FetchLimit = 8
	cfg.Business.CacheTTLSeconds = 120
	cfg.Business.CompareDays = 30

	Normalize(cfg)

	if cfg.Source.FetchLimit != 8 || cfg.Business.CacheTTLSeconds != 120 || cfg.Business.CompareDays != 30 {
		t.Fatalf("explicit values were clamped: %+v %+v", cfg.Source, cfg.Business)
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		toml string
		want bool
	}{
		{"with port", "[server]\nport = 9000\n", true},
		{"server without port", "[server]\ndev_mode = true\n", false},
		{"no server section", "[data]\ndata_dir = \"data\"\n", false},
		{"invalid toml", "[[[", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := isPortSpecifiedInToml([]byte(tc.toml)); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
