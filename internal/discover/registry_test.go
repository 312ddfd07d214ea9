package discover

import (
	"net/url"
	"testing"
)

func TestLoadRegistryEmbedded(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if len(reg.Sources) == 0 {
		t.Fatal("embedded registry has no sources")
	}

	seen := make(map[string]struct{})
	for _, src := range reg.Sources {
		if src.ID == "" {
			t.Errorf("source %q has no id", src.Name)
		}
		if _, dup := seen[src.ID]; dup {
			t.Errorf("duplicate source id %q", src.ID)
		}
		seen[src.ID] = struct{}{}

		if src.Name == "" {
			t.Errorf("source %q has no name", src.ID)
		}
		if len(src.Seeds) == 0 {
			t.Errorf("source %q has no seed URLs", src.ID)
		}
		for _, seed := range src.Seeds {
			u, err := url.Parse(seed)
			if err != nil || u.Scheme == "" || u.Host == "" {
				t.Errorf("source %q has invalid seed URL %q", src.ID, seed)
			}
		}
	}
}

func TestRegistryGet(t *testing.T) {
	reg := &Registry{Sources: []SourceConfig{
		{ID: "nasa", Name: "NASA"},
		{ID: "nsf", Name: "NSF"},
	}}

	src, err := reg.Get("nsf")
	if err != nil {
		t.Fatalf("Get(nsf) failed: %v", err)
	}
	if src.Name != "NSF" {
		t.Errorf("Get(nsf).Name = %q", src.Name)
	}

	if _, err := reg.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}
