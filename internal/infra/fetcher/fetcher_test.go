package fetcher_test

import (
	"testing"
	"time"

	"github.com/geraldfingburke/verinews/internal/infra/fetcher"
)

func TestDefaultWindow(t *testing.T) {
	cases := []struct {
		name fetcher.Name
		want time.Duration
	}{
		{fetcher.NameGDELT, 15 * time.Minute},
		{fetcher.NameReddit, 15 * time.Minute},
		{fetcher.NameRSS, 60 * time.Minute},
		{fetcher.NameNewsAPI, 60 * time.Minute},
		{fetcher.NameMediastack, 60 * time.Minute},
		{fetcher.NameNGOGov, 60 * time.Minute},
	}
	for _, c := range cases {
		if got := fetcher.DefaultWindow(c.name); got != c.want {
			t.Errorf("DefaultWindow(%v) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewRegistry_AlwaysIncludesUnconditionalVariants(t *testing.T) {
	reg := fetcher.NewRegistry(fetcher.Config{})
	for _, name := range []fetcher.Name{fetcher.NameRSS, fetcher.NameGDELT, fetcher.NameNGOGov} {
		if _, ok := reg[name]; !ok {
			t.Errorf("registry missing unconditional variant %v", name)
		}
	}
	for _, name := range []fetcher.Name{fetcher.NameNewsAPI, fetcher.NameMediastack, fetcher.NameReddit} {
		if _, ok := reg[name]; ok {
			t.Errorf("registry should omit %v without credentials", name)
		}
	}
}

func TestNewRegistry_IncludesConfiguredVariants(t *testing.T) {
	reg := fetcher.NewRegistry(fetcher.Config{
		NewsAPIKey:          "key",
		MediastackAccessKey: "key",
		RedditClientID:      "id",
		RedditClientSecret:  "secret",
		RedditUserAgent:     "VeriNewsBot/1.0",
	})
	for _, name := range []fetcher.Name{fetcher.NameNewsAPI, fetcher.NameMediastack, fetcher.NameReddit} {
		if _, ok := reg[name]; !ok {
			t.Errorf("registry missing configured variant %v", name)
		}
	}
}
