package modsync_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/git-pkgs/modsync"
	_ "github.com/git-pkgs/modsync/all"
)

func TestSupportedCatalogs(t *testing.T) {
	catalogs := modsync.SupportedCatalogs()
	if len(catalogs) != 1 || catalogs[0] != "factorio" {
		t.Errorf("SupportedCatalogs() = %v, want [factorio]", catalogs)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		catalog string
		wantErr bool
	}{
		{"factorio", false},
		{"unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.catalog, func(t *testing.T) {
			_, err := modsync.New(tt.catalog, "", nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.catalog, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultURL(t *testing.T) {
	if got := modsync.DefaultURL("factorio"); got != "https://mods.factorio.com" {
		t.Errorf("DefaultURL(factorio) = %q", got)
	}
	if got := modsync.DefaultURL("unknown"); got != "" {
		t.Errorf("DefaultURL(unknown) = %q, want empty", got)
	}
}

func TestParsePURL(t *testing.T) {
	p, err := modsync.ParsePURL("pkg:factorio/Bottleneck@0.11.7")
	if err != nil {
		t.Fatalf("ParsePURL failed: %v", err)
	}
	if p == nil {
		t.Fatal("ParsePURL returned nil")
	}
}

func portalServer(t *testing.T, releases ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mods/Bottleneck" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		list := make([]map[string]string, 0, len(releases))
		for _, v := range releases {
			list = append(list, map[string]string{
				"version":      v,
				"download_url": "/download/Bottleneck/" + v,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "Bottleneck", "releases": list})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolveEndToEnd(t *testing.T) {
	server := portalServer(t, "0.10.0", "0.11.7", "0.11.2")

	catalog, err := modsync.New("factorio", server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	paths := []string{"mods/Bottleneck_0.11.2.zip", "mods/Bottleneck_0.10.0.zip"}
	d, err := modsync.NewResolver(catalog).Resolve(context.Background(),
		modsync.Artifact{Name: "Bottleneck", Enabled: true}, paths)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if d.Outcome != modsync.FetchNeeded {
		t.Errorf("Outcome = %v, want FetchNeeded", d.Outcome)
	}
	if d.Locator != "/download/Bottleneck/0.11.7" {
		t.Errorf("Locator = %q", d.Locator)
	}
	if d.Filename() != "Bottleneck_0.11.7.zip" {
		t.Errorf("Filename() = %q", d.Filename())
	}

	urls := modsync.BuildURLs(catalog.URLs(), "Bottleneck", d.Latest.String(), d.Locator)
	if urls["download"] != server.URL+"/download/Bottleneck/0.11.7" {
		t.Errorf("download URL = %q", urls["download"])
	}
	if urls["purl"] != "pkg:factorio/Bottleneck@0.11.7" {
		t.Errorf("purl = %q", urls["purl"])
	}
}

func TestFetchReleaseFromPURL(t *testing.T) {
	server := portalServer(t, "0.11.7")
	purl := "pkg:factorio/Bottleneck@0.11.7?repository_url=" + url.QueryEscape(server.URL)

	r, err := modsync.FetchReleaseFromPURL(context.Background(), purl, nil)
	if err != nil {
		t.Fatalf("FetchReleaseFromPURL failed: %v", err)
	}
	if r.DownloadURL != "/download/Bottleneck/0.11.7" {
		t.Errorf("DownloadURL = %q", r.DownloadURL)
	}

	_, err = modsync.FetchReleaseFromPURL(context.Background(),
		"pkg:factorio/Bottleneck@9.9.9?repository_url="+url.QueryEscape(server.URL), nil)
	if !errors.Is(err, modsync.ErrNotFound) {
		t.Errorf("missing release error = %v, want ErrNotFound", err)
	}
}

func TestVersionHelpers(t *testing.T) {
	v, err := modsync.VersionFromPath("mods/Bottleneck_0.11.7.zip")
	if err != nil {
		t.Fatal(err)
	}
	if modsync.ArtifactFilename("Bottleneck", v) != "Bottleneck_0.11.7.zip" {
		t.Errorf("ArtifactFilename = %q", modsync.ArtifactFilename("Bottleneck", v))
	}

	_, err = modsync.ParseVersion("no version here")
	if !errors.Is(err, modsync.ErrInvalidVersion) {
		t.Errorf("ParseVersion error = %v, want ErrInvalidVersion", err)
	}

	if _, err := modsync.NewVersion(128, 0, 0); !errors.Is(err, modsync.ErrInvalidVersion) {
		t.Errorf("NewVersion(128, 0, 0) error = %v, want ErrInvalidVersion", err)
	}
}
