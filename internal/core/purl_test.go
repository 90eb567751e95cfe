package core

import (
	"context"
	"errors"
	"testing"
)

func TestParsePURL(t *testing.T) {
	tests := []struct {
		input    string
		wantType string
		wantName string
		wantVer  string
		wantErr  bool
	}{
		{"pkg:factorio/Bottleneck", "factorio", "Bottleneck", "", false},
		{"pkg:factorio/Bottleneck@0.11.7", "factorio", "Bottleneck", "0.11.7", false},
		{"pkg:factorio/even-distribution@1.0.10", "factorio", "even-distribution", "1.0.10", false},

		// Errors
		{"factorio/Bottleneck", "", "", "", true}, // missing pkg: prefix
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if p.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", p.Type, tt.wantType)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", p.Name, tt.wantName)
			}
			if p.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", p.Version, tt.wantVer)
			}
			if p.FullName() != tt.wantName {
				t.Errorf("FullName() = %q, want %q", p.FullName(), tt.wantName)
			}
		})
	}
}

func TestArtifactPURL(t *testing.T) {
	if got := ArtifactPURL("factorio", "Bottleneck", "0.11.7"); got != "pkg:factorio/Bottleneck@0.11.7" {
		t.Errorf("ArtifactPURL = %q", got)
	}
	if got := ArtifactPURL("factorio", "Bottleneck", ""); got != "pkg:factorio/Bottleneck" {
		t.Errorf("ArtifactPURL without version = %q", got)
	}
}

func registerStub(t *testing.T, catalog *stubCatalog) {
	t.Helper()
	Register("stub", "https://stub.invalid", func(baseURL string, client *Client) Catalog {
		return catalog
	})
}

func TestFetchReleaseFromPURL(t *testing.T) {
	registerStub(t, &stubCatalog{listings: map[string]*Listing{
		"Bottleneck": listingOf("Bottleneck", "0.11.6", "0.11.7"),
	}})
	ctx := context.Background()

	r, err := FetchReleaseFromPURL(ctx, "pkg:stub/Bottleneck@0.11.6", nil)
	if err != nil {
		t.Fatalf("FetchReleaseFromPURL failed: %v", err)
	}
	if r.DownloadURL != "/download/Bottleneck/0.11.6" {
		t.Errorf("DownloadURL = %q", r.DownloadURL)
	}

	if _, err := FetchReleaseFromPURL(ctx, "pkg:stub/Bottleneck@9.9.9", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing version error = %v, want ErrNotFound", err)
	}

	if _, err := FetchReleaseFromPURL(ctx, "pkg:stub/Bottleneck", nil); err == nil {
		t.Error("expected error for PURL without version")
	}

	listing, err := FetchListingFromPURL(ctx, "pkg:stub/Bottleneck", nil)
	if err != nil {
		t.Fatalf("FetchListingFromPURL failed: %v", err)
	}
	if len(listing.Releases) != 2 {
		t.Errorf("len(Releases) = %d, want 2", len(listing.Releases))
	}
}

func TestNewFromPURLUnknownCatalog(t *testing.T) {
	if _, _, _, err := NewFromPURL("pkg:nonexistent/thing", nil); err == nil {
		t.Error("expected error for unregistered catalog")
	}
}
