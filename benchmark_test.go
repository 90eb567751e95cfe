package modsync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/modsync"
	_ "github.com/git-pkgs/modsync/all"
)

var bottleneckResponse = map[string]any{
	"name":  "Bottleneck",
	"title": "Bottleneck",
	"owner": "troelsbjerre",
	"releases": []map[string]any{
		{"version": "0.11.5", "download_url": "/download/Bottleneck/1", "released_at": "2020-11-24T12:00:00.000000Z"},
		{"version": "0.11.6", "download_url": "/download/Bottleneck/2", "released_at": "2021-01-03T12:00:00.000000Z"},
		{"version": "0.11.7", "download_url": "/download/Bottleneck/3", "released_at": "2021-02-10T12:00:00.000000Z"},
	},
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = modsync.New("factorio", "", nil)
	}
}

func BenchmarkResolve(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bottleneckResponse)
	}))
	defer server.Close()

	catalog, err := modsync.New("factorio", server.URL, nil)
	if err != nil {
		b.Fatal(err)
	}
	resolver := modsync.NewResolver(catalog)
	artifact := modsync.Artifact{Name: "Bottleneck", Enabled: true}
	paths := []string{"mods/Bottleneck_0.11.6.zip", "mods/helmod_0.12.5.zip"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = resolver.Resolve(ctx, artifact, paths)
	}
}
