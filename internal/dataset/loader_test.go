package dataset

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	path := createTempCSV(t, sampleCSV)

	loader := NewLoader(Options{Logger: quietLogger()})
	table, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
	if table.Source() != path {
		t.Errorf("Source() = %q, want %q", table.Source(), path)
	}
	if table.LoadedAt().IsZero() {
		t.Error("LoadedAt() should be set")
	}
}

func TestLoader_LoadRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer ts.Close()

	loader := NewLoader(Options{HTTPClient: ts.Client(), Logger: quietLogger()})
	table, err := loader.Load(context.Background(), ts.URL+"/historical_automobile_sales.csv")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestLoader_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	tests := []struct {
		name   string
		source string
	}{
		{"empty source", ""},
		{"missing file", filepath.Join(t.TempDir(), "nope.csv")},
		{"http error status", ts.URL + "/missing.csv"},
		{"unparseable file", createTempCSV(t, "just,a,header\n")},
	}

	loader := NewLoader(Options{HTTPClient: ts.Client(), Logger: quietLogger()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loader.Load(context.Background(), tt.source); err == nil {
				t.Errorf("Load(%q) should fail", tt.source)
			}
		})
	}
}

func TestLoader_RemoteCache(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleCSV))
	}))
	defer ts.Close()

	cacheDir := t.TempDir()
	loader := NewLoader(Options{
		HTTPClient: ts.Client(),
		CacheDir:   cacheDir,
		CacheTTL:   time.Hour,
		Logger:     quietLogger(),
	})

	source := ts.URL + "/sales.csv"
	first, err := loader.Load(context.Background(), source)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}

	second, err := loader.Load(context.Background(), source)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
	if second.Len() != first.Len() {
		t.Errorf("cached table has %d records, want %d", second.Len(), first.Len())
	}

	// Expired snapshots are refetched.
	loader.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := loader.Load(context.Background(), source); err != nil {
		t.Fatalf("third Load() error = %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times after expiry, want 2", got)
	}
}

func TestLoader_CacheDisabled(t *testing.T) {
	cacheDir := t.TempDir()
	loader := NewLoader(Options{CacheDir: cacheDir, Logger: quietLogger()})

	if _, err := loader.Load(context.Background(), createTempCSV(t, sampleCSV)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir should stay empty without a TTL, found %d entries", len(entries))
	}
}

func TestTable_Immutable(t *testing.T) {
	result, err := Parse(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	table := NewTable("test", time.Now(), result.Records)
	result.Records[0].AutomobileSales = -1

	records := table.Records()
	if records[0].AutomobileSales == -1 {
		t.Error("NewTable should copy its input")
	}

	records[1].VehicleType = "changed"
	for rec := range table.All() {
		if rec.VehicleType == "changed" {
			t.Error("Records() should return a copy")
		}
	}
}
