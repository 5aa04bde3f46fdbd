package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newStores(t *testing.T, clock Clock) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "cache"), clock)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return map[string]Store{
		"file":   fs,
		"memory": NewMemoryStore(clock),
	}
}

func TestStore_SetGet(t *testing.T) {
	clock := &TestClock{FixedTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	for name, store := range newStores(t, clock) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get("binary.latest_version.latest_stable.biome-linux-x64"); ok || err != nil {
				t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
			}

			if err := store.Set("binary.latest_version.latest_stable.biome-linux-x64", "1.8.3", 7*24*time.Hour); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			got, ok, err := store.Get("binary.latest_version.latest_stable.biome-linux-x64")
			if err != nil || !ok {
				t.Fatalf("Get() = ok %v, err %v", ok, err)
			}
			if got != "1.8.3" {
				t.Errorf("Get() = %q, want 1.8.3", got)
			}
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	clock := &TestClock{FixedTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}

	for name, store := range newStores(t, clock) {
		t.Run(name, func(t *testing.T) {
			start := clock.FixedTime
			defer func() { clock.FixedTime = start }()

			if err := store.Set("k", "v", time.Hour); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			clock.Advance(59 * time.Minute)
			if _, ok, _ := store.Get("k"); !ok {
				t.Error("entry expired too early")
			}

			clock.Advance(time.Minute)
			if _, ok, _ := store.Get("k"); ok {
				t.Error("entry should be expired after its ttl")
			}

			if err := store.Set("k", "v2", time.Hour); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got, ok, _ := store.Get("k"); !ok || got != "v2" {
				t.Errorf("Get() after refresh = %q, %v", got, ok)
			}
		})
	}
}

func TestFileStore_SharedAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	a, _ := NewFileStore(dir, nil)
	if err := a.Set("key", "value", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	b, _ := NewFileStore(dir, nil)
	got, ok, err := b.Get("key")
	if err != nil || !ok || got != "value" {
		t.Errorf("second instance Get() = %q, %v, %v", got, ok, err)
	}
}

func TestFileStore_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir, nil)

	if err := os.WriteFile(filepath.Join(dir, "key.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := store.Get("key"); err == nil || ok {
		t.Errorf("Get() on corrupt entry = ok %v, err %v; want error", ok, err)
	}
}

func TestFileStore_RequiresDir(t *testing.T) {
	if _, err := NewFileStore("", nil); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"binary.latest_version.latest_stable.biome-linux-x64", "binary.latest_version.latest_stable.biome-linux-x64"},
		{"a/b\\c:d", "a_b_c_d"},
		{"biome-win32-x64.exe", "biome-win32-x64.exe"},
	}

	for _, tt := range tests {
		if got := sanitizeKey(tt.in); got != tt.want {
			t.Errorf("sanitizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
