package cache

import (
	"testing"
	"time"
)

func TestKeyStable(t *testing.T) {
	a := Key("https://example.com/story")
	b := Key("https://example.com/story")
	if a != b {
		t.Error("same URL produced different keys")
	}
	if a == Key("https://example.com/other") {
		t.Error("different URLs produced the same key")
	}
}

func TestMemoryRoundtrip(t *testing.T) {
	m := NewMemory(time.Minute)
	key := Key("https://example.com/a")
	if err := m.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Get(key)
	if !ok || string(got) != "payload" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if err := m.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get(key); ok {
		t.Error("deleted key still present")
	}
}

func TestDiskRoundtripAndExpiry(t *testing.T) {
	d := NewDisk(t.TempDir(), time.Minute)
	key := Key("https://example.com/b")
	if err := d.Set(key, []byte("on disk"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := d.Get(key)
	if !ok || string(got) != "on disk" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	// An already-expired entry must not come back.
	if err := d.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.Get(key); ok {
		t.Error("expired entry returned")
	}
}

func TestLayeredPromotesDiskHits(t *testing.T) {
	l := NewLayered(time.Minute, t.TempDir(), time.Minute)
	key := Key("https://example.com/c")

	// Write through the disk layer only, then read through the stack.
	if err := l.disk.Set(key, []byte("from disk"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok := l.Get(key)
	if !ok || string(got) != "from disk" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if _, ok := l.memory.Get(key); !ok {
		t.Error("disk hit not promoted to memory")
	}
}
