package cache

import (
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/go-psl/psl"
)

func TestCacheStoreThenFetch(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(fs, "/cache", time.Hour)

	snap := psl.Snapshot{ICANN: &psl.NodeSnapshot{Terminal: true}}
	if ok := c.Store("https://example.test/list.dat", snap); !ok {
		t.Fatal("Store returned false, want true")
	}

	got, ok := c.Fetch("https://example.test/list.dat")
	if !ok {
		t.Fatal("Fetch returned false after a successful Store")
	}
	if got.ICANN == nil || !got.ICANN.Terminal {
		t.Fatalf("fetched snapshot = %+v, want ICANN.Terminal = true", got)
	}
}

func TestCacheFetchMissOnUnknownURI(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(fs, "/cache", time.Hour)
	if _, ok := c.Fetch("https://example.test/never-stored.dat"); ok {
		t.Fatal("Fetch returned true for a URI that was never stored")
	}
}

func TestCacheFetchMissOnExpiredEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(fs, "/cache", time.Millisecond)

	snap := psl.Snapshot{ICANN: &psl.NodeSnapshot{}}
	if ok := c.Store("https://example.test/list.dat", snap); !ok {
		t.Fatal("Store returned false, want true")
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Fetch("https://example.test/list.dat"); ok {
		t.Fatal("Fetch returned true for an entry older than the TTL")
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(fs, "/cache", 0)

	snap := psl.Snapshot{ICANN: &psl.NodeSnapshot{}}
	if ok := c.Store("https://example.test/list.dat", snap); !ok {
		t.Fatal("Store returned false, want true")
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Fetch("https://example.test/list.dat"); !ok {
		t.Fatal("Fetch returned false for a zero-TTL cache, want staleness checks disabled")
	}
}

func TestCacheDistinctURIsDoNotCollide(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := New(fs, "/cache", time.Hour)

	a := psl.Snapshot{ICANN: &psl.NodeSnapshot{Terminal: true}}
	b := psl.Snapshot{ICANN: &psl.NodeSnapshot{Exception: true}}
	c.Store("https://a.test/list.dat", a)
	c.Store("https://b.test/list.dat", b)

	gotA, ok := c.Fetch("https://a.test/list.dat")
	if !ok || !gotA.ICANN.Terminal {
		t.Fatalf("Fetch(a) = %+v, want Terminal = true", gotA)
	}
	gotB, ok := c.Fetch("https://b.test/list.dat")
	if !ok || !gotB.ICANN.Exception {
		t.Fatalf("Fetch(b) = %+v, want Exception = true", gotB)
	}
}
