package psl

import (
	"errors"
	"testing"
)

func strp(s string) *string { return &s }

func mustHost(t *testing.T, content *string) Host {
	t.Helper()
	h, err := NewHost(content, NontransitionalToASCII, NontransitionalToUnicode)
	if err != nil {
		t.Fatalf("NewHost(%v) failed: %v", content, err)
	}
	return h
}

func TestNewHostNull(t *testing.T) {
	h := mustHost(t, nil)
	if !h.IsNull() {
		t.Fatal("expected null host")
	}
	if h.Content() != nil {
		t.Fatal("null host must have nil content")
	}
	if h.Count() != 0 {
		t.Fatalf("null host count = %d, want 0", h.Count())
	}
}

func TestNewHostEmptyString(t *testing.T) {
	h := mustHost(t, strp(""))
	if h.IsNull() {
		t.Fatal("empty-string host must not be null")
	}
	if h.Count() != 1 {
		t.Fatalf("count = %d, want 1", h.Count())
	}
	if content := h.Content(); content == nil || *content != "" {
		t.Fatalf("content = %v, want empty string", content)
	}
}

func TestNewHostSplitsAndLowercases(t *testing.T) {
	h := mustHost(t, strp("WWW.Example.COM"))
	if got := h.Count(); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	want := []string{"com", "example", "www"}
	got := h.Labels()
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if content := h.Content(); content == nil || *content != "www.example.com" {
		t.Fatalf("content = %v", content)
	}
}

func TestNewHostTrailingDotPreserved(t *testing.T) {
	h := mustHost(t, strp("example.com."))
	if got := h.Count(); got != 2 {
		t.Fatalf("count = %d, want 2 (trailing dot excluded)", got)
	}
	if !h.HasTrailingDot() {
		t.Fatal("expected trailing dot to be recorded")
	}
	if content := h.Content(); content == nil || *content != "example.com." {
		t.Fatalf("content = %v, want %q", content, "example.com.")
	}
}

func TestNewHostURLDecodedOnce(t *testing.T) {
	h := mustHost(t, strp("b%C3%A9b%C3%A9.be"))
	if content := h.Content(); content == nil {
		t.Fatal("expected content")
	} else if got := *content; got != "xn--bb-bjab.be" {
		t.Fatalf("content = %q, want punycode form of bébé.be", got)
	}
}

func TestHostLabelAtSignedOffsets(t *testing.T) {
	h := mustHost(t, strp("www.example.com"))
	cases := []struct {
		k     int
		label string
		ok    bool
	}{
		{0, "com", true},
		{1, "example", true},
		{2, "www", true},
		{3, "", false},
		{-1, "www", true},
		{-3, "com", true},
		{-4, "", false},
	}
	for _, c := range cases {
		label, ok := h.LabelAt(c.k)
		if ok != c.ok || label != c.label {
			t.Errorf("LabelAt(%d) = (%q, %v), want (%q, %v)", c.k, label, ok, c.label, c.ok)
		}
	}
}

func TestHostKeys(t *testing.T) {
	h := mustHost(t, strp("a.b.a.com"))
	keys := h.Keys("a")
	if len(keys) != 2 {
		t.Fatalf("keys = %v, want 2 matches", keys)
	}
}

func TestHostWithLabelReplace(t *testing.T) {
	h := mustHost(t, strp("www.example.com"))
	h2, err := h.WithLabel(1, "test")
	if err != nil {
		t.Fatalf("WithLabel failed: %v", err)
	}
	if content := h2.Content(); content == nil || *content != "www.test.com" {
		t.Fatalf("content = %v, want www.test.com", content)
	}
}

func TestHostWithLabelPrependBoundary(t *testing.T) {
	h := mustHost(t, strp("example.com"))
	h2, err := h.WithLabel(h.Count(), "www")
	if err != nil {
		t.Fatalf("WithLabel prepend failed: %v", err)
	}
	if content := h2.Content(); content == nil || *content != "www.example.com" {
		t.Fatalf("content = %v, want www.example.com", content)
	}
}

func TestHostWithLabelAppendBoundary(t *testing.T) {
	h := mustHost(t, strp("example"))
	h2, err := h.WithLabel(-(h.Count() + 1), "com")
	if err != nil {
		t.Fatalf("WithLabel append failed: %v", err)
	}
	if content := h2.Content(); content == nil || *content != "example.com" {
		t.Fatalf("content = %v, want example.com", content)
	}
}

func TestHostWithLabelOutOfRangeKey(t *testing.T) {
	h := mustHost(t, strp("example.com"))
	if _, err := h.WithLabel(5, "x"); !errors.Is(err, ErrInvalidLabelKey) {
		t.Fatalf("err = %v, want ErrInvalidLabelKey", err)
	}
}

func TestHostPrependAppendWrappers(t *testing.T) {
	h := mustHost(t, strp("example.com"))
	withSub, err := h.Prepend("www")
	if err != nil {
		t.Fatalf("Prepend failed: %v", err)
	}
	if content := withSub.Content(); content == nil || *content != "www.example.com" {
		t.Fatalf("content = %v", content)
	}

	h2 := mustHost(t, strp("example"))
	withTLD, err := h2.Append("com")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if content := withTLD.Content(); content == nil || *content != "example.com" {
		t.Fatalf("content = %v", content)
	}
}

func TestHostWithoutLabel(t *testing.T) {
	h := mustHost(t, strp("www.example.com"))
	h2, err := h.WithoutLabel(2) // removes "www"
	if err != nil {
		t.Fatalf("WithoutLabel failed: %v", err)
	}
	if content := h2.Content(); content == nil || *content != "example.com" {
		t.Fatalf("content = %v, want example.com", content)
	}

	h3, err := h.WithoutLabel(0, 1, 2)
	if err != nil {
		t.Fatalf("WithoutLabel(all) failed: %v", err)
	}
	if !h3.IsNull() {
		t.Fatal("removing every label must yield the null host")
	}
}

func TestHostToASCIIIdempotentOnASCIIOnlyHost(t *testing.T) {
	h := mustHost(t, strp("www.example.com"))
	h2, err := h.ToASCII()
	if err != nil {
		t.Fatalf("ToASCII failed: %v", err)
	}
	if !h.Equal(h2) {
		t.Fatal("ToASCII on an ASCII-only host must be a no-op (spec.md property 8)")
	}
}

func TestHostRoundTripASCIIUnicode(t *testing.T) {
	h := mustHost(t, strp("食狮.公司.cn"))
	ascii, err := h.ToASCII()
	if err != nil {
		t.Fatalf("ToASCII failed: %v", err)
	}
	back, err := ascii.ToUnicode()
	if err != nil {
		t.Fatalf("ToUnicode failed: %v", err)
	}
	unicodeDirect, err := h.ToUnicode()
	if err != nil {
		t.Fatalf("ToUnicode failed: %v", err)
	}
	if *back.Content() != *unicodeDirect.Content() {
		t.Fatalf("round-trip mismatch: %q vs %q", *back.Content(), *unicodeDirect.Content())
	}
}

func TestHostTransitionallyDifferent(t *testing.T) {
	h := mustHost(t, strp("faß.de")) // faß.de
	if !h.TransitionallyDifferent() {
		t.Fatal("faß.de should be transitionally different")
	}
	plain := mustHost(t, strp("example.com"))
	if plain.TransitionallyDifferent() {
		t.Fatal("example.com should not be transitionally different")
	}
}

func TestHostEqual(t *testing.T) {
	a := mustHost(t, strp("example.com"))
	b := mustHost(t, strp("example.com"))
	if !a.Equal(b) {
		t.Fatal("structurally identical hosts must be equal")
	}
	c := mustHost(t, strp("example.org"))
	if a.Equal(c) {
		t.Fatal("different hosts must not be equal")
	}
}

func TestHostWithIdnaOptionNoOpWhenUnchanged(t *testing.T) {
	h := mustHost(t, strp("example.com"))
	h2, err := h.WithAsciiIdnaOption(h.AsciiOption())
	if err != nil {
		t.Fatalf("WithAsciiIdnaOption failed: %v", err)
	}
	if !h.Equal(h2) {
		t.Fatal("re-setting the same option must return an equal value (spec.md property 7)")
	}
}

func TestHostAllNumericTopLabelRejected(t *testing.T) {
	if _, err := NewHost(strp("example.123"), NontransitionalToASCII, NontransitionalToUnicode); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("err = %v, want ErrInvalidLabel for all-numeric top label", err)
	}
}

func TestHostRejectsInternalEmptyLabel(t *testing.T) {
	cases := []string{"a..com", "..com", "a...com"}
	for _, in := range cases {
		if _, err := NewHost(strp(in), NontransitionalToASCII, NontransitionalToUnicode); !errors.Is(err, ErrInvalidLabel) {
			t.Errorf("NewHost(%q) err = %v, want ErrInvalidLabel for an internal empty label", in, err)
		}
	}
	// the single-label empty-string host remains valid: it is the one
	// exception to "labels are non-empty" (spec.md section 3).
	h := mustHost(t, strp(""))
	if h.Count() != 1 {
		t.Fatalf("empty-string host count = %d, want 1", h.Count())
	}
}
