package psl

import "testing"

func TestNewSuffixNullContentForcesSectionNone(t *testing.T) {
	s, err := NewSuffix(nil, SectionICANN, NontransitionalToASCII, NontransitionalToUnicode)
	if err != nil {
		t.Fatalf("NewSuffix failed: %v", err)
	}
	if s.Section() != SectionNone {
		t.Fatalf("section = %v, want SectionNone for null content", s.Section())
	}
	if s.IsKnown() {
		t.Fatal("the null suffix must not be known")
	}
}

func TestNewSuffixFromStringIsUnknown(t *testing.T) {
	s, err := NewSuffixFromString("com", NontransitionalToASCII, NontransitionalToUnicode)
	if err != nil {
		t.Fatalf("NewSuffixFromString failed: %v", err)
	}
	if s.Section() != SectionUnknown {
		t.Fatalf("section = %v, want SectionUnknown", s.Section())
	}
	if s.IsKnown() {
		t.Fatal("SectionUnknown must not be IsKnown")
	}
}

func TestSuffixPredicates(t *testing.T) {
	icann, _ := NewSuffix(strp("com"), SectionICANN, NontransitionalToASCII, NontransitionalToUnicode)
	if !icann.IsKnown() || !icann.IsICANN() || icann.IsPrivate() {
		t.Fatalf("ICANN suffix predicates wrong: known=%v icann=%v private=%v", icann.IsKnown(), icann.IsICANN(), icann.IsPrivate())
	}

	private, _ := NewSuffix(strp("github.io"), SectionPrivate, NontransitionalToASCII, NontransitionalToUnicode)
	if !private.IsKnown() || !private.IsPrivate() || private.IsICANN() {
		t.Fatalf("PRIVATE suffix predicates wrong: known=%v icann=%v private=%v", private.IsKnown(), private.IsICANN(), private.IsPrivate())
	}
}

func TestSuffixEqual(t *testing.T) {
	a, _ := NewSuffix(strp("com"), SectionICANN, NontransitionalToASCII, NontransitionalToUnicode)
	b, _ := NewSuffix(strp("com"), SectionICANN, NontransitionalToASCII, NontransitionalToUnicode)
	if !a.Equal(b) {
		t.Fatal("identical suffixes must be equal")
	}
	c, _ := NewSuffix(strp("com"), SectionPrivate, NontransitionalToASCII, NontransitionalToUnicode)
	if a.Equal(c) {
		t.Fatal("suffixes with different sections must not be equal")
	}
}
