package psl

// Section classifies which part of the Public Suffix List produced a
// Suffix's match.
type Section int

// The fixed set of PSL sections a Suffix can carry.
const (
	// SectionNone is the unique tag of the null Suffix (no content).
	SectionNone Section = iota
	// SectionICANN marks a suffix matched in the ICANN section of the list.
	SectionICANN
	// SectionPrivate marks a suffix matched in the PRIVATE section.
	SectionPrivate
	// SectionUnknown marks a suffix that was assigned (the resolver fell
	// back to the rightmost label) but not found in any PSL section.
	SectionUnknown
)

func (s Section) String() string {
	switch s {
	case SectionICANN:
		return "ICANN"
	case SectionPrivate:
		return "PRIVATE"
	case SectionUnknown:
		return "UNKNOWN"
	default:
		return "NONE"
	}
}

// Suffix is a Host plus the PSL section that produced it. It shares
// Host's internal label representation (spec.md 4.C: "C and B share an
// internal representation").
type Suffix struct {
	Host
	section Section
}

// NewSuffix builds a Suffix from a nullable content string and an
// explicit section tag. A null content forces SectionNone regardless of
// the requested tag, since SectionNone is the unique tag of the null
// Suffix.
func NewSuffix(content *string, section Section, asciiOpts, unicodeOpts Option) (Suffix, error) {
	h, err := NewHost(content, asciiOpts, unicodeOpts)
	if err != nil {
		return Suffix{}, err
	}
	if h.IsNull() {
		return Suffix{Host: h, section: SectionNone}, nil
	}
	return Suffix{Host: h, section: section}, nil
}

// NewSuffixFromString builds a Suffix from a bare, non-null content
// string with no section information, producing SectionUnknown.
func NewSuffixFromString(content string, asciiOpts, unicodeOpts Option) (Suffix, error) {
	return NewSuffix(&content, SectionUnknown, asciiOpts, unicodeOpts)
}

// Section returns the PSL section tag this Suffix carries.
func (s Suffix) Section() Section { return s.section }

// IsKnown reports whether s was matched in either PSL section.
func (s Suffix) IsKnown() bool {
	return s.section == SectionICANN || s.section == SectionPrivate
}

// IsICANN reports whether s was matched in the ICANN section.
func (s Suffix) IsICANN() bool { return s.section == SectionICANN }

// IsPrivate reports whether s was matched in the PRIVATE section.
func (s Suffix) IsPrivate() bool { return s.section == SectionPrivate }

// Equal reports structural equality over the embedded Host and the
// section tag.
func (s Suffix) Equal(other Suffix) bool {
	return s.section == other.section && s.Host.Equal(other.Host)
}
