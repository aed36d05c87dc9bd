package psl

import "strings"

// ResolvedDomain is the composite result of resolving a Host against a
// RuleSet: the full Host, the matched Suffix, the registrable domain
// (suffix plus one label), and the sub-domain (whatever sits above the
// registrable domain, null when there is none). Like Host and Suffix it is
// immutable; every mutator below returns a new value with all four slots
// recomputed so the spec.md 4.F invariant — full Host's labels decompose as
// sub-domain ++ registrable, registrable decomposes as one label ++
// suffix — always holds.
type ResolvedDomain struct {
	host        Host
	suffix      Suffix
	registrable Host
	subDomain   Host
}

// composeResolvedDomain builds a ResolvedDomain from a Host, a Suffix
// already carrying the right section tag, and best, the number of h's
// trailing labels (in h's own reverse-DNS label order) that the suffix
// covers. It is shared by Resolve and every structural mutator below, so
// the decomposition rule lives in exactly one place.
func composeResolvedDomain(h Host, suffix Suffix, best int) (ResolvedDomain, error) {
	hostLabels := h.Labels()
	if best < 0 || best >= len(hostLabels) {
		return ResolvedDomain{}, ErrUnableToResolveDomain
	}

	regContent := joinReversed(hostLabels[:best+1])
	registrable, err := NewHost(&regContent, h.asciiOpts, h.unicodeOpts)
	if err != nil {
		return ResolvedDomain{}, err
	}

	subDomain, err := NewHost(nil, h.asciiOpts, h.unicodeOpts)
	if err != nil {
		return ResolvedDomain{}, err
	}
	if best+1 < len(hostLabels) {
		subContent := joinReversed(hostLabels[best+1:])
		subDomain, err = NewHost(&subContent, h.asciiOpts, h.unicodeOpts)
		if err != nil {
			return ResolvedDomain{}, err
		}
	}

	return ResolvedDomain{host: h, suffix: suffix, registrable: registrable, subDomain: subDomain}, nil
}

// Host returns the full host that was resolved.
func (r ResolvedDomain) Host() Host { return r.host }

// Suffix returns the matched Suffix.
func (r ResolvedDomain) Suffix() Suffix { return r.suffix }

// Registrable returns the registrable domain (suffix plus one label), the
// null Host if resolution never completed.
func (r ResolvedDomain) Registrable() Host { return r.registrable }

// SubDomain returns the labels above the registrable domain, the null Host
// when there is no sub-domain.
func (r ResolvedDomain) SubDomain() Host { return r.subDomain }

// Equal reports structural equality over all four slots.
func (r ResolvedDomain) Equal(other ResolvedDomain) bool {
	return r.host.Equal(other.host) &&
		r.suffix.Equal(other.suffix) &&
		r.registrable.Equal(other.registrable) &&
		r.subDomain.Equal(other.subDomain)
}

// containsNonASCII reports whether s has any byte outside the printable
// ASCII range, the test WithSubDomain uses to decide whether a new
// sub-domain should inherit the host's Unicode or ASCII form.
func containsNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return true
		}
	}
	return false
}

// WithPublicSuffix replaces r's suffix with s, recomputing the registrable
// domain and sub-domain.
//
// Preconditions (spec.md 4.F): the full host must have at least one label
// and no trailing dot. If s carries content, the host must already end in
// "."+s's content — unless the host has a single label, in which case s is
// attached to extend it (the host is "being extended" rather than
// re-suffixed).
func (r ResolvedDomain) WithPublicSuffix(s Suffix) (ResolvedDomain, error) {
	h := r.host
	if h.Count() < 1 || h.HasTrailingDot() {
		return ResolvedDomain{}, ErrUnableToResolveDomain
	}

	newHost := h
	sContent := s.Content()
	if sContent != nil {
		switch {
		case h.Count() == 1:
			leftLabel, _ := h.LabelAt(0)
			extended := leftLabel + "." + *sContent
			var err error
			newHost, err = NewHost(&extended, h.asciiOpts, h.unicodeOpts)
			if err != nil {
				return ResolvedDomain{}, err
			}
		default:
			hc := h.Content()
			if hc == nil || !strings.HasSuffix(*hc, "."+*sContent) {
				return ResolvedDomain{}, ErrInvalidDomain
			}
		}
	}

	return composeResolvedDomain(newHost, s, s.Count())
}

// WithSubDomain replaces r's sub-domain with sd, recomputing the full host.
// sd is first converted to the host's IDNA form: Unicode if the host's
// content contains any non-ASCII byte, ASCII otherwise. The new full host is
// then rebuilt through NewHost, so the returned host, registrable domain and
// sub-domain are stored in A-label form either way.
func (r ResolvedDomain) WithSubDomain(sd string) (ResolvedDomain, error) {
	if r.registrable.IsNull() {
		return ResolvedDomain{}, ErrUnableToResolveSubDomain
	}
	if sd == "" {
		return ResolvedDomain{}, ErrInvalidDomain
	}

	sdHost, err := NewHost(&sd, r.host.asciiOpts, r.host.unicodeOpts)
	if err != nil {
		return ResolvedDomain{}, err
	}
	hc := r.host.Content()
	if hc != nil && containsNonASCII(*hc) {
		sdHost, err = sdHost.ToUnicode()
	} else {
		sdHost, err = sdHost.ToASCII()
	}
	if err != nil {
		return ResolvedDomain{}, err
	}

	regContent := r.registrable.Content()
	newContent := *regContent
	if sdContent := sdHost.Content(); sdContent != nil {
		newContent = *sdContent + "." + *regContent
	}
	newHost, err := NewHost(&newContent, r.host.asciiOpts, r.host.unicodeOpts)
	if err != nil {
		return ResolvedDomain{}, err
	}

	return composeResolvedDomain(newHost, r.suffix, r.suffix.Count())
}

// Resolve attaches an explicit Suffix to r's host without consulting any
// RuleSet, used to re-classify a suffix (e.g. ICANN to PRIVATE) in place.
// It is a no-op, returning r unchanged, when s already equals r's suffix.
func (r ResolvedDomain) Resolve(s Suffix) (ResolvedDomain, error) {
	if r.suffix.Equal(s) {
		return r, nil
	}
	return composeResolvedDomain(r.host, s, s.Count())
}

// ToASCII converts both the host and the suffix to A-label form in
// lockstep, then recomposes the registrable domain and sub-domain from the
// result.
func (r ResolvedDomain) ToASCII() (ResolvedDomain, error) {
	h, err := r.host.ToASCII()
	if err != nil {
		return ResolvedDomain{}, err
	}
	sHost, err := r.suffix.Host.ToASCII()
	if err != nil {
		return ResolvedDomain{}, err
	}
	suffix := Suffix{Host: sHost, section: r.suffix.section}
	return composeResolvedDomain(h, suffix, suffix.Count())
}

// ToUnicode is ToASCII's mirror: both halves converted to U-label form in
// lockstep. The registrable domain and sub-domain are recomposed through
// NewHost and so are stored in A-label form.
func (r ResolvedDomain) ToUnicode() (ResolvedDomain, error) {
	h, err := r.host.ToUnicode()
	if err != nil {
		return ResolvedDomain{}, err
	}
	sHost, err := r.suffix.Host.ToUnicode()
	if err != nil {
		return ResolvedDomain{}, err
	}
	suffix := Suffix{Host: sHost, section: r.suffix.section}
	return composeResolvedDomain(h, suffix, suffix.Count())
}

// WithAsciiIdnaOption propagates a new ASCII IDNA option bitmask to both
// the host and the suffix.
func (r ResolvedDomain) WithAsciiIdnaOption(o Option) (ResolvedDomain, error) {
	h, err := r.host.WithAsciiIdnaOption(o)
	if err != nil {
		return ResolvedDomain{}, err
	}
	sHost, err := r.suffix.Host.WithAsciiIdnaOption(o)
	if err != nil {
		return ResolvedDomain{}, err
	}
	suffix := Suffix{Host: sHost, section: r.suffix.section}
	return composeResolvedDomain(h, suffix, suffix.Count())
}

// WithUnicodeIdnaOption propagates a new Unicode IDNA option bitmask to
// both the host and the suffix.
func (r ResolvedDomain) WithUnicodeIdnaOption(o Option) (ResolvedDomain, error) {
	h, err := r.host.WithUnicodeIdnaOption(o)
	if err != nil {
		return ResolvedDomain{}, err
	}
	sHost, err := r.suffix.Host.WithUnicodeIdnaOption(o)
	if err != nil {
		return ResolvedDomain{}, err
	}
	suffix := Suffix{Host: sHost, section: r.suffix.section}
	return composeResolvedDomain(h, suffix, suffix.Count())
}
