package psl

import "fmt"

// Policy selects which PSL section(s) the resolver consults.
type Policy int

const (
	// PolicyCookie consults both sections and prefers the longer match,
	// with PRIVATE winning ties — the policy browsers use for cookie
	// domain-matching.
	PolicyCookie Policy = iota
	// PolicyICANN consults only the ICANN section.
	PolicyICANN
	// PolicyPrivate consults only the PRIVATE section.
	PolicyPrivate
)

func (p Policy) String() string {
	switch p {
	case PolicyICANN:
		return "icann"
	case PolicyPrivate:
		return "private"
	default:
		return "cookie"
	}
}

// ParsePolicy maps a CLI/config string onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "cookie", "":
		return PolicyCookie, nil
	case "icann":
		return PolicyICANN, nil
	case "private":
		return PolicyPrivate, nil
	default:
		return PolicyCookie, fmt.Errorf("%w: unknown policy %q", ErrInvalidDomain, s)
	}
}

// sectionMatch walks root against labels (TLD-first) per spec.md 4.E
// steps 1-5, returning the number of matched suffix labels and whether a
// rule matched at all.
func sectionMatch(root *node, labels []string) (best int, matched bool) {
	cur := root
	i := 0
	for i < len(labels) {
		label := labels[i]
		if child, ok := cur.child(label); ok {
			if child.exception {
				return i, true
			}
			cur = child
			i++
			if cur.terminal {
				best = i
				matched = true
			}
			continue
		}
		if cur.hasWildcardChild {
			wc, ok := cur.child("*")
			if !ok {
				break
			}
			best = i + 1
			matched = true
			i++
			cur = wc
			continue
		}
		break
	}
	return best, matched
}

// Resolve implements the longest-match algorithm of spec.md 4.E: given a
// non-null Host with at least two labels and no trailing dot, it walks
// both section tries (or just the one named by policy) and composes a
// ResolvedDomain from the winning match.
func (rs *RuleSet) Resolve(h Host, policy Policy) (ResolvedDomain, error) {
	if h.IsNull() {
		return ResolvedDomain{}, ErrInvalidDomain
	}
	if h.Count() < 2 || h.trailingDot {
		return ResolvedDomain{}, ErrUnableToResolveDomain
	}

	ascii, err := h.ToASCII()
	if err != nil {
		return ResolvedDomain{}, err
	}
	labels := ascii.Labels()

	icannBest, icannMatched := sectionMatch(rs.icann, labels)
	privateBest, privateMatched := sectionMatch(rs.private, labels)

	var (
		best    int
		matched bool
		section Section
	)
	switch policy {
	case PolicyICANN:
		if !icannMatched {
			return ResolvedDomain{}, ErrUnableToResolveDomain
		}
		best, matched, section = icannBest, true, SectionICANN
	case PolicyPrivate:
		if !privateMatched {
			return ResolvedDomain{}, ErrUnableToResolveDomain
		}
		best, matched, section = privateBest, true, SectionPrivate
	default: // PolicyCookie
		switch {
		case icannMatched && privateMatched:
			if privateBest >= icannBest {
				best, matched, section = privateBest, true, SectionPrivate
			} else {
				best, matched, section = icannBest, true, SectionICANN
			}
		case icannMatched:
			best, matched, section = icannBest, true, SectionICANN
		case privateMatched:
			best, matched, section = privateBest, true, SectionPrivate
		}
	}

	if !matched {
		if policy != PolicyCookie {
			return ResolvedDomain{}, ErrUnableToResolveDomain
		}
		// No section matched: fall back to the single rightmost label,
		// tagged UNKNOWN.
		best, section = 0, SectionUnknown
	}

	if section == SectionUnknown {
		best = 1
	}
	if best >= h.Count() {
		return ResolvedDomain{}, ErrUnableToResolveDomain
	}

	// The suffix is built from h's own labels, but NewSuffix stores every
	// label in A-label form, so a host in Unicode form still yields a
	// suffix in A-label form, the same form the match itself ran against.
	hostLabels := h.Labels()
	suffixContent := joinReversed(hostLabels[:best])
	suffix, err := NewSuffix(&suffixContent, section, h.asciiOpts, h.unicodeOpts)
	if err != nil {
		return ResolvedDomain{}, err
	}

	return composeResolvedDomain(h, suffix, best)
}

// joinReversed joins a slice of labels stored in reverse DNS order into
// forward dotted form.
func joinReversed(labels []string) string {
	forward := make([]string, len(labels))
	copy(forward, labels)
	reverse(forward)
	out := ""
	for i, l := range forward {
		if i > 0 {
			out += "."
		}
		out += l
	}
	return out
}
