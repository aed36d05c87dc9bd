package psl

import (
	"net/url"
	"strings"
)

// Host is an immutable, ordered sequence of DNS labels, stored internally
// in reverse DNS order (TLD first, leftmost label last) together with the
// pair of IDNA option bitmasks that govern its ASCII and Unicode
// conversions. A zero-value Host (labels == nil) is the null host: it has
// no content and Count() == 0. A Host built from the empty string has
// exactly one label, the empty string, and Count() == 1 — spec.md's Open
// Question about new Host("") is resolved here: it is a distinct,
// non-null, single-label host, never collapsed into the null host; only
// resolver code (resolver.go) treats it as unresolvable.
type Host struct {
	labels      []string // reverse DNS order; nil means the null host
	trailingDot bool
	asciiOpts   Option
	unicodeOpts Option
}

// NewHost builds a Host from a nullable content string and the two IDNA
// option bitmasks. content == nil produces the null host.
//
// The string is URL-decoded once if it contains a "%XX" escape, ASCII
// lower-cased, and split on any of the four IDNA label separators. A
// trailing separator is recorded as a trailing-dot marker: it is preserved
// textually (Content() round-trips it) but adds no label, so it is
// excluded from Count() and Labels().
func NewHost(content *string, asciiOpts, unicodeOpts Option) (Host, error) {
	if !validOptions(asciiOpts) || !validOptions(unicodeOpts) {
		return Host{}, ErrInvalidDomain
	}
	if content == nil {
		return Host{asciiOpts: asciiOpts, unicodeOpts: unicodeOpts}, nil
	}
	return buildHost(*content, asciiOpts, unicodeOpts)
}

// buildHost is the shared construction path used by NewHost and by the
// structural mutators below, which must re-validate after splicing in new
// label text.
func buildHost(raw string, asciiOpts, unicodeOpts Option) (Host, error) {
	if strings.Contains(raw, "%") {
		if decoded, err := url.QueryUnescape(raw); err == nil {
			raw = decoded
		}
	}
	raw = asciiLower(raw)
	raw = standardLabelSeparatorReplacer.Replace(raw)

	if raw == "" {
		return Host{labels: []string{""}, asciiOpts: asciiOpts, unicodeOpts: unicodeOpts}, nil
	}

	trailingDot := strings.HasSuffix(raw, ".")
	trimmed := raw
	if trailingDot {
		trimmed = strings.TrimSuffix(raw, ".")
	}
	if trimmed == "" {
		// A lone trailing dot with no labels before it: preserve the dot,
		// no labels.
		return Host{trailingDot: true, asciiOpts: asciiOpts, unicodeOpts: unicodeOpts}, nil
	}

	forward := strings.Split(trimmed, ".")
	converted := make([]string, len(forward))
	var labelErrs []LabelError
	for i, label := range forward {
		if len(forward) != 1 && label == "" {
			return Host{}, ErrInvalidLabel
		}
		out, err := convertLabelToASCII(label, asciiOpts)
		if err != nil {
			labelErrs = append(labelErrs, LabelError{Label: label, Flags: classifyError(label, err)})
			continue
		}
		converted[i] = out
	}
	if len(labelErrs) > 0 {
		return Host{}, ErrInvalidLabel
	}
	for _, label := range converted {
		if err := validateLabelShape(label); err != nil {
			return Host{}, err
		}
	}
	if len(converted) >= 2 && isAllDigits(converted[len(converted)-1]) {
		return Host{}, ErrInvalidLabel
	}

	reversed := make([]string, len(converted))
	copy(reversed, converted)
	reverse(reversed)

	return Host{
		labels:      reversed,
		trailingDot: trailingDot,
		asciiOpts:   asciiOpts,
		unicodeOpts: unicodeOpts,
	}, nil
}

// asciiLower lower-cases only the ASCII letters of s; Unicode case folding
// is delegated to IDNA conversion, per spec.md 4.B.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// convertLabelToASCII converts label to its A-label form, skipping IDNA
// conversion entirely (and its idempotence cost) when label is already
// pure ASCII, per spec.md 4.B.
func convertLabelToASCII(label string, asciiOpts Option) (string, error) {
	if isASCIIRange(label) {
		return label, nil
	}
	profile := buildProfile(asciiOpts, true)
	out, err := profile.ToASCII(label)
	if err != nil {
		return "", err
	}
	return out, nil
}

// validateLabelShape enforces the per-label invariants of spec.md section
// 3 that are independent of IDNA conversion: length, hyphen placement,
// and character set.
func validateLabelShape(label string) error {
	if len(label) > maxLabelLength {
		return ErrInvalidLabel
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return ErrInvalidLabel
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
		if !isAlnum && c != '-' {
			return ErrInvalidLabel
		}
	}
	return nil
}

// IsNull reports whether h is the null host (no content at all).
func (h Host) IsNull() bool {
	return h.labels == nil && !h.trailingDot
}

// Content returns the canonical dot-joined form of h, or nil if h is the
// null host.
func (h Host) Content() *string {
	if h.IsNull() {
		return nil
	}
	forward := make([]string, len(h.labels))
	copy(forward, h.labels)
	reverse(forward)
	out := strings.Join(forward, ".")
	if h.trailingDot {
		out += "."
	}
	return &out
}

// Count returns the number of labels in h: 0 for the null host, 1 for the
// empty-string host, otherwise the label count (trailing dot excluded).
func (h Host) Count() int {
	return len(h.labels)
}

// Labels returns h's labels in reverse DNS order (TLD first).
func (h Host) Labels() []string {
	out := make([]string, len(h.labels))
	copy(out, h.labels)
	return out
}

// LabelAt returns the label at signed offset k (negative counts from the
// right, mirroring the reversed sequence), or ("", false) if k is out of
// range. It never errors: an out-of-range offset simply misses.
func (h Host) LabelAt(k int) (string, bool) {
	idx := k
	if idx < 0 {
		idx += h.Count()
	}
	if idx < 0 || idx >= h.Count() {
		return "", false
	}
	return h.labels[idx], true
}

// Keys returns every offset (in the same 0-based, TLD-first numbering as
// LabelAt's non-negative form) whose label equals s.
func (h Host) Keys(s string) []int {
	var out []int
	for i, label := range h.labels {
		if label == s {
			out = append(out, i)
		}
	}
	return out
}

// AsciiOption and UnicodeOption expose the IDNA bitmasks h carries.
func (h Host) AsciiOption() Option   { return h.asciiOpts }
func (h Host) UnicodeOption() Option { return h.unicodeOpts }

// Equal reports structural equality: same label sequence, same trailing
// dot, and the same IDNA options.
func (h Host) Equal(other Host) bool {
	if h.trailingDot != other.trailingDot || h.asciiOpts != other.asciiOpts || h.unicodeOpts != other.unicodeOpts {
		return false
	}
	if len(h.labels) != len(other.labels) {
		return false
	}
	for i := range h.labels {
		if h.labels[i] != other.labels[i] {
			return false
		}
	}
	return true
}

// WithLabel replaces the label at offset k with v, splicing in multiple
// labels if v itself contains dots.
//
// k == Count() is the prepend boundary (v becomes the new leftmost
// label); k == -(Count()+1) is the append boundary (v becomes the new
// rightmost label, extending the suffix). Any other |k| beyond those
// boundaries is ErrInvalidLabelKey.
//
// Resolved ambiguity (see DESIGN.md): a dot embedded in v is always split
// literally into extra labels, including a leading or trailing one, which
// therefore yields an empty label and fails validation — except at the
// append boundary, where a single trailing dot on v is interpreted as
// setting the host's trailing-dot marker rather than inserting an empty
// label, since that is the only position where a real-world caller means
// "make this a rooted host".
func (h Host) WithLabel(k int, v string) (Host, error) {
	count := h.Count()
	switch {
	case k == count:
		return h.spliceLabels(count, v, true)
	case k == -(count + 1):
		return h.appendLabel(v)
	case k < -(count+1) || k > count:
		return Host{}, ErrInvalidLabelKey
	}
	idx := k
	if idx < 0 {
		idx += count
	}
	if idx < 0 || idx >= count {
		return Host{}, ErrInvalidLabelKey
	}
	if v == "" {
		return Host{}, ErrInvalidLabel
	}
	return h.spliceLabels(idx, v, false)
}

// spliceLabels replaces the single internal-order position idx with the
// forward-order labels produced by splitting v on dots. insertAtEnd
// additionally allows idx == len(h.labels) to mean "insert after the
// current last element" for the prepend boundary.
func (h Host) spliceLabels(idx int, v string, insertAtEnd bool) (Host, error) {
	if v == "" {
		return Host{}, ErrInvalidLabel
	}
	parts := strings.Split(v, ".")
	for _, p := range parts {
		if p == "" {
			return Host{}, ErrInvalidLabel
		}
	}
	reverse(parts) // caller supplies v in forward order; internal storage is reverse order

	newLabels := make([]string, 0, len(h.labels)+len(parts))
	newLabels = append(newLabels, h.labels[:idx]...)
	newLabels = append(newLabels, parts...)
	if !insertAtEnd {
		newLabels = append(newLabels, h.labels[idx+1:]...)
	} else {
		newLabels = append(newLabels, h.labels[idx:]...)
	}

	forward := make([]string, len(newLabels))
	copy(forward, newLabels)
	reverse(forward)
	content := strings.Join(forward, ".")
	if h.trailingDot {
		content += "."
	}
	return buildHost(content, h.asciiOpts, h.unicodeOpts)
}

// appendLabel implements the append boundary (k == -(Count()+1)): v
// becomes the new rightmost label (new TLD), extending the suffix. A
// single trailing dot on v sets the trailing-dot marker instead of
// inserting an empty label.
func (h Host) appendLabel(v string) (Host, error) {
	trailingDot := h.trailingDot
	if strings.HasSuffix(v, ".") && !strings.HasSuffix(v, "..") {
		trailingDot = true
		v = strings.TrimSuffix(v, ".")
	}
	if v == "" {
		return Host{}, ErrInvalidLabel
	}
	parts := strings.Split(v, ".")
	for _, p := range parts {
		if p == "" {
			return Host{}, ErrInvalidLabel
		}
	}
	reverse(parts)

	newLabels := make([]string, 0, len(h.labels)+len(parts))
	newLabels = append(newLabels, parts...)
	newLabels = append(newLabels, h.labels...)

	forward := make([]string, len(newLabels))
	copy(forward, newLabels)
	reverse(forward)
	content := strings.Join(forward, ".")
	if trailingDot {
		content += "."
	}
	return buildHost(content, h.asciiOpts, h.unicodeOpts)
}

// Prepend is a convenience wrapper over WithLabel at the prepend
// boundary: v becomes the new leftmost label.
func (h Host) Prepend(v string) (Host, error) {
	return h.WithLabel(h.Count(), v)
}

// Append is a convenience wrapper over WithLabel at the append boundary:
// v becomes the new rightmost label.
func (h Host) Append(v string) (Host, error) {
	return h.WithLabel(-(h.Count() + 1), v)
}

// WithoutLabel removes the labels at the given offsets. Offsets are
// normalized to non-negative, deduplicated, and validated; removing every
// label yields the null host.
func (h Host) WithoutLabel(keys ...int) (Host, error) {
	count := h.Count()
	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		idx := k
		if idx < 0 {
			idx += count
		}
		if idx < 0 || idx >= count {
			return Host{}, ErrInvalidLabelKey
		}
		seen[idx] = true
	}
	var kept []string
	for i, label := range h.labels {
		if !seen[i] {
			kept = append(kept, label)
		}
	}
	if len(kept) == 0 {
		return Host{asciiOpts: h.asciiOpts, unicodeOpts: h.unicodeOpts}, nil
	}
	forward := make([]string, len(kept))
	copy(forward, kept)
	reverse(forward)
	content := strings.Join(forward, ".")
	if h.trailingDot {
		content += "."
	}
	return buildHost(content, h.asciiOpts, h.unicodeOpts)
}

// ToASCII converts every label of h to A-label form. It returns h
// unchanged when no conversion is needed (spec.md property 8: hosts whose
// content is entirely in [\x20-\x7f] round-trip through ToASCII as a
// no-op).
func (h Host) ToASCII() (Host, error) {
	content := h.Content()
	if content == nil {
		return h, nil
	}
	out, err := toASCIIHost(*content, h.asciiOpts)
	if err != nil {
		return Host{}, err
	}
	if out == *content {
		return h, nil
	}
	return buildHost(out, h.asciiOpts, h.unicodeOpts)
}

// ToUnicode converts every label of h to U-label form, the mirror of
// ToASCII.
func (h Host) ToUnicode() (Host, error) {
	content := h.Content()
	if content == nil {
		return h, nil
	}
	out, err := toUnicodeHost(*content, h.unicodeOpts)
	if err != nil {
		return Host{}, err
	}
	if out == *content {
		return h, nil
	}
	forward := strings.Split(strings.TrimSuffix(out, "."), ".")
	reverse(forward)
	return Host{labels: forward, trailingDot: h.trailingDot, asciiOpts: h.asciiOpts, unicodeOpts: h.unicodeOpts}, nil
}

// WithAsciiIdnaOption returns h with its ASCII IDNA option bitmask set to
// o, or h unchanged if o already equals the current value.
func (h Host) WithAsciiIdnaOption(o Option) (Host, error) {
	if !validOptions(o) {
		return Host{}, ErrInvalidDomain
	}
	if o == h.asciiOpts {
		return h, nil
	}
	h.asciiOpts = o
	return h, nil
}

// WithUnicodeIdnaOption returns h with its Unicode IDNA option bitmask
// set to o, or h unchanged if o already equals the current value.
func (h Host) WithUnicodeIdnaOption(o Option) (Host, error) {
	if !validOptions(o) {
		return Host{}, ErrInvalidDomain
	}
	if o == h.unicodeOpts {
		return h, nil
	}
	h.unicodeOpts = o
	return h, nil
}

// HasTrailingDot reports whether h's textual form ends in a label
// separator, e.g. "example.com.".
func (h Host) HasTrailingDot() bool {
	return h.trailingDot
}

// TransitionallyDifferent reports whether h's ToASCII output differs
// between TRANSITIONAL and NONTRANSITIONAL_TO_ASCII processing, the
// UTS#46 deviation-character test (spec.md 4.A). The comparison runs on
// h's Unicode form, since its stored A-labels already carry the
// nontransitional mapping.
func (h Host) TransitionallyDifferent() bool {
	content := h.Content()
	if content == nil {
		return false
	}
	unicode, err := toUnicodeHost(*content, h.unicodeOpts)
	if err != nil {
		return false
	}
	return transitionallyDifferent(unicode)
}
