package psl

import (
	"strings"

	"golang.org/x/net/idna"
)

// Option is a bitmask of IDNA 2008 / UTS#46 conversion options threaded
// through every Host and Suffix value. There is no process-wide IDNA
// state; every conversion takes its options explicitly.
type Option uint32

// The fixed set of IDNA options a Host may carry. Combinations outside
// this set are rejected by validOptions.
const (
	Transitional Option = 1 << iota
	NontransitionalToASCII
	NontransitionalToUnicode
	CheckBidi
	CheckContextJ
	UseSTD3ASCIIRules

	allOptions = Transitional | NontransitionalToASCII | NontransitionalToUnicode |
		CheckBidi | CheckContextJ | UseSTD3ASCIIRules
)

func validOptions(o Option) bool {
	return o&^allOptions == 0
}

// LabelFlag records the reason a single label failed IDNA conversion.
type LabelFlag uint16

// Per-label error flags produced by a conversion attempt.
const (
	FlagEmptyLabel LabelFlag = 1 << iota
	FlagLabelTooLong
	FlagDisallowedChar
	FlagHyphenMisuse
	FlagBidiError
	FlagContextJError
	FlagPunycodeError
	FlagInvalidACELabel
)

// LabelError reports the flags raised while converting one label.
type LabelError struct {
	Label string
	Flags LabelFlag
}

const maxLabelLength = 63

// buildProfile maps an Option bitmask onto an x/net/idna Profile. toASCII
// selects between the ASCII-conversion option subset and the
// Unicode-conversion option subset, since spec.md keeps them independent
// bitmasks on Host even though they compile to profiles that share most
// knobs.
func buildProfile(o Option, toASCII bool) *idna.Profile {
	opts := []idna.Option{
		idna.MapForLookup(),
		idna.ValidateLabels(true),
		idna.CheckHyphens(true),
		idna.VerifyDNSLength(false),
		idna.StrictDomainName(o&UseSTD3ASCIIRules != 0),
	}
	if toASCII {
		opts = append(opts, idna.Transitional(o&Transitional != 0 && o&NontransitionalToASCII == 0))
	} else {
		opts = append(opts, idna.Transitional(o&Transitional != 0 && o&NontransitionalToUnicode == 0))
	}
	if o&CheckBidi != 0 {
		opts = append(opts, idna.BidiRule())
	}
	if o&CheckContextJ != 0 {
		opts = append(opts, idna.CheckJoiners(true))
	}
	return idna.New(opts...)
}

// classifyError maps an x/net/idna conversion error onto the flag set a
// caller can branch on, since the upstream package does not expose the
// UTS#46 violation categories directly.
func classifyError(label string, err error) LabelFlag {
	if err == nil {
		return 0
	}
	msg := err.Error()
	switch {
	case label == "":
		return FlagEmptyLabel
	case len(label) > maxLabelLength:
		return FlagLabelTooLong
	case strings.Contains(msg, "bidi"):
		return FlagBidiError
	case strings.Contains(msg, "joiner") || strings.Contains(msg, "ZWJ") || strings.Contains(msg, "ZWNJ"):
		return FlagContextJError
	case strings.HasPrefix(label, "xn--") || strings.Contains(msg, "punycode"):
		return FlagPunycodeError
	case strings.Contains(msg, "hyphen") || strings.Contains(msg, "-"):
		return FlagHyphenMisuse
	default:
		return FlagDisallowedChar
	}
}

// convertHost runs every label of content through profile, aggregating
// per-label errors. The empty host ("") passes through unchanged per
// spec.md 4.A; the null host never reaches this far since Host.ToASCII and
// Host.ToUnicode short-circuit on a nil Content() before calling in.
func convertHost(content string, profile *idna.Profile, toASCII bool) (string, []LabelError) {
	if content == "" {
		return content, nil
	}
	trailingDot := strings.HasSuffix(content, ".")
	trimmed := strings.TrimSuffix(content, ".")
	if trimmed == "" {
		return content, nil
	}
	rawLabels := strings.Split(trimmed, ".")
	outLabels := make([]string, len(rawLabels))
	var labelErrs []LabelError
	for i, label := range rawLabels {
		var (
			converted string
			err       error
		)
		if toASCII {
			converted, err = profile.ToASCII(label)
		} else {
			converted, err = profile.ToUnicode(label)
		}
		if err != nil {
			labelErrs = append(labelErrs, LabelError{Label: label, Flags: classifyError(label, err)})
			converted = label
		}
		outLabels[i] = converted
	}
	out := strings.Join(outLabels, ".")
	if trailingDot {
		out += "."
	}
	return out, labelErrs
}

// toASCIIHost converts a whole dot-joined host to its A-label form under
// opts. If any label raises a flag, the conversion fails with
// ErrInvalidDomain; the per-label flags are not returned to the caller.
func toASCIIHost(content string, opts Option) (string, error) {
	if !validOptions(opts) {
		return content, ErrInvalidDomain
	}
	out, errs := convertHost(content, buildProfile(opts, true), true)
	if len(errs) > 0 {
		return content, ErrInvalidDomain
	}
	return out, nil
}

// toUnicodeHost converts a whole dot-joined host to its U-label form
// under opts, by the same failure rule as toASCIIHost.
func toUnicodeHost(content string, opts Option) (string, error) {
	if !validOptions(opts) {
		return content, ErrInvalidDomain
	}
	out, errs := convertHost(content, buildProfile(opts, false), false)
	if len(errs) > 0 {
		return content, ErrInvalidDomain
	}
	return out, nil
}

// transitionallyDifferent reports whether ToASCII under TRANSITIONAL and
// under NONTRANSITIONAL_TO_ASCII produce distinct output for content,
// e.g. "faß.de" (ß maps differently under the two regimes).
func transitionallyDifferent(content string) bool {
	transitional, errT := convertHostErr(content, Transitional)
	nontransitional, errN := convertHostErr(content, NontransitionalToASCII)
	if errT != nil || errN != nil {
		return false
	}
	return transitional != nontransitional
}

func convertHostErr(content string, opts Option) (string, error) {
	out, errs := convertHost(content, buildProfile(opts, true), true)
	if len(errs) > 0 {
		return "", ErrInvalidDomain
	}
	return out, nil
}
