package psl

import "errors"

// Error kinds returned by the core value types and the resolver.
//
// Callers identify a failure with errors.Is against these sentinels;
// wrapping with fmt.Errorf("%w", ...) preserves that identity while
// adding call-site context.
var (
	// ErrInvalidDomain is raised when a Host's content is null where a
	// non-null value is required, or when IDNA validation of a host fails.
	ErrInvalidDomain = errors.New("psl: invalid domain")

	// ErrInvalidLabel is raised when a single label fails validation:
	// empty, too long, disallowed character, or hyphen misuse.
	ErrInvalidLabel = errors.New("psl: invalid label")

	// ErrInvalidLabelKey is raised when a mutation offset falls outside
	// [-count-1, count].
	ErrInvalidLabelKey = errors.New("psl: invalid label key")

	// ErrUnableToResolveDomain is raised when a host has too few labels,
	// a trailing dot, equals its own matched suffix, or the requested
	// policy's section has no match for it.
	ErrUnableToResolveDomain = errors.New("psl: unable to resolve domain")

	// ErrUnableToResolveSubDomain is raised by a sub-domain mutation on a
	// Resolved Domain that has no registrable domain.
	ErrUnableToResolveSubDomain = errors.New("psl: unable to resolve sub-domain")

	// ErrInvalidRules is raised when Public Suffix List text cannot be parsed.
	ErrInvalidRules = errors.New("psl: invalid rules")

	// ErrUnableToLoadPublicSuffixList is surfaced only by the HTTP fetch
	// collaborator that loads PSL data from outside the core.
	ErrUnableToLoadPublicSuffixList = errors.New("psl: unable to load public suffix list")
)
