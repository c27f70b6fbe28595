package tasty

import "fmt"

// UnsupportedFeatureError is raised for a dialect construct the core
// deliberately refuses to decode (§7 kind 1): union types, match types,
// inline if/match, closures, explicit returns, TASTy holes, and the like,
// plus dialect-only flags on a kind that does not accept them.
//
// Recovery: the currently-completing symbol's info is set to an error
// type by the caller before this propagates; the error is reported at the
// artifact boundary without aborting the whole run.
type UnsupportedFeatureError struct {
	Feature  string // the refused construct's noun, e.g. "match type"
	Location string // enclosing-owner chain, computed by the caller
	InAnnotation bool
}

func (e *UnsupportedFeatureError) Error() string {
	if e.InAnnotation {
		return fmt.Sprintf("unsupported feature %q while reading annotation at %s", e.Feature, e.Location)
	}
	return fmt.Sprintf("unsupported feature %q at %s", e.Feature, e.Location)
}

// TypeError is raised for assertion-level wire or shape violations (§7
// kind 2): cursor not at expected end, missing symbol at an address that
// must already exist, a class parent that isn't a constructor application.
// These abort unpickling of the current artifact.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return "tasty: " + e.Msg }

// CyclicReferenceError is raised when the cycle guard observes an address
// already InProgress (§7 kind 3). Fatal for the current artifact.
type CyclicReferenceError struct {
	Addr Addr
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("tasty: cyclic reference at %v", e.Addr)
}

// unsupported is a small helper for raising UnsupportedFeatureError with a
// location derived from ctx's owner chain.
func unsupported(ctx *Context, feature string) {
	panic(&UnsupportedFeatureError{
		Feature:      feature,
		Location:     ctx.OwnerChainString(),
		InAnnotation: ctx.ModeBits().Has(ModeReadingAnnotation),
	})
}

func typeErrorf(format string, args ...any) {
	panic(&TypeError{Msg: fmt.Sprintf(format, args...)})
}
