package ephem

import "errors"

var (
	// ErrUnknownBody reports a body the catalog cannot name or the
	// registry cannot anchor to the barycenter.
	ErrUnknownBody = errors.New("unknown body")

	// ErrMalformedSegmentGraph reports a segment set that is not a
	// forest: duplicate targets or a center loop.
	ErrMalformedSegmentGraph = errors.New("malformed segment graph")

	// ErrNoCommonCenter reports a body pair whose chains do not both
	// reach the barycenter.
	ErrNoCommonCenter = errors.New("no common center")

	// ErrLightTimeDivergence reports a light-time iteration that did
	// not settle within its round bound.
	ErrLightTimeDivergence = errors.New("light-time iteration diverged")
)
