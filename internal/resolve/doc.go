// Package resolve holds the ambiguity resolvers: pure annotation functions
// over a BookRecord that decide each category of ambiguity with a documented
// heuristic and record the result with confidence and provenance metadata.
//
// Resolvers never fabricate values. When a heuristic cannot decide, the
// attribute is marked absent and the destination's own defaulting applies.
// The venue resolver is split: the search itself runs in the workflow (it
// needs the driver), while the selection policy lives here.
package resolve
