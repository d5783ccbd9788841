package resolve

// Provenance of a resolution candidate, in priority order.
// ENUM(sourceMap, rootOption, literal)
type CandidateOrigin int

// Severity of a non-fatal diagnostic.
// ENUM(warning, error)
type Severity int
