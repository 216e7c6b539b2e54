// Package trust implements the credential trust engine: per-skill
// proficiency scoring, endorsement aggregation, skill graph
// construction, and the weighted overall trust score. All operations
// are pure functions over a credential list; none of them panic on
// malformed input.
package trust
