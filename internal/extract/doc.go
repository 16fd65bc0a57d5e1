// Package extract turns parsed HTML pages into validated quote records
// and filters duplicates by content fingerprint.
//
// # Selector Semantics
//
// Each extraction field carries an ordered list of CSS selector
// candidates, and two different strategies apply:
//
//   - Container, text, author, and next-page fields use
//     first-match-wins: candidates are tried in order and the first one
//     producing a non-empty result ends the search. The absence of a
//     match for an earlier candidate is normal, not an error.
//   - Tags use union semantics: every candidate is tried and all
//     matched elements contribute. Duplicate tag texts from repeated
//     elements are preserved; only whole records are deduplicated.
//
// # Failure Granularity
//
// A structurally broken container is skipped silently; one bad quote
// never aborts the page. A page where no container selector matches
// yields an empty result, which the caller logs as a warning.
package extract
