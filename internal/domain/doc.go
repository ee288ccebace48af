// Package domain contains the core domain entities and value objects for shelfport.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (browser driver, file system,
// logging) and contains only pure business data and rules.
//
// # Entities
//
//   - [BookRecord]: The canonical, merged, annotated representation of one book
//   - [Field]: One attribute value with confidence and origin metadata
//   - [SourceCandidate], [VenueCandidate]: Transient search results
//   - [ImportOutcome]: The per-book result accumulated into the ledger
//
// # Design Principles
//
// Domain entities are:
//   - Owned by one pipeline stage at a time (no concurrent mutation)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
