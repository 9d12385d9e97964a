// Package interfaces documents the core abstractions used throughout the application.
//
// # Data Access Interfaces
//
//   - ExclusionStore: Ledger-backed exclusion records (internal/http/exclusions.go)
//   - ExclusionSource: Exclusion snapshot consumed by the parser (internal/clippings/parser.go)
//
// # Library Pipeline Interfaces
//
//   - BookParser: Produces the exclusion-filtered book list (internal/library/assembler.go)
//   - CoverCache: On-disk cover store (internal/library/assembler.go)
//   - CoverResolver: Remote cover lookup chain (internal/library/assembler.go)
//   - BookAssembler: Full library view for the HTTP facade (internal/http/books.go)
//
// # Adding a New Cover Source
//
// To add another remote cover source, extend the chain in
// internal/covers/resolver.go: sources are tried in priority order and the
// first plausible image wins. Keep the contract: time-bounded calls, bytes
// or nil, never an error.
//
// # Compile-Time Interface Checks
//
// All implementations include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
