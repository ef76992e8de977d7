// Package domain defines the core business entities for MindPilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AnalysisUnit: A bounded slice of input text analysed in one call
//   - Finding: A detected reasoning pattern with name and severity
//   - CacheKey / CacheEntry: Reusable prior work and its freshness
//   - UsageRecord / Tier: Quota accounting and plan policy
//   - IdentityRef: Who a request is counted against
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
