// Package driving defines the interfaces through which external actors
// drive the core (primary/inbound ports).
//
// The CLI and MCP server depend on these interfaces; core services
// implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driving
