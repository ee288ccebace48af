// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the application needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Driver]: Semantic operations against the destination's web forms
//   - [SessionStore]: Persists and loads the opaque session blob
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app, internal/workflow) depends only on
// these interfaces. Infrastructure adapters (internal/adapters) implement
// them with concrete backends (go-rod browser, file system, zerolog).
//
// This separation enables:
//   - Testing reconciliation logic with scripted fake drivers
//   - Swapping the automation backend without changing business logic
//   - Clear boundaries and dependency direction
package ports
