// Package server implements the transport and HTTP surface of the Salachat
// hub: WebSocket upgrades, per-client read/write pumps, the hub event loop
// that drives the chat core, and the surrounding configuration, origin
// checking, middleware, and auth endpoint.
//
// The implementation is organized into specialized files for configuration,
// hub management, clients, routing, and HTTP handlers to keep the codebase
// maintainable and testable as the project grows.
package server
