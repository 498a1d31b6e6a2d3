// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared contracts for the secbuf library: configuration structs,
// statistics snapshots, and error values used across packages.
//
// The api package holds plain data only. Implementations live in
// buffer, ring, pool and connection.
package api
