// Package internal holds signing-key generation shared by the engine and the tooling.
// Subpackages carry the audit dispatcher and the security report.
package internal
