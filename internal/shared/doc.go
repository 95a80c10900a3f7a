// Package shared holds helpers used by more than one layer of dataclean.
//
// # Structure
//
//   - testutil: log capture and dataset fixtures for tests
//
// Nothing here may import a domain package other than pkg/contracts.
package shared
