// Package core defines the shared vocabulary of sqlmeta.
//
// This package contains:
//   - The execution boundary (Driver, StatementFunc)
//   - Result rows (Row)
//   - Table descriptors (Table, Column)
//   - Adapter connection settings (AdapterConfig)
//
// core imports only pkg/query and the standard library. Adapters and the
// schema package depend on core, not the reverse.
package core
