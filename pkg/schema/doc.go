// Package schema answers introspection questions about a table by querying
// the engine's information schema through a core.Driver.
//
// Every method builds one query, runs it and folds the rows. Absence is an
// empty result (false, nil slice, empty map), never an error; only driver
// failures are errors. Metadata holds no state beyond its driver and is safe
// for concurrent use.
package schema
