// Package idgen provides ID generation utilities.
//
// Includes Snowflake ID generator and UUID utilities.
//
// Snowflake usage:
//
//	gen, err := idgen.NewSnowflake(1) // node ID
//	id := gen.Generate()
//
// UUID usage:
//
//	id := idgen.UUID()              // v4 UUID string
//	raw := idgen.UUIDWithoutHyphen() // the same form without hyphens
package idgen
