// Package zschema declares a nested data shape once and derives from it a
// BigQuery table schema, an Elasticsearch mapping, a proto3 message, flat
// field listings and documentation trees. It also validates JSON-like
// documents against the shape.
//
// A schema is a tree of nodes: leaves from a fixed catalog (String,
// IPv4Address, Unsigned32BitInteger, DateTime, ...), ListOf, NestedListOf and
// SubRecord, rooted in a Record:
//
//	host := zschema.MustRecord(zschema.Definition{
//		zschema.Name("ipstr"): zschema.IPv4Address(zschema.Required(true)),
//		zschema.Port(443): zschema.MustSubRecord(zschema.Definition{
//			zschema.Name("tls"): zschema.String(),
//		}),
//		zschema.Name("tags"): zschema.MustListOf(zschema.String()),
//	})
//	fields, err := host.BigQuery()
//	mapping := host.Elasticsearch("host")
//	err = host.Validate(doc)
//
// Validation failures are graded by policy. Each node has an error, warn,
// ignore or inherit policy; inherit takes the policy of the enclosing node and
// a Record defaults to error. WithPolicy overrides every node for one run.
// Issues carry the JSON Pointer of the offending value; Report.Err returns the
// error-severity ones as Issues, which implements error.
//
// Faults in the schema itself (nil children, '-' in field names, missing proto
// field numbers) are reported as *SchemaError and are never policy governed.
//
// Schemas are read-only after construction and safe for concurrent use.
package zschema
