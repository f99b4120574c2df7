// Package openapi adapts OpenAPI documents to the canonical schema tree so
// descriptor extraction can document component schemas and request bodies the
// same way it documents standalone JSON Schema files.
//
// The adapter loads a document through the shared loader contract, parses it
// with kin-openapi, and converts the selected schema (a named component or an
// operation's JSON request body) into a schema.Schema. OpenAPI property maps
// carry no document order, so converted objects fall back to sorted property
// iteration.
package openapi
