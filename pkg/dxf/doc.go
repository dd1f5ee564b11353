// Package dxf defines the in-memory model of a parsed drawing exchange document.
//
// # Overview
//
// A DXF file is a flat stream of group codes: integer keys paired with string
// values. This package groups those pairs into the structures every consumer
// works with:
//
//   - [Pair]: one (code, value) datum
//   - [Record]: an ordered list of pairs (one entity, table row, or header variable)
//   - [Document]: the named sections (HEADER, CLASSES, TABLES, BLOCKS, ENTITIES, OBJECTS)
//
// # Records
//
// Codes inside a [Record] are neither unique nor sorted. Polyline-like
// entities repeat their vertex codes, so lookups come in two flavours:
//
//	layer := rec.Get(8)       // first occurrence
//	xs := rec.Values(10)      // every occurrence, in document order
//
// An entity record always starts with code 0 carrying its type tag:
//
//	rec.Type() // "LINE", "INSERT", "MTEXT", ...
//
// # Immutability
//
// Nothing in this module mutates a [Document] once it has been built. Renderers
// and the pipeline treat it as read-only input, so a single document may be
// rendered concurrently.
package dxf
