// Package bridge reads XML documents into records of a caller-supplied
// record schema.
//
// A Bridge is built in three steps, each of which may fail before any
// document is read:
//
//  1. the XML Schema is walked into a write type (WriteType),
//  2. the write type is resolved against the read schema into a resolver
//     graph (New),
//  3. documents are streamed through the graph (Bridge.Parse).
//
// NewFromSchema combines the first two steps. A Bridge is immutable and safe
// for concurrent use.
package bridge
