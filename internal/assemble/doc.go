// Package assemble streams XML documents into records.
//
// Stream drives a Handler from encoding/xml tokens. The Assembler handler
// walks a resolver graph built by package resolve: each element start pushes
// a frame with the child resolver and a fresh collector, each element end
// completes the collector and hands the value to the parent frame. The
// Unparsed adapter sits in front of the assembler and turns the content of
// elements whose resolver does not parse content into one escaped markup
// chunk. The Validator handler checks documents against the write type.
//
// Parser ties these together. It owns one resolver graph and creates a fresh
// assembler per document, so one Parser may be used from several goroutines.
package assemble
