// Package normalisers provides implementations of the Normaliser interface
// for the book formats the corpus accepts. Each normaliser knows how to
// extract text content from a specific MIME type.
//
// Normalisers are registered with the Registry at startup; the index
// builder dispatches every loaded file through it.
package normalisers
