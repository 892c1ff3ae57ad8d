// Package connectors provides the corpus loaders that read book files
// into raw documents for the index builder.
package connectors
