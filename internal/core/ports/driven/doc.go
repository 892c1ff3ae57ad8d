// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Build Interfaces
//
//   - CorpusLoader: Reads raw book files from the books directory
//   - Normaliser: Transforms raw documents into text
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessor / PostProcessorPipeline: Splits text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores unit vectors and answers inner-product queries
//   - ArtifactStore: Persists and loads the index and chunk artifacts as one pair
//
// # Ambient Interfaces
//
//   - ConfigStore: Application configuration
//   - AIConfigValidator: Connectivity checks for embedding providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
