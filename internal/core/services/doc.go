// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IndexBuilder: books directory to a persisted index generation
//   - Retriever: similarity search and random sampling over the loaded index
//   - InterviewService: question and answer context for the interviewer
//   - EvaluationService: concept-level precision and recall of retrieval
//   - SettingsService: configuration with provider defaults
//
// Services depend only on domain and ports; adapters are wired in by the
// command layer.
package services
