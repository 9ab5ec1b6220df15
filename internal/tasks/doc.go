// Package tasks resolves songs to catalog sources and downloads them, one run per song.
//
// # Pipeline
//
// A run moves through three components:
//
//  1. [BuildQuery] : joins artists and title into a deterministic search string
//  2. [SourceResolver.Resolve] : searches the catalog and applies the title match
//     - primary query is "<artists>, <title> audio"; the first entry must contain the title
//     - on a miss, exactly one fallback search adds the album to the query
//     - the fallback's result is never downloaded, even when it matches; the run reports not found
//  3. [DownloadOrchestrator.Run] : idempotency guard, resolution, fetch
//
// Every run ends with exactly one [models.Outcome]: skipped, downloaded, not found or failed.
// Provider failures during search or fetch surface as [ProviderError] and become failed outcomes;
// nothing is retried beyond the single fallback search.
//
// # Idempotency
//
// A run whose target file already exists is skipped before any provider call. This is an existence
// check only: a partial file with the right name counts as done.
//
// # Progress Reporting
//
// [DownloadOrchestrator.RunWithProgress] emits [ProgressUpdate]s on an optional channel.
// Updates use select with default so reporting never blocks a run.
//
// # Batches
//
// [Batch] is the external loop: it calls the orchestrator once per song with bounded concurrency,
// serializing runs that share a target filename. Optional hooks tag downloaded files and record
// every outcome; their errors are logged and never change the outcome.
package tasks
