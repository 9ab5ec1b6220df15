// Package models defines the values that flow through a single song download.
//
// The package contains two categories of types:
//
// 1. Pipeline values: transient, built and consumed within one run
//   - [SongMetadata] : artists, title and album of the requested track
//   - [CatalogEntry] : one search result reported by the catalog provider
//   - [ResolvedSource] : a catalog entry that passed the title match
//   - [Resolution] : the resolver's answer, either resolved or not found
//   - [Outcome] : the terminal result of one run (skipped, downloaded, not found, failed)
//   - [FetchOptions] : codec, quality and quiet settings forwarded to the provider
//
// 2. Persistent entities: database-backed history
//   - [DownloadRecord] : one recorded outcome
//
// Persistent entities implement the Model interface; the Repository[T] interface defines the storage operations.
package models
