// Package repositories provides persistence for the download history.
//
// [DownloadRepository] implements models.Repository[*models.DownloadRecord] on SQLite and
// tasks.OutcomeRecorder, so a batch can record every outcome as it happens.
// History is never read by the pipeline itself; the idempotency guard only looks at the filesystem.
package repositories
