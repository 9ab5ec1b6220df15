// Package services implements the external collaborators of the download pipeline.
//
// # Catalog
//
// [Catalog] is the video platform the pipeline searches and fetches from. It is a black box to the
// pipeline: "search by query string" and "fetch by locator", either of which may fail.
//
// [YTDLPCatalog] implements it for YouTube by driving the yt-dlp executable:
//   - Search issues "ytsearchN:<query>" with a JSON dump and no download, throttled by a [rate.Limiter]
//   - Fetch downloads "bestaudio/best" and extracts audio with the configured codec and quality
//
// ffmpeg must be on PATH for audio extraction.
//
// # Metadata Source
//
// [MetadataSource] turns a track reference into [models.SongMetadata].
// [SpotifyService] implements it with the client credentials flow; the token is refreshed by [clientcredentials.Config].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client ID or secret not configured
//   - [shared.ErrNotAuthenticated] : token request rejected
//   - [shared.ErrTrackNotFound] : Spotify returned 404 for the track
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
package services
