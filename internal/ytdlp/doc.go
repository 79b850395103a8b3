// Package ytdlp fetches media metadata by running yt-dlp with
// --dump-single-json and wrapping its output as a metadata.Document.
//
// Command execution sits behind the Executor interface so tests can stub the
// binary. Every failure is reported with services.ErrRemoteFetch; callers
// never see raw exec errors.
package ytdlp
