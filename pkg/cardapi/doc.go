// Package cardapi is a client for the remote card-compositing service.
//
// The service exposes two endpoints:
//
//   - POST /generate-card: multipart form with the logo file, its normalized
//     placement (logoX, logoY, logoScale as 4-decimal strings) and either a
//     prompt + style (mode=generate) or a background file (mode=upload).
//     Success is an image/* body; failure is JSON {"error": "..."}.
//   - POST /improve-prompt: JSON {"prompt": "..."} answered with
//     {"improved_prompt": "..."} or {"error": "..."}.
//
// Requests are never retried. A failed submission surfaces one user-facing
// message (errors.UserMessage in pkg/errors) and the caller may submit again.
// Every request carries an X-Request-ID header for correlating client logs
// with service logs.
package cardapi
