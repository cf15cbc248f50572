// Package http serves the read-only content API.
//
// Every enabled endpoint mounts two routes under the base path (default
// /api/v1), with and without the trailing slash:
//   - Listing: /{endpoint}/
//   - Detail: /{endpoint}/{id}/
//
// The base path itself answers with the URL of every listing. Route names
// follow the "{endpoint}:listing" and "{endpoint}:detail" convention and can be
// reversed with API.URL.
//
// Host applications can register the handlers on their own mux as needed.
package http
