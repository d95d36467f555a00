// Package handler implements the read-only preview API for davitframe.
//
// PreviewHandler serves one built frame assembly. The watcher swaps in a new
// frame with SetSpec when the config file changes; an invalid spec leaves the
// previous frame in place.
//
// # Routes
//
//	GET /api/spec             effective frame specification
//	GET /api/frame            full assembly as JSON
//	GET /api/cutlist          cut list, fabrication notes and part counts
//	GET /api/formats          export formats and their download paths
//	GET /api/export/{format}  download in dxf, step, obj, json or yaml
//	GET /render.png           still; ?azim= and ?elev= in degrees
//	GET /render.gif           rotating animation
//
// # Response Format
//
// Success responses return JSON or the exported file. Error responses return
// JSON with {error, details} structure: 404 for unknown formats, 400 for
// malformed camera angles.
//
// # Middleware
//
// Chain composes Recover, CORS and Logger around the mux.
package handler
