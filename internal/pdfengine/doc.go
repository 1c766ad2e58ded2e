// Package pdfengine defines the typed adapter contract for the underlying
// document-rendering engine.
//
// The engine itself lives outside this repository; gopress only needs a
// handle-based surface for opening template documents, enumerating pages and
// named blocks, composing output documents, and filling blocks with text,
// images, embedded PDF pages, or vector graphics. Concrete bindings register
// themselves through Register, mirroring database/sql driver registration, so
// the CLI and tests can select an engine by name without linking it here.
//
// Sessions are not safe for concurrent use. Every merge or imposition worker
// owns exactly one Session for its lifetime and releases the handles it
// acquired before closing it.
package pdfengine
