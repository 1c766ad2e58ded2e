// Package testsupport provides the in-memory document engine fake and small
// file fixtures shared by gopress tests.
//
// The fake engine implements pdfengine.Factory and pdfengine.Session,
// recording every composition call so tests can assert on output structure,
// fill contents, and handle release ordering without a real rendering
// engine.
package testsupport
