// Package impose rearranges finished documents into N-up imposed sheets.
//
// For each input file the engine computes a signature (which source page
// lands in which grid slot on which sheet) and a placement table (front and
// duplex-mirrored back coordinates per slot), then composes one output
// document per input under the same worker-pool and progress pattern the
// merge pipeline uses. All layout arithmetic is pure and lives in
// ComputeLayout.
package impose
