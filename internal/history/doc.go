// Package history keeps a small SQLite ledger of finished runs.
//
// Every merge and imposition records its outcome, row/page totals, and
// first error so operators can answer "what did this machine produce
// yesterday" without scraping terminal output. Recording is best effort;
// a broken ledger never fails a run.
package history
