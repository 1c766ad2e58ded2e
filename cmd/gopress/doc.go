// Command gopress merges variable data into document templates and imposes
// finished documents onto press sheets.
package main
