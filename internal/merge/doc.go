// Package merge implements the variable-data merge pipeline.
//
// A Controller loads the delimited row data, resolves each row's template
// document and page count, partitions the rows into page-bounded chunks, and
// runs one worker per chunk on a fixed-size pool. Every worker owns a
// private engine session, a resource cache of opened templates and loaded
// block resources, and one output document that it composes strictly
// sequentially: per row, per template page, per named block. Progress and
// warnings flow through the shared progress collector; a fatal error in one
// chunk winds down the sibling workers cooperatively.
package merge
