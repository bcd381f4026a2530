// Package pipeline wires the imaging and detection stages into the complete
// thermal delamination scan: load, normalize, threshold, denoise, cluster,
// render, export.
//
// The per-file pipeline is a pure, referentially transparent sequence: the
// same input file and Config always produce byte-identical output. Batch
// processing fans independent files out to a bounded worker pool and
// aggregates per-file outcomes; a failure in one file never aborts the rest
// of the batch. Configuration, by contrast, is validated once up front; an
// invalid Config aborts the whole batch before any file is read.
//
// The Previewer supports interactive front ends: each new preview request
// cancels the in-flight run and supersedes its result (last-request-wins),
// so a stale overlay is never presented after a newer request has started.
package pipeline
