// Package service implements the generation pipeline for davitframe.
//
// Generator sits between the entry points (CLI, preview server, watcher) and
// the pure packages: it builds a FrameAssembly from a FrameSpec once and fans
// the read-only assembly out to the codec exporters and the renderer.
//
// # Generation
//
// Generate writes every requested output concurrently with errgroup. Each
// file is written to a temp file beside its target and renamed into place;
// the returned Artifact records its size and SHA-256. Unknown formats are
// rejected before the output directory is touched.
//
// # Event System
//
// The generator publishes progress via EventBus: frame built, generation
// started, one event per artifact, completed or failed. The watcher adds
// config reload events. Slow subscribers are skipped rather than blocking
// the pipeline.
//
// # Design Principles
//
// - The assembly is built once and never mutated
// - Context-aware for cancellation
// - Errors carry the format or path that failed
package service
