// Package domain defines the parametric geometry model of the davit support frame.
//
// This package contains the structural primitives and the assembly that
// composes them. Everything here is pure computation: no file formats, no
// rendering, no I/O.
//
// # Primitives
//
// Tube is a hollow cylindrical member defined by a centerline and an outer
// diameter, with an optional wall-thickness range.
//
// Brace is a Tube joining two members at a corner, carrying the IDs of the
// members it connects and its joint angle.
//
// RingSegment is one semicircular half of a split ring. MakeRingPair produces
// both halves around a vertical axis.
//
// Cleat is the fixed-geometry deck cleat on the top rail.
//
// SupportBar is an angled strut ending in a foundation Plate with bolt holes.
//
// # Assembly
//
// FrameSpec enumerates every tunable dimension. BuildFrame validates it and
// applies the fixed layout rules to produce a FrameAssembly, which is never
// mutated afterwards.
//
// # Errors
//
// Non-physical primitive inputs fail with ErrInvalidDimension; layouts whose
// derived positions leave the frame fail with ErrInvalidSpec. Both are raised
// at construction time and carry the offending field and value.
package domain
