// Package cabinet derives the structural parts of a cabinet from its
// specification.
//
// A Spec (lengths in millimeters) is accepted at a single validation
// boundary, Resolve, which converts to inches, fills every optional field
// with its default and selects a construction Style. Calculate then runs
// the style's Rule, a pure function from the resolved Envelope to an
// ordered list of PartGeometry values, and checks the result against the
// envelope.
//
// Coordinates are local to the cabinet: x runs left to right across the
// width, y runs from the floor up, z runs from the front face to the rear.
package cabinet
