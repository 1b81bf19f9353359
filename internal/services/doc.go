// Package services holds the shared error taxonomy and context plumbing for
// Photonym's external collaborators (person detection, scene description).
//
// Stage code wraps failures with Wrap and one of the exported sentinel
// errors; the workflow layer classifies wrapped errors with FailureStatus
// when deciding how to persist a failed item. Context helpers carry item,
// stage, and correlation identifiers so service clients and loggers agree on
// attribution.
package services
