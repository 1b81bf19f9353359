// Package describer wraps the external scene-description service.
//
// The service receives photo bytes and returns a short free-text description
// used as the final filename component. Callers treat every failure as a
// signal to fall back to a deterministic timestamp description.
package describer
