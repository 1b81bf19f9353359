// Package detector wraps the external person-detection service.
//
// The service receives photo bytes plus a list of known-people hints and
// returns candidate identities with a confidence tier. Photonym never infers
// identity from pixels itself; this client is the only path to detected
// names, and its callers downgrade every failure to an empty result.
package detector
