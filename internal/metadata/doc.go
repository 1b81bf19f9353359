// Package metadata reads the embedded metadata container out of photo bytes.
//
// It supplies the raw XMP packet used by the tags schema parsers plus the
// EXIF capture timestamp and producing-software hint. All reads are
// best-effort: a photo with no metadata, or metadata this package cannot
// decode, yields zero values rather than errors.
package metadata
