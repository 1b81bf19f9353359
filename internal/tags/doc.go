// Package tags extracts person identities embedded in photo metadata.
//
// Three tagging conventions store people in XMP packets: Microsoft Photo
// region info (names plus normalized bounding boxes), MWG regions (names
// only), and IPTC Extension person-in-image lists (names only). Each
// convention has its own Source implementation that scans the same raw
// packet text independently; a missing or mangled container yields an empty
// result, never an error, and one convention's corruption cannot affect
// another.
//
// Extract runs all three sources in a fixed Microsoft, MWG, IPTC order and
// deduplicates by case-insensitive normalized name, keeping the first
// occurrence. That tie-break fixes provenance and bounding-box availability
// to whichever convention listed the name first; changing it would change
// observable filenames, so it is deliberate and load-bearing.
package tags
