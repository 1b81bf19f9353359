package tags

import (
	"encoding/xml"
	"strings"
)

// newPacketDecoder returns a lenient XML token decoder over a raw XMP packet.
// Strict mode is off: camera and editor output is frequently sloppy, and a
// truncated packet should still yield the regions that decoded cleanly.
func newPacketDecoder(packet string) *xml.Decoder {
	decoder := xml.NewDecoder(strings.NewReader(packet))
	decoder.Strict = false
	return decoder
}

// localName returns the element's name without namespace qualification.
func localName(name xml.Name) string {
	return name.Local
}

// spaceMatches reports whether an element or attribute namespace belongs to
// the given convention. Namespace may arrive as a resolved URI or, when a
// packet omits its xmlns declarations, as the literal prefix; both forms are
// accepted.
func spaceMatches(space string, uriFragment string, prefixes ...string) bool {
	if space == "" {
		return false
	}
	if strings.Contains(space, uriFragment) {
		return true
	}
	for _, prefix := range prefixes {
		if space == prefix {
			return true
		}
	}
	return false
}

// attrValue returns the first attribute whose local name matches and whose
// namespace passes the supplied check (nil check accepts any namespace).
func attrValue(el xml.StartElement, local string, check func(string) bool) (string, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local != local {
			continue
		}
		if check != nil && attr.Name.Space != "" && !check(attr.Name.Space) {
			continue
		}
		return attr.Value, true
	}
	return "", false
}
