package tags

import (
	"encoding/xml"
	"strings"
)

// IPTC returns the Source for the IPTC Extension person-in-image convention
// (Iptc4xmpExt:PersonInImage). The list may appear as a repeated simple tag
// or as an rdf container of list items; both forms carry plain names.
func IPTC() Source { return iptcSource{} }

type iptcSource struct{}

func (iptcSource) Schema() Schema { return SchemaIPTC }

func isIPTCSpace(space string) bool {
	return spaceMatches(space, "iptc.org", "Iptc4xmpExt")
}

func (iptcSource) Scan(packet string) []PersonTag {
	if strings.TrimSpace(packet) == "" {
		return nil
	}
	decoder := newPacketDecoder(packet)

	var (
		found     []PersonTag
		listDepth int
		inItem    bool
		buf       strings.Builder
		direct    bool // chardata directly under PersonInImage (simple form)
	)

	emit := func(raw string) {
		if normalized := NormalizeName(raw); normalized != "" {
			found = append(found, PersonTag{Name: normalized, Schema: SchemaIPTC})
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch el := token.(type) {
		case xml.StartElement:
			local := localName(el.Name)
			switch {
			case local == "PersonInImage" && isIPTCSpace(el.Name.Space):
				listDepth++
				direct = true
				buf.Reset()
			case listDepth > 0 && local == "li":
				inItem = true
				direct = false
				buf.Reset()
			case listDepth > 0:
				// container elements (rdf:Bag / rdf:Seq) between the tag
				// and its items
				direct = false
			}
		case xml.CharData:
			if listDepth > 0 && (inItem || direct) {
				buf.WriteString(string(el))
			}
		case xml.EndElement:
			local := localName(el.Name)
			switch {
			case inItem && local == "li":
				emit(buf.String())
				buf.Reset()
				inItem = false
			case local == "PersonInImage" && isIPTCSpace(el.Name.Space) && listDepth > 0:
				if direct {
					emit(buf.String())
				}
				buf.Reset()
				direct = false
				listDepth--
			}
		}
	}
	return found
}
