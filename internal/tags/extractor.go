package tags

import (
	"encoding/xml"
	"strings"
)

// sources in scan order. The order is observable: the first convention to
// list a name fixes that person's provenance and bounding box.
var sources = []Source{Microsoft(), MWG(), IPTC()}

// Extract runs all schema sources against one photo's raw XMP packet and
// merges their output. It is a pure function over its input: an empty or
// garbage packet produces an empty result, never an error.
func Extract(packet string) ExtractionResult {
	var people []PersonTag
	seen := make(map[string]struct{})
	for _, source := range sources {
		for _, tag := range source.Scan(packet) {
			if _, duplicate := seen[tag.Name]; duplicate {
				continue
			}
			seen[tag.Name] = struct{}{}
			people = append(people, tag)
		}
	}
	return ExtractionResult{
		People:          people,
		HasEmbeddedTags: len(people) > 0,
		TaggingSoftware: scanTaggingSoftware(packet),
	}
}

func isSoftwareField(name xml.Name) bool {
	switch name.Local {
	case "CreatorTool":
		return spaceMatches(name.Space, "adobe.com/xap", "xmp", "xap")
	case "Software":
		return true
	default:
		return false
	}
}

// scanTaggingSoftware pulls the producing software hint out of the packet's
// generic creator-tool field. Purely informational; absence is fine.
func scanTaggingSoftware(packet string) string {
	if strings.TrimSpace(packet) == "" {
		return ""
	}
	decoder := newPacketDecoder(packet)
	inField := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		switch el := token.(type) {
		case xml.StartElement:
			for _, attr := range el.Attr {
				if isSoftwareField(attr.Name) {
					if value := strings.TrimSpace(attr.Value); value != "" {
						return value
					}
				}
			}
			inField = isSoftwareField(el.Name)
		case xml.CharData:
			if inField {
				if value := strings.TrimSpace(string(el)); value != "" {
					return value
				}
			}
		case xml.EndElement:
			inField = false
		}
	}
}
