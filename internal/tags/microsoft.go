package tags

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// Microsoft returns the Source for the Microsoft Photo region convention
// (MP:RegionInfo / MPRI:Regions / MPReg fields). It is the only convention
// that carries bounding boxes.
func Microsoft() Source { return microsoftSource{} }

type microsoftSource struct{}

func (microsoftSource) Schema() Schema { return SchemaMicrosoft }

func isMicrosoftSpace(space string) bool {
	return spaceMatches(space, "ns.microsoft.com/photo", "MP", "MPRI", "MPReg")
}

type microsoftRegion struct {
	display   string
	secondary string
	rectangle string
}

func (r microsoftRegion) tag() (PersonTag, bool) {
	raw := strings.TrimSpace(r.display)
	if raw == "" {
		raw = strings.TrimSpace(r.secondary)
	}
	name := NormalizeName(raw)
	if name == "" {
		return PersonTag{}, false
	}
	tag := PersonTag{Name: name, Schema: SchemaMicrosoft}
	if box, ok := parseRectangle(r.rectangle); ok {
		tag.BoundingBox = box
	}
	return tag, true
}

func (microsoftSource) Scan(packet string) []PersonTag {
	if strings.TrimSpace(packet) == "" {
		return nil
	}
	decoder := newPacketDecoder(packet)

	var (
		found         []PersonTag
		containerOpen int
		region        *microsoftRegion
		regionDepth   int
		field         string
	)

	capture := func(el xml.StartElement) {
		if value, ok := attrValue(el, "PersonDisplayName", isMicrosoftSpace); ok {
			region.display = value
		}
		if value, ok := attrValue(el, "PersonLiveCID", isMicrosoftSpace); ok {
			region.secondary = value
		}
		if value, ok := attrValue(el, "Rectangle", isMicrosoftSpace); ok {
			region.rectangle = value
		}
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			break // lenient: keep whatever decoded cleanly
		}
		switch el := token.(type) {
		case xml.StartElement:
			local := localName(el.Name)
			switch {
			case local == "RegionInfo" && isMicrosoftSpace(el.Name.Space):
				containerOpen++
			case containerOpen > 0 && region == nil && local == "li":
				region = &microsoftRegion{}
				regionDepth = 1
				field = ""
				capture(el)
			case region != nil:
				regionDepth++
				capture(el)
				if isMicrosoftSpace(el.Name.Space) {
					switch local {
					case "PersonDisplayName", "PersonLiveCID", "Rectangle":
						field = local
					default:
						field = ""
					}
				} else {
					field = ""
				}
			}
		case xml.CharData:
			if region == nil || field == "" {
				continue
			}
			text := strings.TrimSpace(string(el))
			if text == "" {
				continue
			}
			switch field {
			case "PersonDisplayName":
				region.display = text
			case "PersonLiveCID":
				region.secondary = text
			case "Rectangle":
				region.rectangle = text
			}
		case xml.EndElement:
			local := localName(el.Name)
			switch {
			case region != nil:
				field = ""
				regionDepth--
				if regionDepth == 0 {
					if tag, ok := region.tag(); ok {
						found = append(found, tag)
					}
					region = nil
				}
			case local == "RegionInfo" && isMicrosoftSpace(el.Name.Space) && containerOpen > 0:
				containerOpen--
			}
		}
	}
	return found
}

// parseRectangle parses the MPReg:Rectangle format: four comma-separated
// normalized floats "x,y,width,height". Anything else (wrong arity,
// non-numeric, NaN/Inf) means the region simply has no bounding box.
func parseRectangle(value string) (*BoundingBox, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, false
	}
	parts := strings.Split(trimmed, ",")
	if len(parts) != 4 {
		return nil, false
	}
	numbers := make([]float64, 4)
	for i, part := range parts {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, false
		}
		numbers[i] = parsed
	}
	return &BoundingBox{X: numbers[0], Y: numbers[1], Width: numbers[2], Height: numbers[3]}, true
}
