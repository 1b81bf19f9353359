package tags

import (
	"encoding/xml"
	"strings"
)

// MWG returns the Source for the Metadata Working Group region convention
// (mwg-rs:Regions / mwg-rs:RegionList). Names only; MWG regions describe
// areas too, but this convention's area form is not consumed here.
func MWG() Source { return mwgSource{} }

type mwgSource struct{}

func (mwgSource) Schema() Schema { return SchemaMWG }

func isMWGSpace(space string) bool {
	return spaceMatches(space, "metadataworkinggroup.com", "mwg-rs")
}

func (mwgSource) Scan(packet string) []PersonTag {
	if strings.TrimSpace(packet) == "" {
		return nil
	}
	decoder := newPacketDecoder(packet)

	var (
		found         []PersonTag
		containerOpen int
		regionDepth   int
		inRegion      bool
		name          string
		inName        bool
	)

	finishRegion := func() {
		if normalized := NormalizeName(name); normalized != "" {
			found = append(found, PersonTag{Name: normalized, Schema: SchemaMWG})
		}
		inRegion = false
		name = ""
		inName = false
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
			case local == "Regions" && isMWGSpace(el.Name.Space):
				containerOpen++
			case containerOpen > 0 && !inRegion && local == "li":
				inRegion = true
				regionDepth = 1
				if value, ok := attrValue(el, "Name", isMWGSpace); ok {
					name = value
				}
			case inRegion:
				regionDepth++
				if value, ok := attrValue(el, "Name", isMWGSpace); ok {
					name = value
				}
				inName = local == "Name" && isMWGSpace(el.Name.Space)
			}
		case xml.CharData:
			if inRegion && inName {
				if text := strings.TrimSpace(string(el)); text != "" {
					name = text
				}
			}
		case xml.EndElement:
			local := localName(el.Name)
			switch {
			case inRegion:
				inName = false
				regionDepth--
				if regionDepth == 0 {
					finishRegion()
				}
			case local == "Regions" && isMWGSpace(el.Name.Space) && containerOpen > 0:
				containerOpen--
			}
		}
	}
	return found
}
