package tags

import (
	"strings"
	"testing"
)

const packetHeader = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">`

const packetFooter = `
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

func microsoftRegions(regions ...string) string {
	return `
  <rdf:Description xmlns:MP="http://ns.microsoft.com/photo/1.2/"
      xmlns:MPRI="http://ns.microsoft.com/photo/1.2/t/RegionInfo#"
      xmlns:MPReg="http://ns.microsoft.com/photo/1.2/t/Region#">
   <MP:RegionInfo>
    <rdf:Description>
     <MPRI:Regions>
      <rdf:Bag>` + strings.Join(regions, "\n") + `</rdf:Bag>
     </MPRI:Regions>
    </rdf:Description>
   </MP:RegionInfo>
  </rdf:Description>`
}

func microsoftRegionXML(name, rectangle string) string {
	attrs := ""
	if name != "" {
		attrs += ` MPReg:PersonDisplayName="` + name + `"`
	}
	if rectangle != "" {
		attrs += ` MPReg:Rectangle="` + rectangle + `"`
	}
	return `<rdf:li><rdf:Description` + attrs + `/></rdf:li>`
}

func mwgRegions(names ...string) string {
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, `<rdf:li><rdf:Description mwg-rs:Name="`+name+`"/></rdf:li>`)
	}
	return `
  <rdf:Description xmlns:mwg-rs="http://www.metadataworkinggroup.com/schemas/regions/"
      xmlns:stArea="http://ns.adobe.com/xmp/sType/Area#">
   <mwg-rs:Regions>
    <rdf:Description>
     <mwg-rs:RegionList>
      <rdf:Bag>` + strings.Join(items, "\n") + `</rdf:Bag>
     </mwg-rs:RegionList>
    </rdf:Description>
   </mwg-rs:Regions>
  </rdf:Description>`
}

func iptcBag(names ...string) string {
	items := make([]string, 0, len(names))
	for _, name := range names {
		items = append(items, `<rdf:li>`+name+`</rdf:li>`)
	}
	return `
  <rdf:Description xmlns:Iptc4xmpExt="http://iptc.org/std/Iptc4xmpExt/2008-02-29/">
   <Iptc4xmpExt:PersonInImage>
    <rdf:Bag>` + strings.Join(items, "\n") + `</rdf:Bag>
   </Iptc4xmpExt:PersonInImage>
  </rdf:Description>`
}

func packet(fragments ...string) string {
	return packetHeader + strings.Join(fragments, "\n") + packetFooter
}

func TestExtractMicrosoftOnlyPreservesOrderAndDedupes(t *testing.T) {
	result := Extract(packet(microsoftRegions(
		microsoftRegionXML("Alice Smith", ""),
		microsoftRegionXML("Bob", ""),
		microsoftRegionXML("ALICE SMITH", ""),
	)))

	if !result.HasEmbeddedTags {
		t.Fatal("expected embedded tags")
	}
	want := []string{"alice_smith", "bob"}
	if len(result.People) != len(want) {
		t.Fatalf("expected %d people, got %d: %+v", len(want), len(result.People), result.People)
	}
	for i, name := range want {
		if result.People[i].Name != name {
			t.Fatalf("person %d: got %q want %q", i, result.People[i].Name, name)
		}
		if result.People[i].Schema != SchemaMicrosoft {
			t.Fatalf("person %d: unexpected schema %q", i, result.People[i].Schema)
		}
	}
}

func TestExtractCrossSchemaDedupFirstSeenWins(t *testing.T) {
	// "Alice" appears in all three conventions; the Microsoft entry is
	// scanned first and fixes provenance and the bounding box.
	result := Extract(packet(
		iptcBag("alice", "Dora"),
		mwgRegions("Alice", "Carol"),
		microsoftRegions(microsoftRegionXML("ALICE", "0.1,0.2,0.3,0.4")),
	))

	if len(result.People) != 3 {
		t.Fatalf("expected 3 distinct people, got %+v", result.People)
	}
	first := result.People[0]
	if first.Name != "alice" || first.Schema != SchemaMicrosoft {
		t.Fatalf("expected microsoft alice first, got %+v", first)
	}
	if first.BoundingBox == nil {
		t.Fatal("expected microsoft bounding box to survive the merge")
	}
	if result.People[1].Name != "carol" || result.People[1].Schema != SchemaMWG {
		t.Fatalf("unexpected second person: %+v", result.People[1])
	}
	if result.People[2].Name != "dora" || result.People[2].Schema != SchemaIPTC {
		t.Fatalf("unexpected third person: %+v", result.People[2])
	}
	for _, person := range result.People[1:] {
		if person.Name == "alice" {
			t.Fatalf("duplicate alice survived the merge: %+v", result.People)
		}
	}
}

func TestExtractMalformedRectangleOmitsBoundingBox(t *testing.T) {
	cases := []string{
		"0.1,0.2,0.3",          // too few
		"0.1,0.2,0.3,0.4,0.5",  // too many
		"0.1,0.2,0.3,potato",   // non-numeric
		"NaN,0.2,0.3,0.4",      // not finite
		"+Inf,0.2,0.3,0.4",     // not finite
	}
	for _, rectangle := range cases {
		result := Extract(packet(microsoftRegions(microsoftRegionXML("Mom", rectangle))))
		if len(result.People) != 1 {
			t.Fatalf("rectangle %q: expected 1 person, got %+v", rectangle, result.People)
		}
		if result.People[0].BoundingBox != nil {
			t.Fatalf("rectangle %q: expected no bounding box", rectangle)
		}
	}
}

func TestExtractMomWithRectangle(t *testing.T) {
	result := Extract(packet(microsoftRegions(microsoftRegionXML("Mom", "0.1,0.2,0.3,0.4"))))

	if len(result.People) != 1 {
		t.Fatalf("expected 1 person, got %+v", result.People)
	}
	person := result.People[0]
	if person.Name != "mom" || person.Schema != SchemaMicrosoft {
		t.Fatalf("unexpected person: %+v", person)
	}
	box := person.BoundingBox
	if box == nil {
		t.Fatal("expected bounding box")
	}
	if box.X != 0.1 || box.Y != 0.2 || box.Width != 0.3 || box.Height != 0.4 {
		t.Fatalf("unexpected box: %+v", box)
	}
}

func TestExtractNoRecognizableNamespace(t *testing.T) {
	inputs := []string{
		"",
		"not xml at all",
		packet(`<rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>hello</dc:title></rdf:Description>`),
	}
	for _, input := range inputs {
		result := Extract(input)
		if result.HasEmbeddedTags || len(result.People) != 0 {
			t.Fatalf("input %q: expected empty result, got %+v", input, result)
		}
	}
}

func TestExtractInvariantHasEmbeddedTags(t *testing.T) {
	with := Extract(packet(iptcBag("Frank")))
	if with.HasEmbeddedTags != (len(with.People) > 0) {
		t.Fatalf("invariant violated: %+v", with)
	}
	without := Extract("")
	if without.HasEmbeddedTags != (len(without.People) > 0) {
		t.Fatalf("invariant violated: %+v", without)
	}
}

func TestExtractIPTCRepeatedSimpleTags(t *testing.T) {
	fragment := `
  <rdf:Description xmlns:Iptc4xmpExt="http://iptc.org/std/Iptc4xmpExt/2008-02-29/">
   <Iptc4xmpExt:PersonInImage>Grace Hopper</Iptc4xmpExt:PersonInImage>
   <Iptc4xmpExt:PersonInImage>Alan Turing</Iptc4xmpExt:PersonInImage>
  </rdf:Description>`
	result := Extract(packet(fragment))
	want := []string{"grace_hopper", "alan_turing"}
	if len(result.People) != len(want) {
		t.Fatalf("expected %d people, got %+v", len(want), result.People)
	}
	for i, name := range want {
		if result.People[i].Name != name || result.People[i].Schema != SchemaIPTC {
			t.Fatalf("person %d: got %+v want %q", i, result.People[i], name)
		}
	}
}

func TestExtractSecondaryNameFallback(t *testing.T) {
	region := `<rdf:li><rdf:Description MPReg:PersonLiveCID="2718281828"/></rdf:li>`
	result := Extract(packet(microsoftRegions(region)))
	if len(result.People) != 1 {
		t.Fatalf("expected fallback entry, got %+v", result.People)
	}
	if result.People[0].Name != "2718281828" {
		t.Fatalf("unexpected fallback name: %q", result.People[0].Name)
	}
}

func TestExtractElementFormFields(t *testing.T) {
	region := `<rdf:li>
  <rdf:Description>
   <MPReg:PersonDisplayName>Ada Lovelace</MPReg:PersonDisplayName>
   <MPReg:Rectangle>0.25, 0.25, 0.5, 0.5</MPReg:Rectangle>
  </rdf:Description>
 </rdf:li>`
	result := Extract(packet(microsoftRegions(region)))
	if len(result.People) != 1 {
		t.Fatalf("expected 1 person, got %+v", result.People)
	}
	person := result.People[0]
	if person.Name != "ada_lovelace" {
		t.Fatalf("unexpected name: %q", person.Name)
	}
	if person.BoundingBox == nil || person.BoundingBox.Width != 0.5 {
		t.Fatalf("unexpected box: %+v", person.BoundingBox)
	}
}

func TestExtractCorruptConventionDoesNotAffectOthers(t *testing.T) {
	corruptMicrosoft := `
  <rdf:Description xmlns:MP="http://ns.microsoft.com/photo/1.2/">
   <MP:RegionInfo><rdf:Bag><rdf:li>` // truncated mid-structure
	result := Extract(packet(iptcBag("Eve"), corruptMicrosoft))
	if len(result.People) != 1 || result.People[0].Name != "eve" {
		t.Fatalf("expected IPTC scan to survive corrupt microsoft container, got %+v", result.People)
	}
}

func TestExtractTaggingSoftware(t *testing.T) {
	fragment := `
  <rdf:Description xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmp:CreatorTool="digiKam-8.1.0"/>`
	result := Extract(packet(fragment, iptcBag("Eve")))
	if result.TaggingSoftware != "digiKam-8.1.0" {
		t.Fatalf("unexpected tagging software: %q", result.TaggingSoftware)
	}
}

func TestExtractMWGBag(t *testing.T) {
	result := Extract(packet(mwgRegions("Henri Cartier-Bresson", "  ", "Ansel Adams")))
	want := []string{"henri_cartierbresson", "ansel_adams"}
	if len(result.People) != len(want) {
		t.Fatalf("expected %d people, got %+v", len(want), result.People)
	}
	for i, name := range want {
		if result.People[i].Name != name || result.People[i].Schema != SchemaMWG {
			t.Fatalf("person %d: got %+v want %q", i, result.People[i], name)
		}
		if result.People[i].BoundingBox != nil {
			t.Fatalf("mwg entries never carry boxes: %+v", result.People[i])
		}
	}
}
