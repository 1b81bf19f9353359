package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// jpegHeader is enough of a JPEG prelude for extension-based intake; the
// pipeline reads metadata from the embedded XMP packet, not the pixels.
var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x10, 'E', 'x', 'i', 'f', 0x00, 0x00}

// PhotoBytes builds fake photo bytes carrying an XMP packet with the given
// rdf:Description body. An empty body produces a photo without metadata.
func PhotoBytes(descriptionBody string) []byte {
	var b strings.Builder
	b.Write(jpegHeader)
	if descriptionBody != "" {
		fmt.Fprintf(&b, `<x:xmpmeta xmlns:x="adobe:ns:meta/">
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description>%s</rdf:Description>
</rdf:RDF>
</x:xmpmeta>`, descriptionBody)
	}
	b.Write([]byte{0xFF, 0xD9})
	return []byte(b.String())
}

// MicrosoftRegion returns an XMP fragment tagging a single person in the
// Microsoft People Tagging convention.
func MicrosoftRegion(name, rectangle string) string {
	rect := ""
	if rectangle != "" {
		rect = fmt.Sprintf(` MPReg:Rectangle=%q`, rectangle)
	}
	return fmt.Sprintf(`<MP:RegionInfo xmlns:MP="http://ns.microsoft.com/photo/1.2/" xmlns:MPRI="http://ns.microsoft.com/photo/1.2/t/RegionInfo#" xmlns:MPReg="http://ns.microsoft.com/photo/1.2/t/Region#">
<MPRI:Regions><rdf:Bag><rdf:li MPReg:PersonDisplayName=%q%s/></rdf:Bag></MPRI:Regions>
</MP:RegionInfo>`, name, rect)
}

// IPTCPeople returns an XMP fragment listing people in the IPTC Extension
// convention.
func IPTCPeople(names ...string) string {
	var items strings.Builder
	for _, name := range names {
		fmt.Fprintf(&items, "<rdf:li>%s</rdf:li>", name)
	}
	return fmt.Sprintf(`<Iptc4xmpExt:PersonInImage xmlns:Iptc4xmpExt="http://iptc.org/std/Iptc4xmpExt/2008-02-29/"><rdf:Bag>%s</rdf:Bag></Iptc4xmpExt:PersonInImage>`, items.String())
}

// WritePhoto writes fixture photo bytes to path, creating parent directories.
func WritePhoto(t testing.TB, path string, descriptionBody string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, PhotoBytes(descriptionBody), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
