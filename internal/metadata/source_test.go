package metadata

import (
	"strings"
	"testing"
)

func TestReadFindsXMPEnvelope(t *testing.T) {
	packet := `<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF/></x:xmpmeta>`
	photo := append([]byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x10}, []byte("http://ns.adobe.com/xap/1.0/\x00"+packet)...)

	container := Read(photo)
	if container.XMPPacket != packet {
		t.Fatalf("unexpected packet: %q", container.XMPPacket)
	}
	if !container.CaptureTime.IsZero() {
		t.Fatalf("expected zero capture time without EXIF, got %v", container.CaptureTime)
	}
}

func TestReadToleratesGarbage(t *testing.T) {
	for _, photo := range [][]byte{nil, {}, []byte("definitely not a photo"), []byte("<x:xmpmeta truncated")} {
		container := Read(photo)
		if container.XMPPacket != "" && !strings.Contains(container.XMPPacket, "</x:xmpmeta>") {
			t.Fatalf("incomplete packet should be dropped, got %q", container.XMPPacket)
		}
		if container.Software != "" {
			t.Fatalf("unexpected software for garbage input: %q", container.Software)
		}
	}
}
