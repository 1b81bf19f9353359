package metadata

import (
	"bytes"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Container is one photo's embedded metadata, as much of it as could be read.
type Container struct {
	// XMPPacket is the raw packet text the schema parsers scan. Empty when
	// the photo carries no XMP.
	XMPPacket string
	// CaptureTime is the EXIF original date/time; zero when absent.
	CaptureTime time.Time
	// Software is the EXIF producing-software tag; informational only.
	Software string
}

var (
	xmpOpen  = []byte("<x:xmpmeta")
	xmpClose = []byte("</x:xmpmeta>")
)

// Read extracts the metadata container from raw photo bytes. It never fails:
// unreadable or absent metadata produces a zero-valued Container, which the
// pipeline treats as "no embedded data".
func Read(photo []byte) Container {
	var container Container
	if len(photo) == 0 {
		return container
	}

	container.XMPPacket = scanXMPPacket(photo)

	decoded, err := exif.Decode(bytes.NewReader(photo))
	if err != nil {
		return container
	}
	if captured, err := decoded.DateTime(); err == nil {
		container.CaptureTime = captured
	}
	if tag, err := decoded.Get(exif.Software); err == nil {
		if value, err := tag.StringVal(); err == nil {
			container.Software = strings.TrimSpace(value)
		}
	}
	return container
}

// scanXMPPacket locates the xmpmeta envelope by byte scan. The envelope
// format is identical across JPEG APP1 segments, TIFF tags, and PNG iTXt
// chunks, so a scan covers every photo format ingest accepts without
// per-format segment walking.
func scanXMPPacket(photo []byte) string {
	start := bytes.Index(photo, xmpOpen)
	if start < 0 {
		return ""
	}
	end := bytes.Index(photo[start:], xmpClose)
	if end < 0 {
		return ""
	}
	return string(photo[start : start+end+len(xmpClose)])
}
