package tags

// Schema identifies which tagging convention produced a person tag.
type Schema string

const (
	SchemaMicrosoft Schema = "microsoft"
	SchemaMWG       Schema = "mwg"
	SchemaIPTC      Schema = "iptc"
)

// BoundingBox marks where a tagged person appears, in coordinates normalized
// to [0,1] of image width and height.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PersonTag is one person identity found in embedded metadata. Name is
// normalized and non-empty; BoundingBox is present only when the source
// convention carried a parseable rectangle.
type PersonTag struct {
	Name        string       `json:"name"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
	Schema      Schema       `json:"schema"`
}

// ExtractionResult is the merged output of all schema sources for one photo.
// Invariant: HasEmbeddedTags == (len(People) > 0).
type ExtractionResult struct {
	People          []PersonTag `json:"people"`
	HasEmbeddedTags bool        `json:"has_embedded_tags"`
	TaggingSoftware string      `json:"tagging_software,omitempty"`
}

// Source scans one tagging convention out of a raw XMP packet. Implementations
// are best-effort: absent or malformed structure yields an empty slice.
type Source interface {
	Schema() Schema
	Scan(packet string) []PersonTag
}
