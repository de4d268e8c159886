package domain

// DataType tags whether a record's content is free text or structured data.
type DataType string

const (
	DataTypeStructured   DataType = "structured"
	DataTypeUnstructured DataType = "unstructured"
)

// ContentRecord is the unit of output returned to the host pipeline.
type ContentRecord struct {
	Content        string
	URL            string
	Title          string
	Description    string
	Source         string
	RelevanceScore float64
	Price          float64
	Length         int
	DataType       DataType
	ImageURL       string

	// Extracted holds structured fields when the remote API answered with a JSON object
	// instead of text (schema-driven summaries).
	Extracted map[string]any

	// Summarized is set when a summary directive was in effect for the request.
	Summarized bool
}

// Meta renders the record's metadata keyed by wire names, for hosts that
// carry documents as content plus a metadata map.
func (r ContentRecord) Meta() map[string]any {
	meta := map[string]any{
		"url":         r.URL,
		"title":       r.Title,
		"description": r.Description,
		"source":      r.Source,
		"length":      r.Length,
		"data_type":   string(r.DataType),
	}
	if r.RelevanceScore != 0 {
		meta["relevance_score"] = r.RelevanceScore
	}
	if r.Price != 0 {
		meta["price"] = r.Price
	}
	if r.ImageURL != "" {
		meta["image_url"] = r.ImageURL
	}
	if r.Extracted != nil {
		meta["extracted"] = r.Extracted
	}
	if r.Summarized {
		meta["summarized"] = true
	}
	return meta
}

// DocumentRef is a host-framework document. Only Meta["url"] is read by the content adapter.
type DocumentRef struct {
	Content string         `json:"content,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// URL returns the document's url metadata, or "" when it is missing or not a string.
func (d DocumentRef) URL() string {
	if d.Meta == nil {
		return ""
	}
	u, _ := d.Meta["url"].(string)
	return u
}

// SearchResult is the output of one search call.
type SearchResult struct {
	Documents []ContentRecord
	Links     []string
}
