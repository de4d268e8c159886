package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"valyurag/internal/domain"
)

const previewChars = 500

// recordOutput is the JSON shape of a content record on stdout.
type recordOutput struct {
	URL            string         `json:"url"`
	Title          string         `json:"title,omitempty"`
	Description    string         `json:"description,omitempty"`
	Source         string         `json:"source,omitempty"`
	RelevanceScore float64        `json:"relevance_score,omitempty"`
	Price          float64        `json:"price,omitempty"`
	Length         int            `json:"length,omitempty"`
	DataType       string         `json:"data_type,omitempty"`
	ImageURL       string         `json:"image_url,omitempty"`
	Summarized     bool           `json:"summarized,omitempty"`
	Extracted      map[string]any `json:"extracted,omitempty"`
	Content        string         `json:"content"`
}

func toOutput(records []domain.ContentRecord) []recordOutput {
	out := make([]recordOutput, 0, len(records))
	for _, r := range records {
		out = append(out, recordOutput{
			URL:            r.URL,
			Title:          r.Title,
			Description:    r.Description,
			Source:         r.Source,
			RelevanceScore: r.RelevanceScore,
			Price:          r.Price,
			Length:         r.Length,
			DataType:       string(r.DataType),
			ImageURL:       r.ImageURL,
			Summarized:     r.Summarized,
			Extracted:      r.Extracted,
			Content:        r.Content,
		})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecords(w io.Writer, records []domain.ContentRecord) {
	for i, r := range records {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		if r.RelevanceScore > 0 {
			fmt.Fprintf(w, "--- [%d] %s (score: %.2f) ---\n", i+1, title, r.RelevanceScore)
		} else {
			fmt.Fprintf(w, "--- [%d] %s ---\n", i+1, title)
		}
		if r.URL != "" && r.URL != title {
			fmt.Fprintln(w, r.URL)
		}
		// Truncate long text for display
		text := []rune(r.Content)
		if len(text) > previewChars {
			fmt.Fprintln(w, string(text[:previewChars])+"...")
		} else {
			fmt.Fprintln(w, string(text))
		}
		fmt.Fprintln(w)
	}
}
