package surface

import (
	"encoding/json"
	"io"

	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// JSONRenderer marshals results to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) RenderFeedback(w io.Writer, fb scoring.FeedbackResult) error {
	return encode(w, fb)
}

func (r *JSONRenderer) RenderResponse(w io.Writer, resp coach.Response) error {
	return encode(w, resp)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
