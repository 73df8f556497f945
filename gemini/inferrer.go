package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/askweb"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Inferrer implements askweb.Inferrer at compile time.
var _ askweb.Inferrer = (*Inferrer)(nil)

// Inferrer implements askweb.Inferrer using Google Gemini.
type Inferrer struct {
	client *genai.Client
	model  string
}

// NewInferrer creates a new Inferrer. An empty model selects DefaultModel.
func NewInferrer(client *genai.Client, model string) *Inferrer {
	if model == "" {
		model = DefaultModel
	}
	return &Inferrer{client: client, model: model}
}

// Infer sends the prompt to Gemini and returns the JSON answer object.
//
// Some models refuse structured output while Google Search grounding is
// on. When the request is rejected for that reason it is retried once in
// plain text, and the answer object is assembled from the text and the
// grounding metadata.
func (i *Inferrer) Infer(ctx context.Context, req *askweb.InferenceRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	config := BuildConfig(req)
	result, err := i.client.Models.GenerateContent(ctx, i.model, contents, config)
	if err != nil && config.ResponseSchema != nil && req.AddContextFromInternet && IsSchemaRejected(err) {
		config = BuildConfig(&askweb.InferenceRequest{
			Prompt:                 req.Prompt,
			AddContextFromInternet: true,
		})
		result, err = i.client.Models.GenerateContent(ctx, i.model, contents, config)
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, askweb.Errorf(askweb.EINTERNAL, "gemini returned nil result")
	}

	if config.ResponseSchema == nil {
		return BuildGroundedAnswer(result)
	}
	return []byte(StripCodeFence(result.Text())), nil
}

// BuildConfig returns the GenerateContentConfig for a request.
func BuildConfig(req *askweb.InferenceRequest) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful research assistant. Answer accurately, prefer recent and reliable sources, and say so when you are not sure.",
			}},
		},
		Temperature: &temp,
	}
	if req.AddContextFromInternet {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = ConvertSchema(req.ResponseSchema)
	}
	return config
}

// ConvertSchema maps an askweb.Schema onto Gemini's schema type.
func ConvertSchema(s *askweb.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Items:       ConvertSchema(s.Items),
	}
	switch s.Type {
	case askweb.SchemaTypeObject:
		out.Type = genai.TypeObject
	case askweb.SchemaTypeArray:
		out.Type = genai.TypeArray
	case askweb.SchemaTypeString:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ConvertSchema(prop)
		}
	}
	return out
}

// IsSchemaRejected reports whether err is a 400 response complaining about
// the response schema or mime type.
func IsSchemaRejected(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "responseschema") ||
		strings.Contains(msg, "response_schema") ||
		strings.Contains(msg, "responsemimetype") ||
		strings.Contains(msg, "response_mime_type") ||
		strings.Contains(msg, "json mode")
}

// StripCodeFence removes a Markdown code fence some models wrap JSON in.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

type groundedSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type groundedAnswer struct {
	Answer  string           `json:"answer"`
	Sources []groundedSource `json:"sources"`
}

// BuildGroundedAnswer assembles the answer object from a plain-text response.
// Sources come from the grounding chunks, in order, each using the first
// supported text segment that cites it as its snippet.
func BuildGroundedAnswer(result *genai.GenerateContentResponse) ([]byte, error) {
	answer := groundedAnswer{
		Answer:  result.Text(),
		Sources: []groundedSource{},
	}

	if len(result.Candidates) > 0 && result.Candidates[0].GroundingMetadata != nil {
		gm := result.Candidates[0].GroundingMetadata

		snippets := make(map[int]string)
		for _, support := range gm.GroundingSupports {
			if support == nil || support.Segment == nil {
				continue
			}
			for _, idx := range support.GroundingChunkIndices {
				if _, ok := snippets[int(idx)]; !ok {
					snippets[int(idx)] = support.Segment.Text
				}
			}
		}

		seen := make(map[string]bool)
		for idx, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			answer.Sources = append(answer.Sources, groundedSource{
				Title:   chunk.Web.Title,
				URL:     chunk.Web.URI,
				Snippet: snippets[idx],
			})
		}
	}

	return json.Marshal(answer)
}
