package askweb

import "context"

// SchemaType is the type of a value in a response schema.
type SchemaType string

// SchemaType constants.
const (
	SchemaTypeObject SchemaType = "object"
	SchemaTypeArray  SchemaType = "array"
	SchemaTypeString SchemaType = "string"
)

// Schema describes the JSON shape an inference response must conform to.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// InferenceRequest is a single call to the hosted inference service.
type InferenceRequest struct {
	Prompt                 string  `json:"prompt"`
	AddContextFromInternet bool    `json:"add_context_from_internet"`
	ResponseSchema         *Schema `json:"response_json_schema"`
}

// Validate returns an error if the request contains invalid fields.
func (r *InferenceRequest) Validate() error {
	if r.Prompt == "" {
		return Errorf(EINVALID, "prompt required")
	}
	return nil
}

// Inferrer invokes a hosted large language model.
type Inferrer interface {
	// Infer sends the request and returns the raw JSON object produced by
	// the model. When the request carries a ResponseSchema the object is
	// expected to conform to it; callers must still validate.
	Infer(ctx context.Context, req *InferenceRequest) ([]byte, error)
}
