package api

// EncodeRequest asks for token ids for one text or a batch. Exactly one
// of Text and Texts must be set. A positive SequenceLength packs each
// result with the preset's control tokens and padding.
type EncodeRequest struct {
	Preset         string   `json:"preset,omitempty"`
	Text           *string  `json:"text,omitempty"`
	Texts          []string `json:"texts,omitempty"`
	SequenceLength int      `json:"sequence_length,omitempty"`
}

// Encoding is the result for one input text.
type Encoding struct {
	IDs         []int `json:"ids"`
	PaddingMask []int `json:"padding_mask,omitempty"`
}

type EncodeResponse struct {
	Object    string     `json:"object"`
	ID        string     `json:"id"`
	Preset    string     `json:"preset"`
	Variant   string     `json:"variant"`
	Encodings []Encoding `json:"encodings"`
}

type DecodeRequest struct {
	Preset string `json:"preset,omitempty"`
	IDs    []int  `json:"ids"`
}

type DecodeResponse struct {
	Object string `json:"object"`
	ID     string `json:"id"`
	Preset string `json:"preset"`
	Text   string `json:"text"`
}

type PresetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant"`
}

type PresetList struct {
	Object string          `json:"object"`
	Data   []PresetSummary `json:"data"`
}

// PresetDetail adds the variant's special token spelling per role, so
// clients can see the policy layer without loading the vocabulary.
type PresetDetail struct {
	Object        string            `json:"object"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Variant       string            `json:"variant"`
	SpecialTokens map[string]string `json:"special_tokens,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
