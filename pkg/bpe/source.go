package bpe

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// VocabSource references vocabulary data either on disk or inline. The
// JSON form is a string for a path and an object for inline data, so a
// serialized tokenizer config can point at assets or embed them.
type VocabSource struct {
	Path   string
	Inline map[string]int
}

func VocabFile(path string) VocabSource     { return VocabSource{Path: path} }
func VocabMap(m map[string]int) VocabSource { return VocabSource{Inline: m} }

func (s VocabSource) IsZero() bool { return s.Path == "" && s.Inline == nil }

func (s VocabSource) MarshalJSON() ([]byte, error) {
	if s.Path != "" {
		return json.Marshal(s.Path)
	}
	return json.Marshal(s.Inline)
}

func (s *VocabSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = VocabSource{}
		return nil
	}
	switch data[0] {
	case '"':
		s.Inline = nil
		return json.Unmarshal(data, &s.Path)
	case '{':
		s.Path = ""
		return json.Unmarshal(data, &s.Inline)
	default:
		return fmt.Errorf("vocabulary source must be a path string or an object")
	}
}

// Resolve loads the referenced data. A non-empty path wins over inline data.
func (s VocabSource) Resolve() (map[string]int, error) {
	if s.Path != "" {
		return LoadVocabulary(s.Path)
	}
	return s.Inline, nil
}

// MergeSource references merge rules either on disk or inline. The JSON
// form is a string for a path and an array for inline rules.
type MergeSource struct {
	Path   string
	Inline []string
}

func MergeFile(path string) MergeSource    { return MergeSource{Path: path} }
func MergeList(rules []string) MergeSource { return MergeSource{Inline: rules} }

func (s MergeSource) IsZero() bool { return s.Path == "" && s.Inline == nil }

func (s MergeSource) MarshalJSON() ([]byte, error) {
	if s.Path != "" {
		return json.Marshal(s.Path)
	}
	return json.Marshal(s.Inline)
}

func (s *MergeSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = MergeSource{}
		return nil
	}
	switch data[0] {
	case '"':
		s.Inline = nil
		return json.Unmarshal(data, &s.Path)
	case '[':
		s.Path = ""
		return json.Unmarshal(data, &s.Inline)
	default:
		return fmt.Errorf("merge source must be a path string or an array")
	}
}

// Resolve loads the referenced rules. A non-empty path wins over inline data.
func (s MergeSource) Resolve() ([]string, error) {
	if s.Path != "" {
		return LoadMerges(s.Path)
	}
	return s.Inline, nil
}
