// Package api exposes tokenizer operations over HTTP. Handlers stay
// thin: presets come from the registry through a caching provider, and
// all tokenization errors map onto a uniform error envelope.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/weft/internal/version"
	"github.com/samcharles93/weft/pkg/bpe"
	"github.com/samcharles93/weft/pkg/packer"
	"github.com/samcharles93/weft/pkg/preset"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

type Server struct {
	provider TokenizerProvider
}

func NewServer(provider TokenizerProvider) *Server {
	return &Server{provider: provider}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/presets", s.handleListPresets)
	e.GET("/v1/presets/:name", s.handleGetPreset)
	e.POST("/v1/encode", s.handleEncode)
	e.POST("/v1/decode", s.handleDecode)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
	})
}

func (s *Server) handleListPresets(c *echo.Context) error {
	names := preset.Names()
	data := make([]PresetSummary, 0, len(names))
	for _, name := range names {
		e, ok := preset.Lookup(name)
		if !ok {
			continue
		}
		data = append(data, PresetSummary{
			Name:        name,
			Description: e.Description,
			Variant:     e.Variant,
		})
	}
	return c.JSON(http.StatusOK, PresetList{Object: "list", Data: data})
}

func (s *Server) handleGetPreset(c *echo.Context) error {
	name := c.Param("name")
	entry, ok := preset.Lookup(name)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("unknown preset %q", name))
	}
	detail := PresetDetail{
		Object:      "tokenizer.preset",
		Name:        name,
		Description: entry.Description,
		Variant:     entry.Variant,
	}
	if v, ok := tokenizer.LookupVariant(entry.Variant); ok {
		detail.SpecialTokens = specialTokenRoles(v)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleEncode(c *echo.Context) error {
	req, err := decodeJSON[EncodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Text != nil && len(req.Texts) > 0 {
		return writeBadRequest(c, "text and texts are mutually exclusive")
	}
	if req.Text == nil && req.Texts == nil {
		return writeBadRequest(c, "text or texts is required")
	}
	if req.SequenceLength < 0 {
		return writeBadRequest(c, "sequence_length must be positive")
	}

	tok, presetName, err := s.provider.Tokenizer(c.Request().Context(), req.Preset)
	if err != nil {
		return writeProviderError(c, err)
	}

	texts := req.Texts
	if req.Text != nil {
		texts = []string{*req.Text}
	}
	batches, err := tok.EncodeBatch(c.Request().Context(), texts)
	if err != nil {
		return writeTokenError(c, err)
	}

	encodings := make([]Encoding, 0, len(batches))
	if req.SequenceLength > 0 {
		pk := packer.For(tok, req.SequenceLength)
		for _, ids := range batches {
			packed, mask := pk.Pack(ids)
			encodings = append(encodings, Encoding{IDs: packed, PaddingMask: mask})
		}
	} else {
		for _, ids := range batches {
			encodings = append(encodings, Encoding{IDs: ids})
		}
	}

	return c.JSON(http.StatusOK, EncodeResponse{
		Object:    "tokenizer.encoding",
		ID:        newRequestID(),
		Preset:    presetName,
		Variant:   tok.Variant().Name,
		Encodings: encodings,
	})
}

func (s *Server) handleDecode(c *echo.Context) error {
	req, err := decodeJSON[DecodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.IDs == nil {
		return writeBadRequest(c, "ids is required")
	}

	tok, presetName, err := s.provider.Tokenizer(c.Request().Context(), req.Preset)
	if err != nil {
		return writeProviderError(c, err)
	}

	text, err := tok.Decode(req.IDs)
	if err != nil {
		return writeTokenError(c, err)
	}

	return c.JSON(http.StatusOK, DecodeResponse{
		Object: "tokenizer.decoding",
		ID:     newRequestID(),
		Preset: presetName,
		Text:   text,
	})
}

func writeProviderError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, preset.ErrUnknown):
		return writeNotFound(c, err.Error())
	case errors.Is(err, ErrInvalidRequest):
		return writeBadRequest(c, err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

// writeTokenError maps lookup failures to 400s; the ids or text in the
// request named something outside the vocabulary.
func writeTokenError(c *echo.Context, err error) error {
	if errors.Is(err, bpe.ErrUnknownToken) || errors.Is(err, bpe.ErrInvalidTokenID) {
		return writeBadRequest(c, err.Error())
	}
	return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
}

func specialTokenRoles(v tokenizer.Variant) map[string]string {
	roles := make(map[string]string)
	if v.Start != "" {
		roles["start"] = v.Start
	}
	if v.End != "" {
		roles["end"] = v.End
	}
	if v.Pad != "" {
		roles["pad"] = v.Pad
	}
	if v.Mask != "" {
		roles["mask"] = v.Mask
	}
	if v.Unknown != "" {
		roles["unknown"] = v.Unknown
	}
	if len(roles) == 0 {
		return nil
	}
	return roles
}

func newRequestID() string {
	return "tok_" + uuid.NewString()
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
