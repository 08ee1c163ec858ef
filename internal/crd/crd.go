// Package crd reads and writes the ".crd" document format.
package crd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cardeditor/internal/domain"
	"cardeditor/internal/tree"
)

// Extension is the file extension of card documents.
const Extension = ".crd"

// DefaultName is the tab name given to documents without metadata.name.
const DefaultName = "Loaded Workspace"

// timeLayout matches JavaScript's Date.prototype.toISOString.
const timeLayout = "2006-01-02T15:04:05.000Z"

var whitespace = regexp.MustCompile(`\s+`)

// New builds the file for a document about to be written at now.
// elements and canvas are copied.
func New(name string, elements []*domain.Element, canvas domain.CanvasProperties, now time.Time) *domain.CRDFile {
	ts := FormatTime(now)
	els := tree.DeepCopy(elements)
	if els == nil {
		els = []*domain.Element{}
	}
	return &domain.CRDFile{
		Version:   domain.CRDVersion,
		CreatedAt: ts,
		UpdatedAt: ts,
		Canvas:    canvas.Clone(),
		Elements:  els,
		Metadata: domain.Metadata{
			Name:        name,
			Description: domain.CRDDescription,
		},
	}
}

// Encode serialises f as indented JSON.
func Encode(f *domain.CRDFile) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode crd: %w", err)
	}
	return data, nil
}

// rawFile keeps the required members undecoded so that presence can be
// checked before the typed decode.
type rawFile struct {
	Version   json.RawMessage `json:"version"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Canvas    json.RawMessage `json:"canvas"`
	Elements  json.RawMessage `json:"elements"`
	Metadata  json.RawMessage `json:"metadata"`
}

// Parse decodes and validates a document. A document is accepted when it
// has a truthy version (a non-empty string, a non-zero number or true) and
// both canvas and elements are present. A version that is not a string is
// kept as its JSON text. The
// element forest must also have unique, non-empty ids and known types.
// Every failure wraps domain.ErrInvalidDocument.
func Parse(data []byte) (*domain.CRDFile, error) {
	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalid(err)
	}
	if err := validation.ValidateStruct(&raw,
		validation.Field(&raw.Version, validation.By(truthyScalar)),
		validation.Field(&raw.Canvas, validation.By(present)),
		validation.Field(&raw.Elements, validation.By(present)),
	); err != nil {
		return nil, invalid(err)
	}

	f := &domain.CRDFile{CreatedAt: raw.CreatedAt, UpdatedAt: raw.UpdatedAt}
	f.Version = versionText(raw.Version)
	if err := json.Unmarshal(raw.Canvas, &f.Canvas); err != nil {
		return nil, invalid(fmt.Errorf("canvas: %w", err))
	}
	if err := json.Unmarshal(raw.Elements, &f.Elements); err != nil {
		return nil, invalid(fmt.Errorf("elements: %w", err))
	}
	if len(raw.Metadata) > 0 && !isNull(raw.Metadata) {
		if err := json.Unmarshal(raw.Metadata, &f.Metadata); err != nil {
			return nil, invalid(fmt.Errorf("metadata: %w", err))
		}
	}
	if err := tree.Validate(f.Elements); err != nil {
		return nil, invalid(err)
	}
	return f, nil
}

// TabName is the name a tab opened from f should get.
func TabName(f *domain.CRDFile) string {
	if f.Metadata.Name == "" {
		return DefaultName
	}
	return f.Metadata.Name
}

// FileName suggests a file name: the document name with runs of whitespace
// replaced by "_", then "_" and the Unix time in milliseconds.
func FileName(name string, now time.Time) string {
	return whitespace.ReplaceAllString(name, "_") + "_" + strconv.FormatInt(now.UnixMilli(), 10) + Extension
}

// FormatTime renders t the way the format stores timestamps.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func present(value interface{}) error {
	msg, _ := value.(json.RawMessage)
	if len(msg) == 0 || isNull(msg) {
		return validation.ErrRequired
	}
	return nil
}

func truthyScalar(value interface{}) error {
	if err := present(value); err != nil {
		return err
	}
	var v interface{}
	if err := json.Unmarshal(value.(json.RawMessage), &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		if v == "" {
			return validation.ErrRequired
		}
	case float64:
		if v == 0 {
			return validation.ErrRequired
		}
	case bool:
		if !v {
			return validation.ErrRequired
		}
	default:
		return validation.NewError("validation_is_scalar", "must be a string, number or boolean")
	}
	return nil
}

// versionText returns a string version unquoted and any other version as
// its literal JSON text.
func versionText(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(msg))
}
