package main

import (
	"encoding/json"

	"github.com/bwdocs/xpath-translator/report"
	"github.com/bwdocs/xpath-translator/xpath"
)

// API request and response models.

// TranslateRequest is the body for translating a single expression.
type TranslateRequest struct {
	XPath   string            `json:"xpath"`
	Context map[string]string `json:"context,omitempty"`
}

// TranslateResponse is the translation of a single expression.
type TranslateResponse struct {
	XPath         string         `json:"xpath"`
	PlainLanguage string         `json:"plain_language"`
	Steps         []string       `json:"steps"`
	Confidence    string         `json:"confidence"`
	DataFlow      xpath.DataFlow `json:"data_flow"`
}

// BatchTranslateRequest is the body for translating several expressions
// in one call.
type BatchTranslateRequest struct {
	XPaths []BatchTranslateItem `json:"xpaths"`
}

// BatchTranslateItem is one entry in a batch request.
type BatchTranslateItem struct {
	Expr    string            `json:"expr"`
	Context map[string]string `json:"context,omitempty"`
}

// UnmarshalJSON accepts either a bare expression string or an object
// with expr and context fields.
func (b *BatchTranslateItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		b.Context = nil
		return json.Unmarshal(data, &b.Expr)
	}
	type alias BatchTranslateItem
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = BatchTranslateItem(a)
	return nil
}

// BatchTranslateResponse wraps the per-item batch results.
type BatchTranslateResponse struct {
	Translations []report.BatchResult `json:"translations"`
}

// FilesResponse lists the stored documents.
type FilesResponse struct {
	Files []report.FileInfo `json:"files"`
}
