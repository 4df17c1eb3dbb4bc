// Package report composes the document store, the expression extractor,
// and the translator into the operations the API and CLI expose.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bwdocs/xpath-translator/documents"
	"github.com/bwdocs/xpath-translator/xpath"
)

// UploadSummary is returned after a successful upload.
type UploadSummary struct {
	FileID       string                `json:"file_id"`
	OriginalName string                `json:"original_name"`
	XPathCount   int                   `json:"xpath_count"`
	Metadata     xpath.ProcessMetadata `json:"metadata"`
}

// TranslatedExpression merges one discovered expression with its
// translation for the per-file report.
type TranslatedExpression struct {
	ID            string            `json:"id"`
	XPath         string            `json:"xpath"`
	PlainLanguage string            `json:"plain_language"`
	Location      string            `json:"location"`
	Activity      string            `json:"activity"`
	Steps         []string          `json:"steps"`
	Confidence    string            `json:"confidence"`
	Context       map[string]string `json:"context"`
}

// Report is the full parse-and-translate result for one document.
type Report struct {
	FileID       string                 `json:"file_id"`
	Metadata     xpath.ProcessMetadata  `json:"metadata"`
	Translations []TranslatedExpression `json:"translations"`
	TotalCount   int                    `json:"total_count"`
}

// BatchItem is one expression in a batch translate request.
type BatchItem struct {
	Expr    string            `json:"expr"`
	Context map[string]string `json:"context,omitempty"`
}

// BatchResult is one translated expression in a batch response.
type BatchResult struct {
	XPath         string   `json:"xpath"`
	PlainLanguage string   `json:"plain_language"`
	Steps         []string `json:"steps"`
	Confidence    string   `json:"confidence"`
}

// FileInfo describes one stored document without its content.
type FileInfo struct {
	FileID       string `json:"file_id"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
	UploadedAt   string `json:"uploaded_at"`
}

// Service ties storage, extraction, and translation together. Stateless
// apart from the store and the report cache; safe for concurrent use.
type Service struct {
	store          documents.Store
	parser         *xpath.Parser
	translator     *xpath.Translator
	cache          Cache
	maxUploadBytes int64
}

// NewService creates a Service over the given document store with default
// limits and an in-memory report cache.
func NewService(store documents.Store) *Service {
	return &Service{
		store:          store,
		parser:         xpath.NewParser(),
		translator:     xpath.NewTranslator(),
		cache:          NewInMemoryCache(DefaultCacheConfig()),
		maxUploadBytes: DefaultMaxUploadBytes,
	}
}

// SetMaxUploadBytes overrides the upload size cap. Zero disables the cap.
func (s *Service) SetMaxUploadBytes(n int64) {
	s.maxUploadBytes = n
}

// Upload validates, persists, and parses one uploaded process file. The
// sanitized filename becomes the file id; re-uploading the same name
// replaces the stored content and drops any cached report for it.
func (s *Service) Upload(filename string, data []byte) (*UploadSummary, error) {
	if err := ValidateUpload(filename, int64(len(data)), s.maxUploadBytes); err != nil {
		return nil, err
	}

	id := SanitizeFilename(filename)
	if id == "" {
		return nil, ErrNoFile
	}

	doc := &documents.Document{
		ID:           id,
		Filename:     id,
		OriginalName: filename,
		Content:      data,
		SizeBytes:    int64(len(data)),
	}
	if err := s.store.Put(doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	s.cache.Invalidate(id)

	parsed, err := s.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return &UploadSummary{
		FileID:       id,
		OriginalName: filename,
		XPathCount:   len(parsed.Expressions),
		Metadata:     parsed.Metadata,
	}, nil
}

// TranslateOne translates a single expression with optional context.
func (s *Service) TranslateOne(expr string, ctx map[string]string) (*xpath.Translation, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, ErrMissingExpression
	}
	return s.translator.Translate(expr, ctx), nil
}

// ParseAndTranslate loads a stored document, extracts every expression,
// and translates each one. Cached reports are served until the document
// changes.
func (s *Service) ParseAndTranslate(fileID string) (*Report, error) {
	id := SanitizeFilename(fileID)
	if id == "" {
		return nil, fmt.Errorf("document %s: %w", fileID, documents.ErrNotFound)
	}

	if cached := s.cache.Get(id); cached != nil {
		return cached, nil
	}

	doc, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(bytes.NewReader(doc.Content))
	if err != nil {
		return nil, err
	}

	result := BuildReport(id, parsed, s.translator)
	s.cache.Set(id, result)
	return result, nil
}

// BatchTranslate translates every item independently. Items are never
// rejected: translation always succeeds for any expression string.
func (s *Service) BatchTranslate(items []BatchItem) []BatchResult {
	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		tr := s.translator.Translate(item.Expr, item.Context)
		results = append(results, BatchResult{
			XPath:         item.Expr,
			PlainLanguage: tr.Description,
			Steps:         tr.Steps,
			Confidence:    tr.Confidence,
		})
	}
	return results
}

// ListDocuments returns summaries of every stored document.
func (s *Service) ListDocuments() ([]FileInfo, error) {
	docs, err := s.store.List()
	if err != nil {
		return nil, err
	}
	infos := make([]FileInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, FileInfo{
			FileID:       doc.ID,
			OriginalName: doc.OriginalName,
			SizeBytes:    doc.SizeBytes,
			UploadedAt:   doc.UploadedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return infos, nil
}

// DeleteDocument removes a stored document and its cached report.
func (s *Service) DeleteDocument(fileID string) error {
	id := SanitizeFilename(fileID)
	if id == "" {
		return fmt.Errorf("document %s: %w", fileID, documents.ErrNotFound)
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.cache.Invalidate(id)
	return nil
}

// BuildReport assembles the merged translation report for one parsed
// document. Exposed so the CLI can produce the same report shape without
// a store.
func BuildReport(fileID string, parsed *xpath.ParseResult, translator *xpath.Translator) *Report {
	translations := make([]TranslatedExpression, 0, len(parsed.Expressions))
	for _, expr := range parsed.Expressions {
		tr := translator.Translate(expr.Expression, expr.Context)
		translations = append(translations, TranslatedExpression{
			ID:            expr.ID,
			XPath:         expr.Expression,
			PlainLanguage: tr.Description,
			Location:      expr.Location,
			Activity:      expr.Activity,
			Steps:         tr.Steps,
			Confidence:    tr.Confidence,
			Context:       expr.Context,
		})
	}
	return &Report{
		FileID:       fileID,
		Metadata:     parsed.Metadata,
		Translations: translations,
		TotalCount:   len(translations),
	}
}
