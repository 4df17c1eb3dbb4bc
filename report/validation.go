package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Upload and translate request errors. All of them are surfaced before the
// extraction or translation core runs.
var (
	ErrNoFile            = errors.New("no file provided")
	ErrInvalidFileType   = errors.New("invalid file type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrMissingExpression = errors.New("xpath expression required")
)

// DefaultMaxUploadBytes caps uploaded process files at 16 MiB.
const DefaultMaxUploadBytes = 16 << 20

// allowedExtensions is the accepted process-file extension whitelist.
var allowedExtensions = map[string]bool{
	"xml":     true,
	"process": true,
	"bwp":     true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe storage
// id: path components are dropped and anything outside a conservative
// character set collapses to underscores. Returns "" when nothing safe
// remains.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// ValidateUpload checks the filename and size before anything touches the
// store or the parser.
func ValidateUpload(filename string, size int64, maxBytes int64) error {
	if strings.TrimSpace(filename) == "" {
		return ErrNoFile
	}

	dot := strings.LastIndex(filename, ".")
	if dot < 0 || dot == len(filename)-1 {
		return fmt.Errorf("%w: missing extension (allowed: xml, process, bwp)", ErrInvalidFileType)
	}
	ext := strings.ToLower(filename[dot+1:])
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: .%s (allowed: xml, process, bwp)", ErrInvalidFileType, ext)
	}

	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}
