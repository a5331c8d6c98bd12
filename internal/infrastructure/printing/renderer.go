package printing

import (
	"context"
	"strings"
	"time"
)

// Paper is a supported output sheet
type Paper string

const (
	PaperA4     Paper = "A4"
	PaperLetter Paper = "LETTER"
)

// IsValid reports whether the paper is supported
func (p Paper) IsValid() bool {
	return p == PaperA4 || p == PaperLetter
}

// Dimensions returns width and height in millimeters
func (p Paper) Dimensions() (width, height float64) {
	if p == PaperLetter {
		return 215.9, 279.4
	}
	return 210, 297
}

// Margins are page margins in millimeters
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins suits a single-page tax invoice
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	HTML      string
	Paper     Paper
	Landscape bool
	Margins   Margins
	// Title is used when HTML is a fragment and needs a document wrapper
	Title string
	// FooterHTML is printed on every page, e.g. page numbers
	FooterHTML string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer renders HTML to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeInvalidHTML   = "INVALID_HTML"
	ErrCodeInvalidPaper  = "INVALID_PAPER"
	ErrCodeTemplate      = "TEMPLATE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// validate checks the request before a browser is touched
func (req *RenderRequest) validate() error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.Paper.IsValid() {
		return NewRenderError(ErrCodeInvalidPaper, "invalid paper: "+string(req.Paper), nil)
	}
	return nil
}
