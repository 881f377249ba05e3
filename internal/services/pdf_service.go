package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	DefaultFont   = "kalpurush"
	WrapWidth     = 80
	fallbackFace  = "Helvetica"
	pageMarginMM  = 18
	bodyLineMM    = 6.5
	titleSizePt   = 16
	captionSizePt = 12
	bodySizePt    = 12
)

// FontFiles is the fixed set of selectable Bengali fonts, keyed by the value
// clients send as "font".
var FontFiles = map[string]string{
	"kalpurush":    "kalpurush.ttf",
	"siyamrupali":  "SiyamRupali.ttf",
	"solaimanlipi": "SolaimanLipi.ttf",
	"nikosh":       "Nikosh.ttf",
}

// Document is a rendered export.
type Document struct {
	Data []byte
	// Font is the key actually used after fallback.
	Font  string
	Pages int
}

type PDFExporter struct {
	fontsDir    string
	defaultFont string
	logger      *zap.Logger
}

func NewPDFExporter(fontsDir, defaultFont string, logger *zap.Logger) *PDFExporter {
	if _, ok := FontFiles[defaultFont]; !ok {
		defaultFont = DefaultFont
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExporter{fontsDir: fontsDir, defaultFont: defaultFont, logger: logger}
}

// ResolveFont maps a requested key onto the font set, falling back to the
// default for unknown keys.
func (e *PDFExporter) ResolveFont(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := FontFiles[key]; ok {
		return key
	}
	return e.defaultFont
}

// Render lays out title, caption and body on A4 pages. The body is wrapped at
// WrapWidth characters and flows onto as many pages as it needs.
func (e *PDFExporter) Render(text, title, caption, fontKey string) (*Document, error) {
	font := e.ResolveFont(fontKey)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(true, pageMarginMM)
	pdf.SetCreator("banglish converter", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	family, tr := e.loadFont(pdf, font)

	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "", titleSizePt)
		pdf.MultiCell(0, 9, tr(title), "", "L", false)
		pdf.Ln(2)
	}
	if caption != "" {
		pdf.SetFont(family, "", captionSizePt)
		pdf.MultiCell(0, 7, tr(caption), "", "L", false)
		pdf.Ln(6)
	}

	pdf.SetFont(family, "", bodySizePt)
	for _, line := range WrapText(text, WrapWidth) {
		pdf.CellFormat(0, bodyLineMM, tr(line), "", 1, "L", false, 0, "")
	}

	pages := pdf.PageCount()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &Document{Data: buf.Bytes(), Font: font, Pages: pages}, nil
}

// loadFont registers the TTF for font. When the file is missing the core
// Helvetica face is used so exports still succeed, minus Bengali glyphs.
func (e *PDFExporter) loadFont(pdf *fpdf.Fpdf, font string) (string, func(string) string) {
	path := filepath.Join(e.fontsDir, FontFiles[font])
	if _, err := os.Stat(path); err != nil {
		e.logger.Warn("font file unavailable, using built-in face",
			zap.String("font", font),
			zap.String("path", path),
			zap.Error(err),
		)
		return fallbackFace, pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddUTF8Font(font, "", path)
	return font, func(s string) string { return s }
}

// WrapText splits text into lines of at most width characters, breaking on
// whitespace. Paragraph breaks are kept; words longer than width are split.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = WrapWidth
	}

	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line, lineLen := "", 0
		flush := func() {
			if lineLen > 0 {
				lines = append(lines, line)
			}
			line, lineLen = "", 0
		}

		for _, w := range words {
			for _, chunk := range splitLong(w, width) {
				n := utf8.RuneCountInString(chunk)
				switch {
				case lineLen == 0:
					line, lineLen = chunk, n
				case lineLen+1+n <= width:
					line += " " + chunk
					lineLen += 1 + n
				default:
					flush()
					line, lineLen = chunk, n
				}
			}
		}
		flush()
	}

	// Trailing blank lines add nothing to the page.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitLong(word string, width int) []string {
	if utf8.RuneCountInString(word) <= width {
		return []string{word}
	}
	runes := []rune(word)
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
