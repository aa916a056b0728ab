// Package docx normalises Word (OOXML) documents to plain text.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// documentPart is the main document inside the archive.
const documentPart = "word/document.xml"

// maxPartSize bounds the decompressed document part.
const maxPartSize = 64 << 20

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns "docx".
func (n *Normaliser) Name() string {
	return "docx"
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".docx"}
}

// Normalise returns the document's paragraphs, one per line.
func (n *Normaliser) Normalise(_ context.Context, raw []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %w", domain.ErrExtraction, err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: opening %s: %w", domain.ErrExtraction, documentPart, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %w", domain.ErrExtraction, documentPart, err)
		}
		return parseDocumentXML(content)
	}

	return "", fmt.Errorf("%w: archive has no %s", domain.ErrExtraction, documentPart)
}

type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type paragraph struct {
	Runs []run `xml:"r"`
	// Hyperlinks wrap their own runs.
	Links []struct {
		Runs []run `xml:"r"`
	} `xml:"hyperlink"`
}

type run struct {
	Text []string   `xml:"t"`
	Tabs []struct{} `xml:"tab"`
}

func (p paragraph) text() string {
	var b strings.Builder
	write := func(runs []run) {
		for _, r := range runs {
			for _, t := range r.Text {
				b.WriteString(t)
			}
			for range r.Tabs {
				b.WriteString("\t")
			}
		}
	}
	write(p.Runs)
	for _, l := range p.Links {
		write(l.Runs)
	}
	return strings.TrimSpace(b.String())
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", domain.ErrExtraction, documentPart, err)
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		if t := para.text(); t != "" {
			lines = append(lines, t)
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				for _, para := range cell.Paragraphs {
					if t := para.text(); t != "" {
						cells = append(cells, t)
					}
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " "))
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
