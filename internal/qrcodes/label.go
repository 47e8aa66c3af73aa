package qrcodes

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Label returns a single-page PDF holding the document's QR code, for
// printing and attaching to the paper original.
func (g *Generator) Label(ctx context.Context, id uuid.UUID) ([]byte, error) {
	png, err := g.Data(ctx, id)
	if err != nil {
		return nil, err
	}
	return LabelPDF(png)
}

// LabelPDF places a PNG image on a new single-page PDF.
func LabelPDF(png []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := api.ImportImages(
		nil,
		&buf,
		[]io.Reader{bytes.NewReader(png)},
		pdfcpu.DefaultImportConfig(),
		model.NewDefaultConfiguration(),
	)
	if err != nil {
		return nil, fmt.Errorf("build label pdf: %w", err)
	}
	return buf.Bytes(), nil
}
