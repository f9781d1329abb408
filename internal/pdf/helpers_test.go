package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"medlens/pkg/models"
)

// buildPDF writes a minimal PDF 1.4 file with one Helvetica text run per page.
// An empty string produces a page with an empty content stream.
func buildPDF(pageTexts ...string) []byte {
	kids := make([]string, len(pageTexts))
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pageTexts {
		content := "q Q"
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

type fakeReader struct {
	pages []string
	err   error
}

func (f fakeReader) ReadPages(string) ([]string, error) { return f.pages, f.err }

// fakeRasterizer emits each entry of pages as the PNG bytes of that page.
type fakeRasterizer struct {
	pages [][]byte
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, _ string, visit func(int, []byte) error) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i, page := range f.pages {
		if err := visit(i+1, page); err != nil {
			return err
		}
	}
	return nil
}

func rasterPages(names ...string) [][]byte {
	out := make([][]byte, len(names))
	for i, n := range names {
		out[i] = []byte(n)
	}
	return out
}

// fakeRecognizer maps the fake PNG bytes to OCR text.
type fakeRecognizer struct {
	texts map[string]string
	fail  map[string]error
	calls int
}

func (f *fakeRecognizer) Extract(_ context.Context, image []byte) (string, error) {
	f.calls++
	if err, ok := f.fail[string(image)]; ok {
		return "", err
	}
	return f.texts[string(image)], nil
}

type fakeStrategy struct {
	tier   models.Tier
	result TierResult
	calls  int
}

func (f *fakeStrategy) Tier() models.Tier { return f.tier }

func (f *fakeStrategy) Extract(context.Context, string) TierResult {
	f.calls++
	f.result.Tier = f.tier
	return f.result
}
