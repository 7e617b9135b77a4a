// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func encodeTIFF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "00.png", FileName(0))
	assert.Equal(t, "07.png", FileName(7))
	assert.Equal(t, "42.png", FileName(42))
	assert.Equal(t, "123.png", FileName(123))
}

func TestOrder(t *testing.T) {
	raws := []rawImage{
		{Page: 2, ObjNr: 9},
		{Page: 1, ObjNr: 30},
		{Page: 2, ObjNr: 4},
		{Page: 1, ObjNr: 12},
	}
	order(raws)

	var got [][2]int
	for _, r := range raws {
		got = append(got, [2]int{r.Page, r.ObjNr})
	}
	assert.Equal(t, [][2]int{{1, 12}, {1, 30}, {2, 4}, {2, 9}}, got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		fileType string
		data     func(t *testing.T) []byte
		wantErr  error
	}{
		{"jpeg", "jpg", func(t *testing.T) []byte { return encodeJPEG(t, 8, 6) }, nil},
		{"png", "png", func(t *testing.T) []byte { return encodePNG(t, 8, 6) }, nil},
		{"tiff", "tif", func(t *testing.T) []byte { return encodeTIFF(t, 8, 6) }, nil},
		{"jpeg 2000", "jpx", func(*testing.T) []byte { return []byte{0, 0, 0, 12} }, ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := decode(tt.fileType, tt.data(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 8, img.Bounds().Dx())
			assert.Equal(t, 6, img.Bounds().Dy())
		})
	}
}

func TestNormalize(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	assert.Same(t, gray, normalize(gray).(*image.Gray))

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, rgba, normalize(rgba).(*image.RGBA))

	cmyk := image.NewCMYK(image.Rect(3, 4, 7, 6))
	cmyk.Set(3, 4, color.CMYK{C: 255})
	out := normalize(cmyk)
	nrgba, ok := out.(*image.NRGBA)
	require.True(t, ok, "CMYK should be converted, got %T", out)
	assert.Equal(t, image.Rect(0, 0, 4, 2), nrgba.Bounds())
	r, g, b, _ := nrgba.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	raws := []rawImage{
		{Page: 3, ObjNr: 5, FileType: "png", Data: encodePNG(t, 10, 20)},
		{Page: 1, ObjNr: 8, FileType: "jpg", Data: encodeJPEG(t, 30, 40)},
		{Page: 1, ObjNr: 2, FileType: "tif", Data: encodeTIFF(t, 50, 60)},
	}

	var log bytes.Buffer
	records, err := save(context.Background(), raws, 3, dir, &log)
	require.NoError(t, err)
	require.Len(t, records, 3)

	want := []struct{ page, w, h int }{{1, 50, 60}, {1, 30, 40}, {3, 10, 20}}
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, filepath.Join(dir, FileName(i)), rec.Path)
		assert.Equal(t, want[i].page, rec.Page)
		assert.Equal(t, want[i].w, rec.Width)
		assert.Equal(t, want[i].h, rec.Height)

		f, err := os.Open(rec.Path)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, want[i].w, cfg.Width)
	}

	out := log.String()
	assert.Equal(t, 3, strings.Count(out, "extracting images from page"))
	assert.Contains(t, out, "extracting images from page 2..")
	assert.Contains(t, out, "finished extracting 3 images")
}

func TestSave_UnsupportedStopsRun(t *testing.T) {
	dir := t.TempDir()
	raws := []rawImage{
		{Page: 1, ObjNr: 1, FileType: "png", Data: encodePNG(t, 4, 4)},
		{Page: 2, ObjNr: 1, FileType: "jpx", Data: []byte("x")},
	}

	records, err := save(context.Background(), raws, 2, dir, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Len(t, records, 1)
	assert.FileExists(t, filepath.Join(dir, "00.png"))
}

func TestSave_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raws := []rawImage{{Page: 1, ObjNr: 1, FileType: "png", Data: encodePNG(t, 4, 4)}}
	_, err := save(ctx, raws, 1, t.TempDir(), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

// buildPDF writes one page per image file into a new PDF.
func buildPDF(t *testing.T, images map[string][]byte, order []string) string {
	t.Helper()
	dir := t.TempDir()
	var files []string
	for _, name := range order {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, images[name], 0o644))
		files = append(files, path)
	}
	pdfPath := filepath.Join(dir, "book.pdf")
	require.NoError(t, api.ImportImagesFile(files, pdfPath, nil, nil))
	return pdfPath
}

func TestPDFCPU_Extract(t *testing.T) {
	pdfPath := buildPDF(t, map[string][]byte{
		"a.png": encodePNG(t, 30, 20),
		"b.jpg": encodeJPEG(t, 40, 24),
		"c.png": encodePNG(t, 12, 16),
	}, []string{"a.png", "b.jpg", "c.png"})

	staging := t.TempDir()
	var log bytes.Buffer
	records, err := PDFCPU{StagingDir: staging, Out: &log}.Extract(context.Background(), pdfPath)
	require.NoError(t, err)

	require.Len(t, records, 3)
	wantSizes := [][2]int{{30, 20}, {40, 24}, {12, 16}}
	for i, rec := range records {
		assert.Equal(t, i, rec.Index)
		assert.Equal(t, i+1, rec.Page)
		assert.Equal(t, filepath.Join(staging, FileName(i)), rec.Path)
		assert.Equal(t, wantSizes[i], [2]int{rec.Width, rec.Height})
		assert.FileExists(t, rec.Path)
	}
	assert.FileExists(t, filepath.Join(staging, "02.png"))

	out := log.String()
	for _, line := range []string{
		"extracting images from page 1..",
		"extracting images from page 2..",
		"extracting images from page 3..",
		"finished extracting 3 images",
	} {
		assert.Contains(t, out, line)
	}
}

func TestReadInfo(t *testing.T) {
	pdfPath := buildPDF(t, map[string][]byte{
		"a.png": encodePNG(t, 8, 8),
		"b.png": encodePNG(t, 8, 8),
	}, []string{"a.png", "b.png"})

	info, err := ReadInfo(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
}

func TestPDFCPU_MissingFile(t *testing.T) {
	_, err := PDFCPU{StagingDir: t.TempDir()}.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}

func TestPDFCPU_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	_, err := PDFCPU{StagingDir: t.TempDir()}.Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestReadInfo_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	_, err := ReadInfo(path)
	assert.Error(t, err)
}
