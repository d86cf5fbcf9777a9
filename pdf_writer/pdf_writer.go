package pdf_writer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/image/draw"

	"imgconv/contracts"
)

const (
	defaultResolution = 72.0
	pageJPEGQuality   = 95
)

var ErrNoPages = errors.New("document has no pages")

// Options are the PDF encoder settings accepted through EncoderOptions.
type Options struct {
	// Resolution in DPI, used to turn pixel sizes into page sizes.
	Resolution float64
	Title      string
	Author     string
	Subject    string
	Keywords   string
	Creator    string
}

func DefaultOptions() Options {
	return Options{Resolution: defaultResolution}
}

// OptionsFromMap validates opts and converts them into Options.
func OptionsFromMap(opts contracts.EncoderOptions) (Options, error) {
	o := DefaultOptions()
	for key, value := range opts {
		switch key {
		case "resolution":
			res, err := toFloat(value)
			if err != nil {
				return o, fmt.Errorf("option %q: %v", key, err)
			}
			if res <= 0 {
				return o, fmt.Errorf("option %q must be positive, got %v", key, res)
			}
			o.Resolution = res
		case "title", "author", "subject", "keywords", "creator":
			s, ok := value.(string)
			if !ok {
				return o, fmt.Errorf("option %q must be a string, got %T", key, value)
			}
			switch key {
			case "title":
				o.Title = s
			case "author":
				o.Author = s
			case "subject":
				o.Subject = s
			case "keywords":
				o.Keywords = s
			case "creator":
				o.Creator = s
			}
		default:
			return o, fmt.Errorf("unsupported PDF option %q", key)
		}
	}
	return o, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", value)
	}
}

// PDFWriter collects one page per image and writes the document on Finish.
type PDFWriter struct {
	pdf     *gofpdf.Fpdf
	scale   float64
	pageNum int
}

func NewPDFWriter(opts Options) *PDFWriter {
	if opts.Resolution <= 0 {
		opts.Resolution = defaultResolution
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}
	if opts.Subject != "" {
		pdf.SetSubject(opts.Subject, true)
	}
	if opts.Keywords != "" {
		pdf.SetKeywords(opts.Keywords, true)
	}
	if opts.Creator != "" {
		pdf.SetCreator(opts.Creator, true)
	}
	return &PDFWriter{
		pdf:   pdf,
		scale: 72.0 / opts.Resolution,
	}
}

func (pw *PDFWriter) Pages() int {
	return pw.pageNum
}

// WriteImage appends img as a new page sized to the image.
func (pw *PDFWriter) WriteImage(img image.Image) error {
	buf, imageType, err := encodePage(img)
	if err != nil {
		return fmt.Errorf("error encoding page %d: %w", pw.pageNum+1, err)
	}

	bounds := img.Bounds()
	width := float64(bounds.Dx()) * pw.scale
	height := float64(bounds.Dy()) * pw.scale
	imageID := fmt.Sprintf("img_%d", pw.pageNum)
	options := gofpdf.ImageOptions{
		ImageType: imageType,
		ReadDpi:   false,
	}

	pw.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: width, Ht: height})
	pw.pdf.RegisterImageOptionsReader(imageID, options, buf)
	pw.pdf.ImageOptions(imageID, 0, 0, width, height, false, options, 0, "")
	if err := pw.pdf.Error(); err != nil {
		return fmt.Errorf("error writing page %d: %w", pw.pageNum+1, err)
	}
	pw.pageNum++
	return nil
}

// encodePage picks the embedding for a page: gray JPEG for luminance
// images, RGB JPEG for opaque colour and PNG when there is alpha to keep.
func encodePage(img image.Image) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	if g16, ok := img.(*image.Gray16); ok {
		img = toGray(g16)
	}
	if _, ok := img.(*image.Gray); ok || isOpaque(img) {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: pageJPEGQuality}); err != nil {
			return nil, "", err
		}
		return &buf, "JPG", nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return &buf, "PNG", nil
}

// toGray drops 16-bit luminance to 8 bits so it is embedded as DeviceGray.
func toGray(src *image.Gray16) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// Finish writes the document to dst.
func (pw *PDFWriter) Finish(dst io.Writer) error {
	if pw.pageNum == 0 {
		return ErrNoPages
	}
	if err := pw.pdf.Output(dst); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}
