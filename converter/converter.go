package converter

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"imgconv/contracts"
	"imgconv/files_manager"
	"imgconv/pdf_writer"
)

const defaultJPEGQuality = 75

type documentEncoder struct {
	validate func(opts contracts.EncoderOptions) error
	encode   func(images []image.Image, outFile string, opts contracts.EncoderOptions) error
}

var documentEncoders = map[string]documentEncoder{
	".pdf": {validate: validatePDFOptions, encode: encodePDF},
}

// Convert runs request as a multi-page document when the destination is a
// document and as a single image conversion otherwise.
func Convert(request contracts.ConversionRequest) error {
	if files_manager.IsDocument(request.Destination) {
		return ImagesToDocument(request.Sources, request.Destination, request.Filters, request.Options)
	}
	if len(request.Sources) != 1 {
		return fmt.Errorf("%w: can only convert one source file to an image, got %d", ErrUsage, len(request.Sources))
	}
	return ConvertImage(request.Sources[0], request.Destination, request.Filters, request.Options)
}

// ImagesToDocument loads sources in order, runs filters over the whole list
// and writes the result as a multi-page document to outFile. The document
// format is taken from the outFile extension and opts are handed to its
// encoder.
func ImagesToDocument(sources []string, outFile string, filters []contracts.Filter, opts contracts.EncoderOptions) error {
	if len(sources) == 0 {
		return fmt.Errorf("%w: empty image file list", ErrUsage)
	}
	for _, key := range contracts.ReservedOptions {
		if _, ok := opts[key]; ok {
			return fmt.Errorf("%w: cannot supply the %q option as it will be overridden", ErrUsage, key)
		}
	}

	ext := strings.ToLower(filepath.Ext(outFile))
	encoder, ok := documentEncoders[ext]
	if !ok {
		return fmt.Errorf("%w: no multi-page encoder for %q (%s)", ErrEncode, ext, outFile)
	}
	if err := encoder.validate(opts); err != nil {
		return err
	}

	images := make([]image.Image, 0, len(sources))
	for _, source := range sources {
		img, err := LoadImage(source)
		if err != nil {
			return err
		}
		images = append(images, img)
	}

	images, err := applyFilters(images, filters)
	if err != nil {
		return err
	}

	if err := encoder.encode(images, outFile, opts); err != nil {
		return err
	}
	logger.Debug("wrote document", "path", outFile, "pages", len(images))
	return nil
}

// ConvertImage converts a single source image to the format of outFile.
// The only option understood is "quality" for JPEG output.
func ConvertImage(source, outFile string, filters []contracts.Filter, opts contracts.EncoderOptions) error {
	encodeOpts, err := imageEncodeOptions(opts)
	if err != nil {
		return err
	}
	if _, err := imaging.FormatFromFilename(outFile); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, outFile, err)
	}

	img, err := LoadImage(source)
	if err != nil {
		return err
	}

	images, err := applyFilters([]image.Image{img}, filters)
	if err != nil {
		return err
	}
	if len(images) != 1 {
		return fmt.Errorf("%w: filters produced %d images, expected exactly one", ErrUsage, len(images))
	}

	if err := imaging.Save(images[0], outFile, encodeOpts...); err != nil {
		return fmt.Errorf("%w: saving %s: %w", ErrEncode, outFile, err)
	}
	logger.Debug("wrote image", "path", outFile)
	return nil
}

func applyFilters(images []image.Image, filters []contracts.Filter) ([]image.Image, error) {
	for i, filter := range filters {
		var err error
		images, err = filter(images)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		logger.Debug("applied filter", "index", i, "images", len(images))
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: filters left no images to encode", ErrUsage)
	}
	return images, nil
}

func imageEncodeOptions(opts contracts.EncoderOptions) ([]imaging.EncodeOption, error) {
	quality := defaultJPEGQuality
	for key, value := range opts {
		if key != "quality" {
			return nil, fmt.Errorf("%w: unsupported image option %q", ErrUsage, key)
		}
		q, ok := value.(int)
		if !ok {
			return nil, fmt.Errorf("%w: option %q must be an integer, got %T", ErrUsage, key, value)
		}
		if q < 1 || q > 100 {
			return nil, fmt.Errorf("%w: quality must be between 1 and 100, got %d", ErrUsage, q)
		}
		quality = q
	}
	return []imaging.EncodeOption{imaging.JPEGQuality(quality)}, nil
}

func validatePDFOptions(opts contracts.EncoderOptions) error {
	if _, err := pdf_writer.OptionsFromMap(opts); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

func encodePDF(images []image.Image, outFile string, opts contracts.EncoderOptions) (err error) {
	pdfOpts, err := pdf_writer.OptionsFromMap(opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	pw := pdf_writer.NewPDFWriter(pdfOpts)
	for _, img := range images {
		if err := pw.WriteImage(img); err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}

	file, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrEncode, outFile, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %w", ErrEncode, outFile, cerr)
		}
	}()

	if err := pw.Finish(file); err != nil {
		if errors.Is(err, pdf_writer.ErrNoPages) {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrEncode, outFile, err)
	}
	return nil
}

// BuildFilters turns the command line switches into a filter chain. Width
// adjustment runs before the grayscale conversion.
func BuildFilters(flags contracts.InputFlags) []contracts.Filter {
	var filters []contracts.Filter
	if flags.AdjustWidths {
		filters = append(filters, WidthAdjuster(DefaultResample))
	}
	if flags.Grayscale {
		filters = append(filters, ToGrayscale)
	}
	return filters
}

// BuildOptions collects the encoder options given on the command line and
// rejects the ones that do not apply to the destination.
func BuildOptions(flags contracts.InputFlags) (contracts.EncoderOptions, error) {
	opts := contracts.EncoderOptions{}
	if files_manager.IsDocument(flags.Destination) {
		if flags.QualitySet {
			return nil, fmt.Errorf("%w: --quality does not apply to PDF", ErrUsage)
		}
		if flags.Title != "" {
			opts["title"] = flags.Title
		}
		if flags.Author != "" {
			opts["author"] = flags.Author
		}
		return opts, nil
	}
	if flags.Title != "" || flags.Author != "" {
		return nil, fmt.Errorf("%w: --title and --author only apply to PDF", ErrUsage)
	}
	if flags.QualitySet {
		opts["quality"] = flags.Quality
	}
	return opts, nil
}
