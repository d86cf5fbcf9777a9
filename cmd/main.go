package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"imgconv/contracts"
	"imgconv/converter"
	"imgconv/files_manager"
)

type InputFlags = contracts.InputFlags

const description = `image conversion + making image-based PDF

examples:
  image to pdf:

    imgconv *.jpg out.pdf
    imgconv --adjust-widths --grayscale *.jpg out.pdf
    imgconv --adjust-widths scans/ out.pdf

  HEIF file to image:

    for img in ./*.heic; do
      imgconv "$img" "${img%.*}.jpg"
    done`

func newApp() *cli.App {
	return &cli.App{
		Name:        "imgconv",
		Usage:       "convert HEIF images and assemble images into a PDF",
		UsageText:   "imgconv [options] src... dst",
		Description: description,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "quality",
				Usage: "quality of the exported JPEG (1-100, default 75). does not apply to PDF",
			},
			&cli.BoolFlag{
				Name:  "grayscale",
				Usage: "convert images to 8-bit luminance, dropping any alpha channel",
			},
			&cli.BoolFlag{
				Name:  "adjust-widths",
				Usage: "rescale every PDF page to the narrowest width, keeping aspect ratios",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "PDF document title",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "PDF document author",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log every decoded image and applied filter",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR]: %v\n", err)
		if errors.Is(err, converter.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(ctx *cli.Context) (InputFlags, error) {
	if ctx.NArg() < 2 {
		return InputFlags{}, fmt.Errorf("%w: need at least one source and a destination, got %d arguments", converter.ErrUsage, ctx.NArg())
	}
	args := ctx.Args().Slice()
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && arg != "-" {
			return InputFlags{}, fmt.Errorf("%w: option %s found after the file names, put options before src... dst", converter.ErrUsage, arg)
		}
	}
	return InputFlags{
		Sources:      args[:len(args)-1],
		Destination:  args[len(args)-1],
		Title:        ctx.String("title"),
		Author:       ctx.String("author"),
		Quality:      ctx.Int("quality"),
		QualitySet:   ctx.IsSet("quality"),
		Grayscale:    ctx.Bool("grayscale"),
		AdjustWidths: ctx.Bool("adjust-widths"),
		Verbose:      ctx.Bool("verbose"),
	}, nil
}

func setupLogging(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx *cli.Context) error {
	args, err := parseFlags(ctx)
	if err != nil {
		cli.ShowAppHelp(ctx)
		return err
	}

	logger := setupLogging(args.Verbose)
	converter.SetLogger(logger)
	logger.Debug("decoders", "heif", converter.CanDecodeHEIF)

	sources, err := files_manager.ExpandSources(args.Sources)
	if err != nil {
		return fmt.Errorf("%w: %w", converter.ErrDecode, err)
	}

	opts, err := converter.BuildOptions(args)
	if err != nil {
		return err
	}

	startTime := time.Now()
	request := contracts.ConversionRequest{
		Sources:     sources,
		Destination: args.Destination,
		Filters:     converter.BuildFilters(args),
		Options:     opts,
	}
	if err := converter.Convert(request); err != nil {
		return err
	}

	logger.Debug("conversion finished", "sources", len(sources), "elapsed", time.Since(startTime))
	fmt.Printf("Converted to %s\n", args.Destination)
	return nil
}
