package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dxfsvg/pkg/errors"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command. Zero
// values fall back to the [render] config section.
type renderOpts struct {
	output   string  // output file (single format) or base path (several)
	formats  string  // comma-separated: svg, pdf, png, json
	font     string  // replaces every drawing font
	maxDepth int     // INSERT nesting limit
	codepage string  // overrides $DWGCODEPAGE
	scale    float64 // PNG scale factor
	noCache  bool
	refresh  bool
}

func (ro renderOpts) apply(opts *pipeline.Options) {
	if ro.formats != "" {
		opts.Formats = parseFormats(ro.formats)
	}
	if ro.font != "" {
		opts.FontFamily = ro.font
	}
	if ro.maxDepth > 0 {
		opts.MaxBlockDepth = ro.maxDepth
	}
	if ro.codepage != "" {
		opts.Codepage = ro.codepage
	}
	if ro.scale > 0 {
		opts.PNGScale = ro.scale
	}
	opts.Refresh = ro.refresh
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a DXF drawing to SVG, PDF, PNG or JSON",
		Long: `Render a drawing to one or more output formats.

The input may be an ASCII DXF file or a document previously dumped as JSON
or MessagePack. PDF and PNG outputs require rsvg-convert on PATH.`,
		Example: `  dxfsvg render plan.dxf
  dxfsvg render plan.dxf -f svg,png --scale 4 -o out/plan
  dxfsvg render legacy.dxf --codepage ANSI_1251 --font "DejaVu Sans"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), pdf, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.font, "font", "", "font family used for all text")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum block nesting depth (default 64)")
	cmd.Flags().StringVar(&opts.codepage, "codepage", "", "codepage for legacy text, e.g. ANSI_1251 (default from $DWGCODEPAGE)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and render again")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	opts := c.baseOptions()
	ro.apply(&opts)
	opts.InputFormat = string(dxfio.DetectFormat(input))
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	paths, err := outputPaths(ro.output, input, opts.Formats)
	if err != nil {
		return err
	}

	data, err := readInputFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	slow := slices.ContainsFunc(opts.Formats, func(f string) bool {
		return f == pipeline.FormatPDF || f == pipeline.FormatPNG
	})

	var result *pipeline.Result
	err = withSpinner(ctx, os.Stderr, slow, "Rendering "+filepath.Base(input), func() error {
		var err error
		result, err = runner.Execute(ctx, data, opts)
		return err
	})
	if err != nil {
		return err
	}
	prog.done("render finished", "input", input, "formats", strings.Join(opts.Formats, ","))

	printSuccess("Rendered %s", input)
	printStats(result.Stats.EntityCount, result.Stats.BlockCount, result.CacheInfo.RenderHit)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to the file it is written to. A single
// format honors output verbatim; several formats treat output as a base
// path. Derived paths never overwrite the input.
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
	} else {
		base := basePath(output, input)
		for _, f := range formats {
			paths[f] = base + "." + f
		}
	}
	for _, p := range paths {
		if err := errors.ValidateOutputPath(p); err != nil {
			return nil, err
		}
		if filepath.Clean(p) == filepath.Clean(input) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input; pass -o", p)
		}
	}
	return paths, nil
}

// basePath strips the extension from input when output is empty, and a
// known output extension from output otherwise.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	switch ext := filepath.Ext(output); strings.ToLower(ext) {
	case ".svg", ".pdf", ".png", ".json":
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func readInputFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}
	return data, err
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
