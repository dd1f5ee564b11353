package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dxfsvg/pkg/errors"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
)

type dumpOpts struct {
	output   string
	format   string
	codepage string
}

// dumpCommand creates the dump command, which converts a drawing between
// the DXF, JSON and MessagePack document encodings.
func (c *CLI) dumpCommand() *cobra.Command {
	opts := dumpOpts{format: string(dxfio.FormatJSON)}

	cmd := &cobra.Command{
		Use:   "dump [file]",
		Short: "Convert a drawing to its JSON, MessagePack or DXF document form",
		Example: `  dxfsvg dump plan.dxf > plan.json
  dxfsvg dump plan.dxf -f msgpack -o plan.msgpack
  dxfsvg dump plan.json -f dxf -o roundtrip.dxf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDump(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "document format: json, msgpack, dxf")
	cmd.Flags().StringVar(&opts.codepage, "codepage", "", "codepage for legacy text (default from $DWGCODEPAGE)")

	return cmd
}

func (c *CLI) runDump(ctx context.Context, input string, opts dumpOpts) error {
	logger := loggerFromContext(ctx)

	format, err := dxfio.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	codepage := opts.codepage
	if codepage == "" {
		codepage = c.cfg.Render.Codepage
	}
	if err := errors.ValidateCodepage(codepage); err != nil {
		return err
	}
	if opts.output != "" {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	var readOpts []dxfio.ReadOption
	if codepage != "" {
		readOpts = append(readOpts, dxfio.WithCodepage(codepage))
	}
	doc, err := dxfio.ImportDocument(input, readOpts...)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := dxfio.WriteDocument(doc, format, &buf); err != nil {
		return err
	}
	prog.done("dump finished", "input", input, "format", format, "bytes", buf.Len())

	if opts.output == "" {
		_, err := c.Out.Write(buf.Bytes())
		return err
	}
	if err := writeFile(opts.output, buf.Bytes()); err != nil {
		return err
	}
	printSuccess("Dumped %s", input)
	printFile(opts.output)
	return nil
}
