package server

import (
	"context"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/buildinfo"
	"github.com/matzehuels/dxfsvg/pkg/errors"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/observability"
	"github.com/matzehuels/dxfsvg/pkg/pipeline"
	"github.com/matzehuels/dxfsvg/pkg/render"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

type health struct {
	Status    string         `json:"status"`
	Build     buildinfo.Info `json:"build"`
	Converter bool           `json:"converter"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, health{
		Status:    "ok",
		Build:     buildinfo.Get(),
		Converter: render.Available(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, format, err := s.renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	input, err := s.readInput(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.InputFormat == "" {
		opts.InputFormat = inputFormatFromContentType(r.Header.Get("Content-Type"))
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, input, opts)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "render exceeded %s", s.cfg.RenderTimeout)
		}
		s.fail(w, r, err)
		return
	}

	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Cache", cacheState)
	h.Set("X-Entities", strconv.Itoa(res.Stats.EntityCount))
	h.Set("ETag", `"`+res.InputHash[:16]+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	s.logger.Debug("render failed", "id", RequestIDFromContext(r.Context()), "err", err)
	writeError(w, r, err)
}

// renderOptions reads query parameters over the server defaults. One
// request produces exactly one format.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, string, error) {
	q := r.URL.Query()
	d := s.cfg.Render
	opts := pipeline.Options{
		InputFormat:   d.InputFormat,
		Codepage:      d.Codepage,
		FontFamily:    d.FontFamily,
		MaxBlockDepth: d.MaxBlockDepth,
		PNGScale:      d.PNGScale,
	}

	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormat(format); err != nil {
		return opts, "", err
	}
	opts.Formats = []string{format}

	if v := q.Get("input"); v != "" {
		f, err := dxfio.ParseFormat(v)
		if err != nil {
			return opts, "", err
		}
		opts.InputFormat = string(f)
	}
	if v := q.Get("codepage"); v != "" {
		opts.Codepage = v
	}
	if v := q.Get("font"); v != "" {
		opts.FontFamily = v
	}
	if v := q.Get("max_depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "max_depth must be a positive integer")
		}
		opts.MaxBlockDepth = n
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number")
		}
		opts.PNGScale = f
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean")
		}
		opts.Refresh = b
	}
	opts.MaxInputBytes = s.cfg.MaxUploadBytes
	return opts, format, nil
}

// readInput returns the drawing bytes, from the "file" form field for
// multipart uploads and from the body otherwise.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form")
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil, errors.New(errors.ErrCodeInvalidInput, `multipart form has no "file" field`)
			}
			if err != nil {
				return nil, classifyRead(err)
			}
			if part.FormName() == "file" {
				src = part
				break
			}
		}
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, classifyRead(err)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, nil
}

func classifyRead(err error) error {
	var tooBig *http.MaxBytesError
	if stderrors.As(err, &tooBig) {
		return &errors.LimitError{Limit: tooBig.Limit, What: "upload"}
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
}

// inputFormatFromContentType maps a request media type to a document
// format; unknown types are left for content sniffing.
func inputFormatFromContentType(ct string) string {
	mt, _, _ := mime.ParseMediaType(ct)
	switch mt {
	case "application/json":
		return string(dxfio.FormatJSON)
	case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return string(dxfio.FormatMsgpack)
	case "application/dxf", "image/vnd.dxf", "image/x-dxf":
		return string(dxfio.FormatDXF)
	}
	return ""
}
