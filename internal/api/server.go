// Package api exposes the format dispatcher over HTTP.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/matrixio/internal/convert"
	"github.com/samcharles93/matrixio/internal/logger"
)

// DefaultMaxBodyBytes caps uploads when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 256 << 20

type Config struct {
	Options      convert.Options
	MaxBodyBytes int64
	Logger       logger.Logger
	Store        *InspectStore
}

type Server struct {
	opts    convert.Options
	maxBody int64
	log     logger.Logger
	store   *InspectStore
	clock   func() time.Time
}

func NewServer(cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.Store == nil {
		cfg.Store = NewInspectStore(0)
	}
	return &Server{
		opts:    cfg.Options,
		maxBody: cfg.MaxBodyBytes,
		log:     cfg.Logger,
		store:   cfg.Store,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/formats", s.handleFormats)
	e.POST("/v1/inspect", s.handleInspect)
	e.GET("/v1/inspect/:id", s.handleGetInspect)
	e.DELETE("/v1/inspect/:id", s.handleDeleteInspect)
	e.POST("/v1/convert", s.handleConvert)
}

var extensions = map[convert.Format][]string{
	convert.MFE:  {".mfe"},
	convert.EDF:  {".edf"},
	convert.TXT:  {".txt"},
	convert.RAW:  {".raw"},
	convert.YAML: {".yaml", ".yml"},
	convert.JSON: {".json"},
}

func (s *Server) handleFormats(c *echo.Context) error {
	resp := FormatsResponse{Object: "list"}
	for _, f := range convert.Formats() {
		resp.Data = append(resp.Data, FormatInfo{
			Name:       f.String(),
			Extensions: extensions[f],
			Load:       f.CanLoad(),
			Save:       f.CanSave(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleInspect(c *echo.Context) error {
	data, err := s.readBody(c)
	if err != nil {
		return writeCodecError(c, err, "")
	}
	format, err := resolveFormat(c.QueryParam("format"), data)
	if err != nil {
		return writeCodecError(c, err, "format")
	}
	doc, err := convert.Decode(s.context(c), bytes.NewReader(data), format, s.opts)
	if err != nil {
		return writeCodecError(c, err, "")
	}

	resp := InspectResponse{
		ID:         "insp_" + uuid.NewString(),
		Object:     "matrix.inspection",
		CreatedAt:  s.clock().Unix(),
		Format:     format.String(),
		Rows:       doc.Matrix.Rows,
		Cols:       doc.Matrix.Cols,
		Channels:   doc.Matrix.Channels,
		Type:       doc.Matrix.Type.String(),
		Bytes:      doc.Matrix.Len(),
		Properties: toProperties(doc.Properties),
	}
	s.store.Put(resp)
	s.log.Debug("inspected upload", "id", resp.ID, "format", format, "matrix", doc.Matrix)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetInspect(c *echo.Context) error {
	id := c.Param("id")
	resp, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("inspection %q not found", id))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteInspect(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, fmt.Sprintf("inspection %q not found", id))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      id,
		"object":  "matrix.inspection.deleted",
		"deleted": true,
	})
}

func (s *Server) handleConvert(c *echo.Context) error {
	toName := c.QueryParam("to")
	if toName == "" {
		return writeBadRequest(c, "missing target format", "to")
	}
	to, err := convert.ParseFormat(toName)
	if err != nil {
		return writeCodecError(c, err, "to")
	}
	if !to.CanSave() {
		return writeCodecError(c, fmt.Errorf("%w: saving %s files", convert.ErrUnsupported, to), "to")
	}

	data, err := s.readBody(c)
	if err != nil {
		return writeCodecError(c, err, "")
	}
	from, err := resolveFormat(c.QueryParam("from"), data)
	if err != nil {
		return writeCodecError(c, err, "from")
	}
	doc, err := convert.Decode(s.context(c), bytes.NewReader(data), from, s.opts)
	if err != nil {
		return writeCodecError(c, err, "")
	}

	opts := s.opts
	if comment := c.QueryParam("comment"); comment != "" {
		opts.Comment = comment
	}
	out, err := convert.Bytes(to, doc, opts)
	if err != nil {
		return writeCodecError(c, err, "")
	}

	id := "conv_" + uuid.NewString()
	s.log.Debug("converted upload", "id", id, "from", from, "to", to, "bytes", len(out))
	c.Response().Header().Set("X-Matrix-Id", id)
	c.Response().Header().Set("X-Matrix-Format", to.String())
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
}

// readBody reads the whole request body, refusing empty or oversized ones.
func (s *Server) readBody(c *echo.Context) ([]byte, error) {
	body := c.Request().Body
	if body == nil {
		return nil, newInvalidRequest("empty request body")
	}
	data, err := io.ReadAll(io.LimitReader(body, s.maxBody+1))
	if err != nil {
		return nil, newInvalidRequest(fmt.Sprintf("read body: %v", err))
	}
	if int64(len(data)) > s.maxBody {
		return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, s.maxBody)
	}
	if len(data) == 0 {
		return nil, newInvalidRequest("empty request body")
	}
	return data, nil
}

func (s *Server) context(c *echo.Context) context.Context {
	return logger.WithContext(c.Request().Context(), s.log)
}

func resolveFormat(name string, data []byte) (convert.Format, error) {
	if name == "" {
		return convert.DetectBytes(data)
	}
	return convert.ParseFormat(name)
}
