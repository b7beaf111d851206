// Package server exposes the codec and its transforms over HTTP, along with
// symbol and label rendering, print jobs and the bitmap library.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/bmp"
	"tomgalvin.uk/monobmp/escpos"
	"tomgalvin.uk/monobmp/internal/library"
	"tomgalvin.uk/monobmp/internal/model"
	"tomgalvin.uk/monobmp/label"
)

const (
	contentTypeBMP  = "image/bmp"
	contentTypeJSON = "application/json"

	contentTypeOctetStream = "application/octet-stream"

	defaultMaxBodyBytes = 16 << 20
	// maxSourcePixels bounds images accepted for conversion, checked from
	// the image header before decoding.
	maxSourcePixels = 40_000_000
)

type Server struct {
	logger       *slog.Logger
	library      *library.Repository
	maxBodyBytes int64
}

func NewServer(logger *slog.Logger, r *library.Repository) *Server {
	return &Server{
		logger:       logger,
		library:      r,
		maxBodyBytes: defaultMaxBodyBytes,
	}
}

// Handler routes every endpoint under /api/.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/encode", s.encode)
	mux.HandleFunc("POST /api/decode", s.decode)
	mux.HandleFunc("POST /api/transform", s.transform)
	mux.HandleFunc("POST /api/convert", s.convert)
	mux.HandleFunc("GET /api/symbol", s.renderSymbol)
	mux.HandleFunc("GET /api/label", s.renderLabel)
	mux.HandleFunc("POST /api/escpos", s.printJob)
	mux.HandleFunc("POST /api/bitmaps", s.createBitmap)
	mux.HandleFunc("GET /api/bitmaps", s.listBitmaps)
	mux.HandleFunc("GET /api/bitmaps/{id}", s.getBitmap)
	mux.HandleFunc("DELETE /api/bitmaps/{id}", s.deleteBitmap)
	return mux
}

// body returns the request body, capped at the server's limit.
func (s *Server) body(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
}

// readBMP decodes the request body as a monochrome BMP file.
func (s *Server) readBMP(w http.ResponseWriter, r *http.Request) (*bitmap.Grid, bmp.Header, error) {
	g, h, err := bmp.DecodeWithHeader(s.body(w, r))
	if err != nil {
		return nil, bmp.Header{}, fmt.Errorf("Couldn't decode bitmap:\n%w", err)
	}
	return g, h, nil
}

func (s *Server) writeBMP(w http.ResponseWriter, status int, g *bitmap.Grid, inverted bool) {
	var opts []bmp.Option
	if inverted {
		opts = append(opts, bmp.WithInvertedPalette())
	}
	b, err := bmp.Marshal(g, opts...)
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't encode bitmap:\n%w", err))
		return
	}
	w.Header().Set("Content-Type", contentTypeBMP)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		s.logger.Debug("Couldn't write response", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Couldn't write response", "err", err)
	}
}

var (
	// errBadRequest marks request problems that have no error kind of their
	// own, such as malformed JSON or query parameters.
	errBadRequest    = errors.New("bad request")
	errNotFound      = errors.New("not found")
	errImageTooLarge = errors.New("image too large")
)

// statusOf maps an error to the HTTP status reported for it.
func statusOf(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, bitmap.ErrSize), errors.Is(err, errImageTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, bmp.ErrHeader),
		errors.Is(err, bitmap.ErrData),
		errors.Is(err, bitmap.ErrFactor),
		errors.Is(err, bitmap.ErrNoBorder),
		errors.Is(err, bitmap.ErrOverflow),
		errors.Is(err, escpos.ErrTooWide),
		errors.Is(err, label.ErrEmpty),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	} else {
		s.logger.Debug("Rejected request", "status", status, "err", err)
	}
	s.writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

// intParam reads an integer query parameter, returning def when it is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %s: %w", errBadRequest, name, err)
	}
	return n, nil
}
