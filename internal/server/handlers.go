package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"

	"tomgalvin.uk/monobmp/bitmap"
	"tomgalvin.uk/monobmp/escpos"
	"tomgalvin.uk/monobmp/internal/library"
	"tomgalvin.uk/monobmp/internal/model"
	"tomgalvin.uk/monobmp/label"
	"tomgalvin.uk/monobmp/raster"
	"tomgalvin.uk/monobmp/symbol"
)

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	var req model.GridRequest
	if err := json.NewDecoder(s.body(w, r)).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err))
		return
	}
	g, err := model.GridFromRequest(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeBMP(w, http.StatusOK, g, req.Inverted)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	g, h, err := s.readBMP(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, model.FromGrid(g, h.Inverted))
}

// transform applies one transform, chosen with the op query parameter, to
// the posted bitmap. The palette order is kept.
func (s *Server) transform(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 2)
	if err != nil {
		s.writeError(w, err)
		return
	}
	op := r.URL.Query().Get("op")

	g, h, err := s.readBMP(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch op {
	case "mul":
		g, err = g.Mul(n)
	case "div":
		g, err = g.Div(n)
	case "border":
		g, err = g.AddBorder(n)
	case "unborder":
		g, err = g.RemoveOneBorder()
	case "trim":
		g = g.RemoveBorder()
	case "normalize":
		g = g.Normalize()
	case "invert":
		g = g.Invert()
	default:
		err = fmt.Errorf("%w: unknown op %q", errBadRequest, op)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("Transformed bitmap", "op", op, "n", n, "size", g.String())
	s.writeBMP(w, http.StatusOK, g, h.Inverted)
}

// convert turns an uploaded PNG, JPEG, GIF or colour BMP into a monochrome
// BMP, dithering unless a threshold is given.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	maxWidth, err := intParam(r, "maxWidth", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	level, err := intParam(r, "threshold", -1)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if level > 255 {
		s.writeError(w, fmt.Errorf("%w: threshold %d is above 255", errBadRequest, level))
		return
	}

	body, err := io.ReadAll(s.body(w, r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: couldn't read image: %w", errBadRequest, err))
		return
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxSourcePixels {
		s.writeError(w, fmt.Errorf("%w: %dx%d %s image", errImageTooLarge, cfg.Width, cfg.Height, format))
		return
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: couldn't decode %s image: %w", errBadRequest, format, err))
		return
	}

	opts := []raster.Option{raster.WithMaxWidth(maxWidth)}
	if level >= 0 {
		opts = append(opts, raster.WithThreshold(uint8(level)))
	}
	g, err := raster.FromImage(img, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("Converted image", "format", format, "from", image.Pt(cfg.Width, cfg.Height), "to", g.String())
	s.writeBMP(w, http.StatusOK, g, false)
}

// renderSymbol renders a QR code or Data Matrix for the text query parameter.
func (s *Server) renderSymbol(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	if text == "" {
		s.writeError(w, fmt.Errorf("%w: text is required", errBadRequest))
		return
	}
	module, err := intParam(r, "module", 4)
	if err != nil {
		s.writeError(w, err)
		return
	}
	border, err := intParam(r, "border", symbol.QuietZone)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var code *bitmap.Grid
	switch q.Get("kind") {
	case "", "qr":
		level, err := symbol.ParseLevel(q.Get("level"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		code, err = symbol.QR(text, level)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
	case "datamatrix":
		code, err = symbol.DataMatrix(text)
		if err != nil {
			s.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
			return
		}
	default:
		s.writeError(w, fmt.Errorf("%w: unknown kind %q", errBadRequest, q.Get("kind")))
		return
	}

	g, err := symbol.Render(code, module, border)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeBMP(w, http.StatusOK, g, false)
}

// renderLabel renders the text query parameter in Go Regular.
func (s *Server) renderLabel(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	size, err := intParam(r, "size", label.DefaultSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	maxWidth, err := intParam(r, "maxWidth", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	padding, err := intParam(r, "padding", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	g, err := label.Render(text, label.WithSize(float64(size)), label.WithMaxWidth(maxWidth), label.WithPadding(padding))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeBMP(w, http.StatusOK, g, false)
}

var (
	justifications = map[string]escpos.Justify{"left": escpos.Left, "centre": escpos.Centre, "right": escpos.Right}
	densities      = map[string]escpos.Density{"low": escpos.Low, "medium": escpos.Medium, "high": escpos.High}
)

// printJob converts the posted bitmap into an ESC/POS raster print job.
// Dark pixels are printed whichever palette order the file uses.
func (s *Server) printJob(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts []escpos.Option
	if v := q.Get("justify"); v != "" {
		j, ok := justifications[v]
		if !ok {
			s.writeError(w, fmt.Errorf("%w: unknown justify %q", errBadRequest, v))
			return
		}
		opts = append(opts, escpos.WithJustify(j))
	}
	if v := q.Get("density"); v != "" {
		d, ok := densities[v]
		if !ok {
			s.writeError(w, fmt.Errorf("%w: unknown density %q", errBadRequest, v))
			return
		}
		opts = append(opts, escpos.WithDensity(d))
	}
	feed, err := intParam(r, "feed", 4)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if feed < 0 || feed > 255 {
		s.writeError(w, fmt.Errorf("%w: feed %d is outside 0..255", errBadRequest, feed))
		return
	}
	opts = append(opts, escpos.WithFeed(byte(feed)))

	g, h, err := s.readBMP(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if h.Inverted {
		g = g.Invert()
	}

	var buf bytes.Buffer
	if err := escpos.Encode(&buf, g, opts...); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeOctetStream)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("Couldn't write response", "err", err)
	}
}

func (s *Server) createBitmap(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeError(w, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}
	g, h, err := s.readBMP(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	e := library.Entry{Name: name, Grid: g, Inverted: h.Inverted}
	err = s.library.Transact(func(tx *sql.Tx) error {
		return s.library.Create(tx, &e)
	})
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't store bitmap:\n%w", err))
		return
	}
	s.logger.Info("Stored bitmap", "uuid", e.Uuid, "name", e.Name, "size", g.String())
	s.writeJSON(w, http.StatusCreated, model.FromEntry(&e))
}

func (s *Server) listBitmaps(w http.ResponseWriter, r *http.Request) {
	entries, err := s.library.List()
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't list bitmaps:\n%w", err))
		return
	}
	resp := make([]model.EntryResponse, len(entries))
	for i := range entries {
		resp[i] = model.FromEntry(&entries[i])
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getBitmap(w http.ResponseWriter, r *http.Request) {
	u, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: bad id: %w", errBadRequest, err))
		return
	}
	e, err := s.library.Get(u)
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't fetch bitmap:\n%w", err))
		return
	}
	if e == nil {
		s.writeError(w, fmt.Errorf("%w: no bitmap with id %s", errNotFound, u))
		return
	}
	s.writeBMP(w, http.StatusOK, e.Grid, e.Inverted)
}

func (s *Server) deleteBitmap(w http.ResponseWriter, r *http.Request) {
	u, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: bad id: %w", errBadRequest, err))
		return
	}
	var existed bool
	err = s.library.Transact(func(tx *sql.Tx) (err error) {
		existed, err = s.library.Delete(tx, u)
		return err
	})
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't delete bitmap:\n%w", err))
		return
	}
	if !existed {
		s.writeError(w, fmt.Errorf("%w: no bitmap with id %s", errNotFound, u))
		return
	}
	s.logger.Info("Deleted bitmap", "uuid", u)
	w.WriteHeader(http.StatusNoContent)
}
