package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyalite/mediacopy/internal/model"
	"github.com/hyalite/mediacopy/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodySize      = 1 << 20 // 1 MB
)

// surfaceSpec is the JSON description of one surface to materialize.
type surfaceSpec struct {
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Pitch       int    `json:"pitch"`
	Tile        string `json:"tile"`
	Compression string `json:"compression"`
	Protected   bool   `json:"protected"`
	Aux         bool   `json:"aux"`
	Fill        byte   `json:"fill"`
}

// surface validates the request fields and converts them to a metadata
// snapshot.
func (sp surfaceSpec) surface() (model.Surface, error) {
	format, err := model.ParseFormat(sp.Format)
	if err != nil {
		return model.Surface{}, err
	}
	tile, err := model.ParseTileMode(sp.Tile)
	if err != nil {
		return model.Surface{}, err
	}
	comp, err := model.ParseCompression(sp.Compression)
	if err != nil {
		return model.Surface{}, err
	}

	protection := model.ProtectionClear
	if sp.Protected {
		protection = model.ProtectionProtected
	}

	return model.Surface{
		Format:      format,
		Width:       sp.Width,
		Height:      sp.Height,
		Pitch:       sp.Pitch,
		Tile:        tile,
		Compression: comp,
		Protection:  protection,
		Aux:         sp.Aux,
	}, nil
}

// createCopyRequest is the JSON body for POST /v1/copies.
type createCopyRequest struct {
	Src    surfaceSpec `json:"src"`
	Dst    surfaceSpec `json:"dst"`
	Policy string      `json:"policy"`
}

// listCopiesResponse wraps the paginated list response.
type listCopiesResponse struct {
	Copies []*model.CopyRecord `json:"copies"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

func (s *Server) handleCreateCopy(w http.ResponseWriter, r *http.Request) {
	var req createCopyRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	policy, err := model.ParsePolicy(req.Policy)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	srcInfo, err := req.Src.surface()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "src: "+err.Error())
		return
	}
	dstInfo, err := req.Dst.surface()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dst: "+err.Error())
		return
	}

	src, err := s.hal.CreateSurface(srcInfo)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "src: "+err.Error())
		return
	}
	defer s.hal.Release(src)

	dst, err := s.hal.CreateSurface(dstInfo)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dst: "+err.Error())
		return
	}
	defer s.hal.Release(dst)

	if req.Src.Fill != 0 {
		buf := src.Bytes()
		for i := range buf {
			buf[i] = req.Src.Fill
		}
	}

	rec, err := s.engine.Copy(r.Context(), src, dst, policy)
	if rec == nil {
		s.logger.Error("copy", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to run copy")
		return
	}

	switch rec.Status {
	case model.StatusCompleted:
		s.writeJSON(w, http.StatusCreated, rec)
	case model.StatusRejected:
		s.writeJSON(w, http.StatusUnprocessableEntity, rec)
	default:
		s.writeJSON(w, http.StatusBadGateway, rec)
	}
}

func (s *Server) handleGetCopy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.GetCopyRecord(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "copy not found")
		return
	}
	if err != nil {
		s.logger.Error("get copy record", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get copy")
		return
	}

	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListCopies(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	copies, total, err := s.store.ListCopyRecords(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list copy records", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list copies")
		return
	}

	if copies == nil {
		copies = []*model.CopyRecord{}
	}

	s.writeJSON(w, http.StatusOK, listCopiesResponse{
		Copies: copies,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
