package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jvillalba/docunir/internal/unify"
)

// fileUpload is one input document in a JSON request body. Content is the
// base64 encoding of the file bytes.
type fileUpload struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type mergeRequest struct {
	Files            []fileUpload `json:"files"`
	Levels           []int        `json:"levels"`
	Titles           []string     `json:"titles"`
	EnforceWhitelist bool         `json:"enforce_whitelist"`
}

type groupRequest struct {
	Files            []fileUpload `json:"files"`
	Level            int          `json:"level"`
	Titles           []string     `json:"titles"`
	EnforceWhitelist bool         `json:"enforce_whitelist"`
}

type headingsRequest struct {
	Files []fileUpload `json:"files"`
}

func decodeInputs(files []fileUpload) ([]unify.Input, error) {
	inputs := make([]unify.Input, 0, len(files))
	for _, f := range files {
		name := sanitizeFilename(f.Name)
		data, err := base64.StdEncoding.DecodeString(f.Content)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		inputs = append(inputs, unify.Input{Name: name, Data: data})
	}
	return inputs, nil
}

// limitBody caps a JSON request body. Base64 bodies run about a third
// larger than the raw files they carry.
func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*4/3+1024*1024)
}

func writeResult(w http.ResponseWriter, res *unify.Result) {
	files := make(map[string]string, len(res.Files))
	for name, data := range res.Files {
		files[name] = base64.StdEncoding.EncodeToString(data)
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []unify.Skip{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files":   files,
		"skipped": skipped,
	})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	inputs, err := decodeInputs(req.Files)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := unify.Merge(inputs, unify.Options{
		Levels:           req.Levels,
		ExactTitles:      req.Titles,
		EnforceWhitelist: req.EnforceWhitelist,
		Catalog:          s.catalog,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if req.Level < 1 || req.Level > 3 {
		jsonError(w, fmt.Sprintf("level must be between 1 and 3, got %d", req.Level), http.StatusBadRequest)
		return
	}
	inputs, err := decodeInputs(req.Files)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := unify.Group(inputs, unify.Options{
		ExactTitles:      req.Titles,
		EnforceWhitelist: req.EnforceWhitelist,
		Catalog:          s.catalog,
		GroupLevel:       req.Level,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeResult(w, res)
}

func (s *Server) handleHeadings(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)

	var req headingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	inputs, err := decodeInputs(req.Files)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	outlines, skipped := unify.Headings(inputs)
	if skipped == nil {
		skipped = []unify.Skip{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files":   outlines,
		"skipped": skipped,
	})
}
