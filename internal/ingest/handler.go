package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// maxUploadBytes caps a single CSV upload.
const maxUploadBytes = 32 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ingest/sales", h.IngestSales).Methods("POST")
	router.HandleFunc("/api/ingest/inventory", h.IngestInventory).Methods("POST")
}

func (h *Handler) IngestSales(w http.ResponseWriter, r *http.Request) {
	body, name, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer body.Close()

	count, err := h.service.IngestSales(r.Context(), body, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeResult(w, "sales", count)
}

func (h *Handler) IngestInventory(w http.ResponseWriter, r *http.Request) {
	body, name, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer body.Close()

	count, err := h.service.IngestInventory(r.Context(), body, name)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeResult(w, "inventory", count)
}

// uploadBody accepts either a multipart form with a "file" field or a raw CSV
// request body.
func uploadBody(r *http.Request) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, "", fmt.Errorf("invalid multipart form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("multipart form must contain a \"file\" field")
		}
		return file, header.Filename, nil
	}

	return r.Body, "upload.csv", nil
}

func writeResult(w http.ResponseWriter, kind string, count int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "success",
		"kind":   kind,
		"rows":   count,
	})
}
