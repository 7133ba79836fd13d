package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/pdfedit/internal/docmodel"
)

func (s *Server) handleEditPDF(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		jsonError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, "only PDF files are allowed", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		jsonError(w, "failed to prepare upload dir", http.StatusInternalServerError)
		return
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		jsonError(w, "failed to prepare output dir", http.StatusInternalServerError)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	inputPath := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("input_%s_%s", timestamp, filename))
	outputPath := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("edited_%s_%s", timestamp, filename))

	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(inputPath)

	doc, err := docmodel.OpenPdfium(s.instance, inputPath)
	if err != nil {
		s.log.Warn("rejecting upload, not a readable PDF", "filename", filename, "error", err)
		jsonError(w, "invalid or corrupted PDF file", http.StatusBadRequest)
		return
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		jsonError(w, "invalid or corrupted PDF file", http.StatusBadRequest)
		return
	}

	if err := s.editor.Process(r.Context(), doc, prompt, outputPath); err != nil {
		s.log.Error("pdf processing failed", "filename", filename, "error", err)
		jsonError(w, "PDF processing failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=edited_%s", filename))
	http.ServeFile(w, r, outputPath)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

type exampleCategory struct {
	Category string   `json:"category"`
	Examples []string `json:"examples"`
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	examples := []exampleCategory{
		{
			Category: "Text Replacement",
			Examples: []string{
				"In the second paragraph, change 'The system is efficient' to 'The system demonstrates high levels of operational efficiency.'",
				"Replace 'artificial intelligence' with 'machine learning' in the abstract.",
				"Change 'data processing' to 'information analysis' throughout the document.",
			},
		},
		{
			Category: "Heading Modification",
			Examples: []string{
				"Change the heading 'Chapter 2: Background' to 'Chapter 2: Foundational Concepts.'",
				"Modify the title 'Introduction' to 'Overview and Objectives'",
				"Update section heading 'Methods' to 'Methodology and Approach'",
			},
		},
		{
			Category: "Text Highlighting",
			Examples: []string{
				"Highlight the sentence discussing financial projections.",
				"Mark all mentions of 'machine learning' in yellow.",
				"Emphasize the conclusion paragraph.",
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(examples)
}

// handleCleanup removes uploaded and output files older than the configured
// maximum age.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().Add(-s.cfg.FileMaxAge)
	cleaned := 0

	for _, dir := range []string{s.cfg.UploadDir, s.cfg.OutputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
					cleaned++
				}
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("Cleaned up %d old files", cleaned),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
