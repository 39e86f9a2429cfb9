package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yuhara/epubprobe/internal/epub"
	"github.com/yuhara/epubprobe/internal/extract"
)

// uploadField is the multipart form field carrying the EPUB file.
const uploadField = "book"

// parseFailures are the error kinds a malformed upload can produce. They
// map to 422; anything else is a server-side failure.
var parseFailures = []error{
	epub.ErrInvalidArchive,
	epub.ErrMissingContainerDescriptor,
	epub.ErrNoRootFileDeclared,
	epub.ErrRootFileNotFound,
	epub.ErrMalformedPackageXML,
	epub.ErrDuplicateManifestID,
	epub.ErrUnresolvedSpineReference,
	extract.ErrEmptyBook,
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Parse.MaxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing multipart file field %q", uploadField))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".epub") {
		writeError(w, http.StatusBadRequest, "uploaded file must have an .epub extension")
		return
	}

	tmpPath, err := s.spoolUpload(file)
	if err != nil {
		s.logger.Error("spool upload", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(tmpPath)

	result, err := extract.ParseFile(tmpPath, extract.Options{
		PreviewLength: s.cfg.Parse.PreviewLength,
	})
	if err != nil {
		status := http.StatusInternalServerError
		for _, kind := range parseFailures {
			if errors.Is(err, kind) {
				status = http.StatusUnprocessableEntity
				break
			}
		}
		if status == http.StatusInternalServerError {
			s.logger.Error("parse upload", "file", header.Filename, "err", err)
		}
		writeError(w, status, err.Error())
		return
	}

	s.logger.Info("parsed upload",
		"file", header.Filename,
		"chapters", result.ChapterCount,
		"warnings", len(result.Warnings))
	writeJSON(w, http.StatusOK, result)
}

// spoolUpload copies the upload to a uniquely named temp file. The caller
// removes it when the request finishes.
func (s *Server) spoolUpload(src io.Reader) (string, error) {
	path := filepath.Join(os.TempDir(), "epubprobe-"+uuid.NewString()+".epub")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}
