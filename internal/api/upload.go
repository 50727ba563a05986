package api

import (
	"net/http"

	"github.com/mfc9812ops/Amaze-Picking/internal/imaging"
)

// readPhoto extracts the "photo" part of a multipart upload and normalizes
// it to JPEG. It writes the error response itself and reports success.
func readPhoto(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUpload)
	if err := r.ParseMultipartForm(maxPhotoUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return nil, false
	}
	defer file.Close()

	jpeg, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return jpeg, true
}
