package api

import (
	"net/http"

	"github.com/mfc9812ops/Amaze-Picking/internal/barcode"
	"github.com/mfc9812ops/Amaze-Picking/internal/imaging"
)

// ScanHandler decodes barcode frames captured by the device camera.
type ScanHandler struct{}

type scanResponse struct {
	Payloads []string `json:"payloads"`
}

// Decode handles POST /api/scan (multipart field "image"). An undecodable
// frame is not an error; the client simply captures another one.
func (h *ScanHandler) Decode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUpload)
	if err := r.ParseMultipartForm(maxPhotoUpload); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	payloads := barcode.Decode(img)
	if payloads == nil {
		payloads = []string{}
	}
	jsonResponse(w, http.StatusOK, scanResponse{Payloads: payloads})
}
