package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/backendapi"
	"github.com/veriport/webfront/pkg/httpx"
)

// maxUploadBytes caps document uploads. Identity documents are photos or
// scans; anything larger is a mistake.
const maxUploadBytes = 20 << 20 // 20 MiB

// UploadsHandler relays background-check document uploads. The multipart
// body passes through untouched on the long-deadline upload client.
type UploadsHandler struct {
	Cookies session.Store
	API     *backendapi.Client
}

// HandleUploadDocument serves POST /api/background-check/{id}/documents.
func (h *UploadsHandler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Expected a multipart upload",
			"error":   "bad_request",
		})
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		httpx.WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"message": "Upload too large",
			"error":   "payload_too_large",
		})
		return
	}

	sess := boundSession(w, r, h.Cookies, h.API)

	data, err := sess.Upload(r.Context(),
		"/background-check/"+r.PathValue("id")+"/documents", contentType, payload)
	if err != nil {
		if isSessionExpired(err) {
			writeSessionExpired(w, h.Cookies)
			return
		}
		writeRelayError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}
