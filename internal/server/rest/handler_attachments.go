package rest

import "net/http"

func (s *RESTServer) handleAttachmentUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.attachments.UploadURL(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"key": key,
		"url": url,
	})
}

func (s *RESTServer) handleAttachmentDownloadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "missing key parameter"})
		return
	}

	url, err := s.attachments.DownloadURL(r.Context(), bearerToken(r), key)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
