package handlers

import (
	"net/http"

	"github.com/futuresoft-ai/riya/pkg/audiostore"
)

// AudioHandler serves generated prompt audio to the telephony provider.
// Routed as GET /audio/{id}.
type AudioHandler struct {
	Store *audiostore.Store
}

func (h AudioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := h.Store.Path(id)
	if err != nil {
		http.Error(w, "audio not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	http.ServeFile(w, r, path)
}
