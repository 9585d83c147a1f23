package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
)

// writeJSON writes body as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("レスポンスのJSONエンコードに失敗しました")
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// requireUserID reads the authenticated user id placed by the auth middleware.
// It writes a 401 and returns false when absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		// ミドルウェアが正しく動作していれば、ここには到達しない
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}
