package web

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// handleAdminMessages renders the contact inbox (GET /admin/messages).
// Submissions are relayed by email as they arrive; this page is the
// durable copy for when the relay was down or the inbox was cleaned out.
func handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	// Parse limit, default to 100
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	messages, err := stores.ContactStore.List(ctx, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "admin_messages.html", map[string]any{
			"Messages": messages,
			"Limit":    limit,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
