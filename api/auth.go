/*
auth.go - Admin membership check

PURPOSE:
  Sign-in itself is delegated to the fronting auth layer, which forwards
  the authenticated user id in the X-Admin-Id header. This middleware
  performs the one check the server owns: is that user in the admins
  table. Everyone else gets 403 regardless of how they authenticated.

FAILURE MODES:
  401  header missing (no authenticated user forwarded)
  403  user authenticated but not an admin
  500  admins table unreachable
*/
package api

import (
	"context"
	"net/http"
)

type contextKey string

const adminIDKey contextKey = "admin_id"

// AdminIDHeader carries the authenticated user id from the auth layer.
const AdminIDHeader = "X-Admin-Id"

// RequireAdmin rejects requests whose user is not in the admins table.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(AdminIDHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "Missing "+AdminIDHeader+" header", nil)
			return
		}

		ok, err := h.Store.IsAdmin(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to verify admin access", err)
			return
		}
		if !ok {
			writeError(w, http.StatusForbidden, "Access denied. This dashboard is restricted to administrators.", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminIDKey, userID)))
	})
}

// AdminID returns the verified admin id stored by RequireAdmin.
func AdminID(ctx context.Context) string {
	id, _ := ctx.Value(adminIDKey).(string)
	return id
}
