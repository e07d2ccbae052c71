package controllers

import (
	"net/http"

	"github.com/salonworks/pos-terminal/api/middleware"
	"github.com/salonworks/pos-terminal/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if cashier := middleware.CashierFromContext(r.Context()); cashier != "" {
			payload["cashier"] = cashier
		}
		if branch := middleware.BranchIDFromContext(r.Context()); branch != "" {
			payload["branch_id"] = branch
		}
		responses.WriteSuccess(w, payload)
	}
}
