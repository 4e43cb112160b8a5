package collect

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	api "StokCollect/api"
	"StokCollect/api/constants"
)

// Handler: StartSessionHandler opens a new collection session
func StartSessionHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}
		sess, err := StartSession(r.Context(), pgxPool, req.UserID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", sess)
	}
}

// Handler: AddClaimHandler claims a quantity against one item
func AddClaimHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID string  `json:"session_id"`
			SKU       string  `json:"sku"`
			Quantity  float64 `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
			req.SessionID == "" || req.SKU == "" || req.Quantity <= 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		result, err := AddClaim(r.Context(), pgxPool, req.SessionID, req.SKU, req.Quantity)
		if errors.Is(err, ErrSessionNotFound) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrSessionNotFound)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(result)
	}
}

// Handler: ClearSessionHandler empties the active session
func ClearSessionHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUserID)
			return
		}
		err := ClearSession(r.Context(), pgxPool, req.UserID)
		if errors.Is(err, ErrNoActiveSession) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrSessionNotFound)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: GetSessionHandler returns the user's open session with claims
func GetSessionHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := mux.Vars(r)["user_id"]
		sess, err := GetOpenSession(r.Context(), pgxPool, userID)
		if errors.Is(err, ErrNoActiveSession) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrSessionNotFound)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		claims, err := GetClaims(r.Context(), pgxPool, sess.SessionID)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"session": sess,
			"claims":  claims,
		})
	}
}

// Handler: AvailableHandler returns the derived free quantity of an item
func AvailableHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := mux.Vars(r)["sku"]
		av, err := Available(r.Context(), pgxPool, sku)
		if errors.Is(err, ErrItemNotFound) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrItemNotFound)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", av)
	}
}

// Handler: DepartmentAvailabilityHandler lists availability per department
func DepartmentAvailabilityHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept := mux.Vars(r)["dept"]
		list, err := DepartmentAvailability(r.Context(), pgxPool, dept)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", list)
	}
}

// Handler: SettleHandler finalizes a session and returns the split
func SettleHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionID string `json:"session_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		result, err := Settle(r.Context(), pgxPool, req.SessionID)
		if errors.Is(err, ErrSessionNotFound) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrSessionNotFound)
			return
		}
		if errors.Is(err, ErrSessionNotActive) {
			api.RespondWithError(w, http.StatusConflict, constants.ErrSettleNotActive)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrSettlementFailed)
			return
		}
		api.RespondWithPayload(w, true, "", result)
	}
}

// Handler: SessionReportHandler streams the workbook of a saved session.
// ?kind=surplus picks the surplus workbook instead of the main one.
func SessionReportHandler(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["session_id"]
		result, err := LoadSettledResult(r.Context(), pgxPool, sessionID)
		if errors.Is(err, ErrSessionNotFound) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrSessionNotFound)
			return
		}
		if errors.Is(err, ErrSessionNotActive) {
			api.RespondWithError(w, http.StatusConflict, constants.ErrSettleNotActive)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}

		wantSurplus := r.URL.Query().Get("kind") == "surplus"
		files, err := BuildSettlementReports(result)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		var picked *ReportFile
		for i := range files {
			if strings.HasPrefix(files[i].Filename, "НАДЛИШКИ_") == wantSurplus {
				picked = &files[i]
				break
			}
		}
		if picked == nil {
			api.RespondWithError(w, http.StatusNotFound, "no report lines for this session")
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", picked.Filename))
		w.Write(picked.Buf.Bytes())
	}
}

// Handler: AnalyticsHandler reports collected quantities over a period
func AnalyticsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, _ := strconv.Atoi(r.URL.Query().Get("days"))
		lines, err := CollectedAnalytics(r.Context(), db, days)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", lines)
	}
}
