package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	api "StokCollect/api"
	"StokCollect/api/constants"
)

// readUploadedFile pulls the single spreadsheet out of a multipart form.
func readUploadedFile(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoIdentifierColumn),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrEmptyFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Handler: UploadCatalog runs the full import pipeline on one file
func UploadCatalog(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := readUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileUploaded)
			return
		}
		result, err := RunImport(r.Context(), pgxPool, data, filename)
		if err != nil {
			api.RespondWithError(w, importErrorStatus(err), err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", result)
	}
}

// Handler: AnalyzeCatalogUpload reports headers the mapper cannot resolve
func AnalyzeCatalogUpload(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, filename, err := readUploadedFile(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrNoFileUploaded)
			return
		}
		unknown, err := AnalyzeImport(r.Context(), pgxPool, data, filename)
		if err != nil {
			api.RespondWithError(w, importErrorStatus(err), err.Error())
			return
		}
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"unknown_headers": unknown,
			"ready":           len(unknown) == 0,
		})
	}
}

// Handler: SaveHeaderMapping stores an admin's mapping decision
func SaveHeaderMapping(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Header string `json:"header"`
			Field  string `json:"field"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Header == "" || req.Field == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if err := SaveMappingDecision(r.Context(), pgxPool, req.Header, req.Field); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrUnknownField) {
				status = http.StatusBadRequest
			}
			api.RespondWithError(w, status, constants.ErrMappingSaveFailed+": "+err.Error())
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// Handler: ListCatalogItems returns active items, optionally one department
func ListCatalogItems(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ListActiveItems(r.Context(), pgxPool, r.URL.Query().Get("dept"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", items)
	}
}

// Handler: GetCatalogItem returns one item by sku
func GetCatalogItem(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := mux.Vars(r)["sku"]
		item, err := GetItem(r.Context(), pgxPool, sku)
		if errors.Is(err, ErrItemNotFound) {
			api.RespondWithError(w, http.StatusNotFound, constants.ErrItemNotFound)
			return
		}
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		api.RespondWithPayload(w, true, "", item)
	}
}

// Handler: ExportStock streams the current stock balance workbook
func ExportStock(pgxPool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, filename, err := ExportStockBalances(r.Context(), pgxPool)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrDB)
			return
		}
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(buf.Bytes())
	}
}
