package catalog

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartCatalogService mounts the import pipeline endpoints and serves.
func StartCatalogService(pool *pgxpool.Pool, port int) {
	router := mux.NewRouter()

	router.HandleFunc("/catalog/import", UploadCatalog(pool)).Methods("POST")
	router.HandleFunc("/catalog/analyze", AnalyzeCatalogUpload(pool)).Methods("POST")
	router.HandleFunc("/catalog/mapping", SaveHeaderMapping(pool)).Methods("POST")
	router.HandleFunc("/catalog/items", ListCatalogItems(pool)).Methods("GET")
	router.HandleFunc("/catalog/items/{sku}", GetCatalogItem(pool)).Methods("GET")
	router.HandleFunc("/catalog/export", ExportStock(pool)).Methods("GET")

	addr := fmt.Sprintf(":%d", port)
	log.Println("Catalog Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Catalog Service failed: %v", err)
	}
}
