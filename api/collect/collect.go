package collect

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StartCollectService mounts the session, claim and settlement endpoints.
func StartCollectService(pool *pgxpool.Pool, db *sql.DB, port int) {
	router := mux.NewRouter()

	router.HandleFunc("/collect/session", StartSessionHandler(pool)).Methods("POST")
	router.HandleFunc("/collect/session/{user_id}", GetSessionHandler(pool)).Methods("GET")
	router.HandleFunc("/collect/claim", AddClaimHandler(pool)).Methods("POST")
	router.HandleFunc("/collect/clear", ClearSessionHandler(pool)).Methods("POST")
	router.HandleFunc("/collect/available/{sku}", AvailableHandler(pool)).Methods("GET")
	router.HandleFunc("/collect/department/{dept}", DepartmentAvailabilityHandler(pool)).Methods("GET")
	router.HandleFunc("/collect/settle", SettleHandler(pool)).Methods("POST")
	router.HandleFunc("/collect/report/{session_id}", SessionReportHandler(pool)).Methods("GET")
	router.HandleFunc("/collect/analytics", AnalyticsHandler(db)).Methods("GET")

	addr := fmt.Sprintf(":%d", port)
	log.Println("Collect Service started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Collect Service failed: %v", err)
	}
}
