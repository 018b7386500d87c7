// Package server exposes the local scrape journal over HTTP, so a run's
// output can be inspected without querying the remote store.
package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"PriceScraper/internal/journal"
	"PriceScraper/internal/models"

	"github.com/sirupsen/logrus"
)

type productsResponse struct {
	Data       []models.Product `json:"data"`
	Pagination pagination       `json:"pagination"`
}

type pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// Start serves the journal read API until the process exits.
func Start(repo *journal.Repository, port string, log *logrus.Entry) error {
	http.HandleFunc("/products", productsHandler(repo, log))

	log.Infof("Starting journal API server on port %s", port)
	return http.ListenAndServe(":"+port, nil)
}

func productsHandler(repo *journal.Repository, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryParams := r.URL.Query()

		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20
		}
		source := queryParams.Get("source")
		offset := (page - 1) * limit

		total, err := repo.CountProducts(source)
		if err != nil {
			log.WithError(err).Error("Failed to count journal products")
			http.Error(w, "Failed to count products", http.StatusInternalServerError)
			return
		}

		products, err := repo.GetProducts(source, limit, offset)
		if err != nil {
			log.WithError(err).Error("Failed to read journal products")
			http.Error(w, "Failed to get products", http.StatusInternalServerError)
			return
		}

		response := productsResponse{
			Data: products,
			Pagination: pagination{
				TotalItems:  total,
				TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
				CurrentPage: page,
			},
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}
