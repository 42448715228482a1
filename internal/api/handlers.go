package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"affiliatebot/internal/manager"
	"affiliatebot/internal/model"
)

const defaultSearchLimit = 5

// SearchHandler serves GET /search?q=&limit= with one entry per
// registered platform.
func SearchHandler(m *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeBadRequest(w, "missing required query parameter: q", r.URL.Path)
			return
		}

		limit := defaultSearchLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeBadRequest(w, "limit must be a positive integer", r.URL.Path)
				return
			}
			limit = n
		}

		writeJSON(w, m.SearchAllPlatforms(r.Context(), query, limit))
	}
}

// CompareHandler serves GET /compare?q=; platforms without a hit are
// absent from the response.
func CompareHandler(m *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeBadRequest(w, "missing required query parameter: q", r.URL.Path)
			return
		}

		writeJSON(w, m.ComparePrices(r.Context(), query))
	}
}

// DealsHandler serves GET /deals?min_discount=&category=.
func DealsHandler(m *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minDiscount := 10.0
		if v := r.URL.Query().Get("min_discount"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				writeBadRequest(w, "min_discount must be a number", r.URL.Path)
				return
			}
			minDiscount = f
		}

		category := r.URL.Query().Get("category")
		writeJSON(w, m.GetBestDeals(r.Context(), category, minDiscount))
	}
}

// ProductsHandler serves the saved-product collection:
// GET /products?platform= lists, POST /products saves.
func ProductsHandler(m *manager.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			products, err := m.SavedProducts(r.Context(), r.URL.Query().Get("platform"))
			if err != nil {
				writeInternalServerError(w, err, r.URL.Path)
				return
			}
			if products == nil {
				products = []model.Product{}
			}
			writeJSON(w, products)

		case http.MethodPost:
			var p model.Product
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeBadRequest(w, "invalid product payload", r.URL.Path)
				return
			}
			if p.ID == "" || p.Platform == "" {
				writeBadRequest(w, "product id and platform are required", r.URL.Path)
				return
			}
			if err := m.SaveProduct(r.Context(), p); err != nil {
				writeInternalServerError(w, err, r.URL.Path)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(p)

		default:
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed",
				"only GET and POST are supported", r.URL.Path)
		}
	}
}
