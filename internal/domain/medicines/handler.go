package medicines

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"medication-manager/internal/middleware"
	"medication-manager/internal/platform/web"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/medicines", func(mr chi.Router) {
		mr.Use(middleware.RequireClaims)

		mr.Post("/", createMedicineHandler(svc))
		mr.Get("/", listMedicinesHandler(svc))
		mr.Get("/low-stock", lowStockHandler(svc))

		mr.Get("/{medicineID}", getMedicineHandler(svc))
		mr.Patch("/{medicineID}", updateMedicineHandler(svc))
		mr.Delete("/{medicineID}", deleteMedicineHandler(svc))

		// Tomar una dosis / reponer stock
		mr.Post("/{medicineID}/take", takeMedicineHandler(svc))
		mr.Post("/{medicineID}/restock", restockMedicineHandler(svc))
	})
}

type createMedicineRequest struct {
	Name        string   `json:"name"`
	Dosage      string   `json:"dosage"`
	Frequency   string   `json:"frequency"`
	IntakeTimes []string `json:"intake_times"`
	Stock       int      `json:"stock"`
	Threshold   int      `json:"threshold"`
	Notes       string   `json:"notes"`
	Active      *bool    `json:"active"` // default true
}

type updateMedicineRequest struct {
	Name        *string   `json:"name"`
	Dosage      *string   `json:"dosage"`
	Frequency   *string   `json:"frequency"`
	IntakeTimes *[]string `json:"intake_times"`
	Stock       *int      `json:"stock"`
	Threshold   *int      `json:"threshold"`
	Notes       *string   `json:"notes"`
	Active      *bool     `json:"active"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// MedicineResponse es la forma pública de un medicamento.
type MedicineResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Dosage      string    `json:"dosage"`
	Frequency   string    `json:"frequency"`
	IntakeTimes []string  `json:"intake_times"`
	Stock       int       `json:"stock"`
	Threshold   int       `json:"threshold"`
	LowStock    bool      `json:"low_stock"`
	Notes       string    `json:"notes"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// createMedicineHandler godoc
// @Summary Crear medicamento
// @Tags medicines
// @Accept json
// @Produce json
// @Param payload body createMedicineRequest true "Datos del medicamento"
// @Success 201 {object} MedicineResponse
// @Failure 400 {string} string "invalid json / invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /medicines [post]
func createMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicineRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Name:        req.Name,
			Dosage:      req.Dosage,
			Frequency:   req.Frequency,
			IntakeTimes: req.IntakeTimes,
			Stock:       req.Stock,
			Threshold:   req.Threshold,
			Notes:       req.Notes,
			Active:      active,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		web.WriteJSON(w, http.StatusCreated, ToResponse(m))
	}
}

// listMedicinesHandler godoc
// @Summary Listar medicamentos
// @Description Lista en orden de alta. Con q filtra por nombre (sin distinguir mayúsculas).
// @Tags medicines
// @Produce json
// @Param q query string false "Texto a buscar en el nombre"
// @Success 200 {array} MedicineResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medicines [get]
func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Medicine
			err   error
		)
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			items, err = svc.Search(r.Context(), q)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}

		web.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func lowStockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.LowStock(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "medicineID")
		if err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		m, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(m))
	}
}

func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "medicineID")
		if err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		var req updateMedicineRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), id, Patch{
			Name:        req.Name,
			Dosage:      req.Dosage,
			Frequency:   req.Frequency,
			IntakeTimes: req.IntakeTimes,
			Stock:       req.Stock,
			Threshold:   req.Threshold,
			Notes:       req.Notes,
			Active:      req.Active,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(m))
	}
}

func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "medicineID")
		if err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// takeMedicineHandler godoc
// @Summary Registrar toma de una dosis
// @Description Descuenta 1 del stock si es mayor a cero. Con stock 0 no cambia el stock pero actualiza updated_at.
// @Tags medicines
// @Produce json
// @Param medicineID path int true "ID del medicamento"
// @Success 200 {object} MedicineResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medicine not found"
// @Router /medicines/{medicineID}/take [post]
func takeMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "medicineID")
		if err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		m, err := svc.TakeMedicine(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(m))
	}
}

func restockMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := web.PathInt64(r, "medicineID")
		if err != nil {
			http.Error(w, "medicine not found", http.StatusNotFound)
			return
		}

		var req restockRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Restock(r.Context(), id, req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, ToResponse(m))
	}
}

// ToResponse se exporta porque dashboard y reminders devuelven medicamentos
// con la misma forma.
func ToResponse(m Medicine) MedicineResponse {
	times := m.IntakeTimes
	if times == nil {
		times = []string{}
	}
	return MedicineResponse{
		ID:          m.ID,
		Name:        m.Name,
		Dosage:      m.Dosage,
		Frequency:   m.Frequency,
		IntakeTimes: times,
		Stock:       m.Stock,
		Threshold:   m.Threshold,
		LowStock:    m.LowStock(),
		Notes:       m.Notes,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToResponses(items []Medicine) []MedicineResponse {
	out := make([]MedicineResponse, 0, len(items))
	for _, m := range items {
		out = append(out, ToResponse(m))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medicine not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
