package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"warungpos/m/domain"
	"warungpos/m/internal/config"
	"warungpos/m/internal/ledger"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db          *sqlx.DB
	store       *ledger.Store
	secret      string
	receiptPath string
	validate    *validator.Validate
	log         *logrus.Logger
}

// New constructs a Handler.
func New(db *sqlx.DB, store *ledger.Store, secret, receiptPath string) *Handler {
	return &Handler{
		db:          db,
		store:       store,
		secret:      secret,
		receiptPath: receiptPath,
		validate:    validator.New(),
		log:         config.GetLogger(),
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.addItem)
		r.Get("/", h.listItems)
		r.Get("/search", h.searchItems)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Post("/", h.recordSale)
		r.Get("/", h.listSales)
		r.Get("/export", h.exportSalesCSV)
		r.Post("/receipt", h.printReceipt)
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Post("/", h.addSupplierDelivery)
		r.Get("/", h.listSupplierDeliveries)
	})

	r.Route("/owner", func(r chi.Router) {
		r.Post("/login", h.ownerLogin)

		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Get("/items", h.ownerListItems)
			protected.Put("/items/{id}", h.updateItem)
			protected.Delete("/items/{id}", h.deleteItem)
			protected.Get("/summary", h.ownerSummary)
			protected.Get("/reports/profit-by-item", h.profitByItem)
			protected.Get("/reports/sales.xlsx", h.exportSalesXLSX)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken() (string, error) {
	claims := authClaims{
		Role: "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok || claims.Role != "owner" {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) ownerLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	if err := h.db.Get(&user, `SELECT id, username, password, role FROM users WHERE username = 'owner'`); err != nil {
		respondError(w, http.StatusInternalServerError, "owner account not provisioned")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.generateToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Inventory handlers

// itemView is the public projection of an inventory row; the profit
// percentage column stays owner-only.
type itemView struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock"`
	CreatedAt string          `json:"created_at"`
}

func toItemViews(items []domain.Item) []itemView {
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{
			ID:        item.ID,
			Name:      item.Name,
			Brand:     item.Brand,
			Size:      item.Size,
			Price:     item.Price,
			Stock:     item.Stock,
			CreatedAt: item.CreatedAt.Format(ledger.TimeLayout),
		}
	}
	return views
}

type addItemRequest struct {
	Name  string          `json:"name"`
	Brand string          `json:"brand"`
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock" validate:"min=0"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	item, err := h.store.AddItem(req.Name, req.Brand, req.Size, req.Price, req.Stock)
	if err != nil {
		h.saveFailure(w, "addItem", err)
		return
	}
	views := toItemViews([]domain.Item{item})
	respondJSON(w, http.StatusCreated, views[0])
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toItemViews(h.store.Items()))
}

func (h *Handler) searchItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	respondJSON(w, http.StatusOK, toItemViews(h.store.SearchItems(query)))
}

func (h *Handler) ownerListItems(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Items())
}

type updateItemRequest struct {
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Stock     int64           `json:"stock" validate:"min=0"`
	ProfitPct int64           `json:"profit_pct" validate:"min=0,max=100"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	updated, err := h.store.UpdateItem(id, req.Name, req.Brand, req.Size, req.Price, req.Stock, req.ProfitPct)
	if err != nil {
		h.saveFailure(w, "updateItem", err)
		return
	}
	// An unknown id touches zero rows; callers can tell from the count.
	respondJSON(w, http.StatusOK, map[string]any{"status": "updated", "rows": updated})
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	removed, err := h.store.DeleteItem(id)
	if err != nil {
		h.saveFailure(w, "deleteItem", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "deleted", "rows": removed})
}

// Sales handlers

type recordSaleRequest struct {
	Customer string `json:"customer"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	ItemName string `json:"item_name"`
	Size     string `json:"size"`
	Brand    string `json:"brand"`
	Quantity int64  `json:"quantity" validate:"min=1"`
}

func (h *Handler) recordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}

	sale, err := h.store.RecordSale(req.Customer, req.Phone, req.Address, req.ItemName, req.Size, req.Brand, req.Quantity)
	if errors.Is(err, ledger.ErrItemNotFound) {
		respondError(w, http.StatusBadRequest, "item not found in inventory")
		return
	}
	if err != nil {
		h.saveFailure(w, "recordSale", err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Sales())
}

func (h *Handler) exportSalesCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan_penjualan.csv"`)
	if err := h.store.WriteSalesCSV(w); err != nil {
		config.LogError(h.log, "api", "exportSalesCSV", "streaming sales csv", err)
	}
}

func (h *Handler) exportSalesXLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="laporan_penjualan.xlsx"`)
	if err := h.store.WriteSalesXLSX(w); err != nil {
		config.LogError(h.log, "api", "exportSalesXLSX", "streaming sales xlsx", err)
	}
}

func (h *Handler) printReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.store.PrintReceipt(h.receiptPath)
	if errors.Is(err, ledger.ErrNoSales) {
		respondError(w, http.StatusBadRequest, "no sales recorded yet")
		return
	}
	if err != nil {
		config.LogError(h.log, "api", "printReceipt", h.receiptPath, err)
		respondError(w, http.StatusInternalServerError, "unable to write receipt")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(receipt))
}

// Supplier handlers

type supplierRequest struct {
	ItemName string          `json:"item_name"`
	Brand    string          `json:"brand"`
	Size     string          `json:"size"`
	Quantity int64           `json:"quantity" validate:"min=0"`
	Supplier string          `json:"supplier"`
	Bill     decimal.Decimal `json:"bill"`
}

func (h *Handler) addSupplierDelivery(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidation(w, err)
		return
	}
	if req.Bill.IsNegative() {
		respondError(w, http.StatusBadRequest, "bill must not be negative")
		return
	}

	delivery, err := h.store.AddSupplierDelivery(req.ItemName, req.Brand, req.Size, req.Quantity, req.Supplier, req.Bill)
	if err != nil {
		h.saveFailure(w, "addSupplierDelivery", err)
		return
	}
	respondJSON(w, http.StatusCreated, delivery)
}

func (h *Handler) listSupplierDeliveries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Suppliers())
}

// Reports

func (h *Handler) ownerSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Summarize())
}

func (h *Handler) profitByItem(w http.ResponseWriter, r *http.Request) {
	profits := h.store.ProfitByItem()
	labels := make([]string, len(profits))
	values := make([]decimal.Decimal, len(profits))
	for i, p := range profits {
		labels[i] = p.Name
		values[i] = p.Profit
	}
	respondJSON(w, http.StatusOK, map[string]any{"labels": labels, "values": values})
}

// Helpers

func (h *Handler) saveFailure(w http.ResponseWriter, funcName string, err error) {
	config.LogError(h.log, "api", funcName, "persisting ledger", err)
	respondError(w, http.StatusInternalServerError, "unable to save ledger")
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondValidation(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			fields[ve.Field()] = ve.Tag()
		}
	}
	respondJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fields})
}
