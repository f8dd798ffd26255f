package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/labsys/labstock/internal/adapters/export"
	"github.com/labsys/labstock/internal/domain"
	"github.com/labsys/labstock/internal/usecase"
)

// Deps are the collaborators the web layer glues together. The server only
// translates HTTP to workflow calls; the invariants live below it.
type Deps struct {
	Catalog   *usecase.CatalogUC
	Stock     *usecase.StockUC
	Orders    *usecase.OrderUC
	Users     domain.UserRepo
	Ledger    domain.LedgerRepo
	Exporter  *export.Exporter
	JWTSecret string
	MainStock string
}

type Server struct {
	mux       *http.ServeMux
	catalog   *usecase.CatalogUC
	stock     *usecase.StockUC
	orders    *usecase.OrderUC
	users     domain.UserRepo
	ledger    domain.LedgerRepo
	exporter  *export.Exporter
	jwtSecret string
	mainStock string
}

func New(d Deps) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		catalog:   d.Catalog,
		stock:     d.Stock,
		orders:    d.Orders,
		users:     d.Users,
		ledger:    d.Ledger,
		exporter:  d.Exporter,
		jwtSecret: d.JWTSecret,
		mainStock: d.MainStock,
	}

	s.mux.HandleFunc("POST /api/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/stock", s.requirePermission(domain.PermissionView, s.handleStockView))
	s.mux.HandleFunc("GET /api/stock/lots", s.requirePermission(domain.PermissionView, s.handleStockLots))
	s.mux.HandleFunc("GET /api/catalog", s.requirePermission(domain.PermissionView, s.handleCatalog))
	s.mux.HandleFunc("GET /api/specifications", s.requirePermission(domain.PermissionView, s.handleSpecifications))
	s.mux.HandleFunc("GET /api/transactions", s.requirePermission(domain.PermissionView, s.handleTransactions))
	s.mux.HandleFunc("GET /api/orders", s.requirePermission(domain.PermissionView, s.handleOrders))
	s.mux.HandleFunc("GET /api/export/{table}", s.requirePermission(domain.PermissionView, s.handleExport))

	s.mux.HandleFunc("POST /api/products", s.requirePermission(domain.PermissionEdit, s.handleCreateProduct))
	s.mux.HandleFunc("GET /api/products/{id}", s.requirePermission(domain.PermissionEdit, s.handleProductDetail))
	s.mux.HandleFunc("POST /api/products/{id}/specifications", s.requirePermission(domain.PermissionEdit, s.handleAddSpecification))
	s.mux.HandleFunc("DELETE /api/products/{id}", s.requirePermission(domain.PermissionDelete, s.handleDeleteProduct))

	s.mux.HandleFunc("GET /api/cart", s.requirePermission(domain.PermissionEdit, s.handleCart))
	s.mux.HandleFunc("POST /api/cart/items", s.requirePermission(domain.PermissionEdit, s.handleCartAdd))
	s.mux.HandleFunc("DELETE /api/cart", s.requirePermission(domain.PermissionEdit, s.handleCartClear))
	s.mux.HandleFunc("POST /api/checkout", s.requirePermission(domain.PermissionEdit, s.handleCheckout))
	s.mux.HandleFunc("POST /api/consume", s.requirePermission(domain.PermissionEdit, s.handleConsume))

	return s.mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Detail    string `json:"detail"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeDomainError maps the ledger's error kinds onto HTTP statuses and
// tells the operator whether retrying with different input can help.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrDuplicateSpecification):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error(), Retryable: true})
	case errors.Is(err, domain.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error(), Retryable: true})
	default:
		log.Error().Err(err).Msg("unexpected error")
		writeError(w, http.StatusInternalServerError, "unexpected error, contact an administrator")
	}
}

func (s *Server) mainStockID(r *http.Request) (uuid.UUID, error) {
	stock, err := s.ledger.FindStockByName(r.Context(), s.mainStock)
	if err != nil {
		return uuid.Nil, err
	}
	return stock.ID, nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil || !user.VerifyPassword(req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.issueToken(user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleStockView(w http.ResponseWriter, r *http.Request) {
	stockID, err := s.mainStockID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	totals, err := s.stock.ProductsInStock(r.Context(), stockID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleStockLots(w http.ResponseWriter, r *http.Request) {
	stockID, err := s.mainStockID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	lots, err := s.stock.LotsInStock(r.Context(), stockID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleSpecifications(w http.ResponseWriter, r *http.Request) {
	specs, err := s.catalog.ListSpecifications(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, specs)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListTransactions(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListOrders(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		StockMinimum int    `json:"stock_minimum"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product, err := s.catalog.CreateProduct(r.Context(), req.Name, req.StockMinimum)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := s.catalog.ProductDetail(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleAddSpecification(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req struct {
		Manufacturer  string `json:"manufacturer"`
		CatalogNumber string `json:"catalog_number"`
		Units         int    `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	spec, err := s.catalog.AddSpecification(r.Context(), id, req.Manufacturer, req.CatalogNumber, req.Units)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spec)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.orders.Cart(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpecificationID uuid.UUID `json:"specification_id"`
		Amount          int       `json:"amount"`
		LotNumber       string    `json:"lot_number"`
		ExpirationDate  string    `json:"expiration_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	line := domain.CartLine{
		SpecificationID: req.SpecificationID,
		Amount:          req.Amount,
		LotNumber:       req.LotNumber,
	}
	if req.ExpirationDate != "" {
		exp, err := time.Parse("2006-01-02", req.ExpirationDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expiration date, expected YYYY-MM-DD")
			return
		}
		line.ExpirationDate = &exp
	}
	if err := s.orders.AddLine(r.Context(), currentUser(r.Context()).ID, line); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.Cancel(r.Context(), currentUser(r.Context()).ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceType  string  `json:"invoice_type"`
		Invoice      string  `json:"invoice"`
		InvoiceValue float64 `json:"invoice_value"`
		Financier    string  `json:"financier"`
		Notes        string  `json:"notes"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	stockID, err := s.mainStockID(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	order, err := s.orders.Checkout(r.Context(), currentUser(r.Context()).ID, stockID, usecase.OrderMeta{
		InvoiceType:  req.InvoiceType,
		Invoice:      req.Invoice,
		InvoiceValue: req.InvoiceValue,
		Financier:    req.Financier,
		Notes:        req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StockProductID uuid.UUID `json:"stock_product_id"`
		Amount         int       `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.stock.Consume(r.Context(), currentUser(r.Context()).ID, req.StockProductID, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")
	wb, err := s.exporter.Workbook(r.Context(), table)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer wb.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+table+".xlsx")
	if err := wb.Write(w); err != nil {
		log.Error().Err(err).Str("table", table).Msg("export write failed")
	}
}
