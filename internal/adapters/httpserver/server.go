package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/usecase"
)

type Server struct {
	mux     *http.ServeMux
	catalog *usecase.CatalogUC
	cart    *usecase.CartUC
	orders  *usecase.OrderUC

	adminToken string
}

func New(catalog *usecase.CatalogUC, cart *usecase.CartUC, orders *usecase.OrderUC) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		catalog:    catalog,
		cart:       cart,
		orders:     orders,
		adminToken: os.Getenv("ADMIN_TOKEN"),
	}
	s.routes()
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/categories/tree", s.handleCategoryTree)
	s.mux.HandleFunc("/categories/flat", s.handleCategoryFlat)
	s.mux.HandleFunc("/categories/", s.handleCategory)

	s.mux.HandleFunc("/products", s.handleProducts)
	s.mux.HandleFunc("/product/", s.handleProduct)

	s.mux.HandleFunc("/cart", s.handleCart)
	s.mux.HandleFunc("/cart/update", s.handleCartUpdate)
	s.mux.HandleFunc("/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("/checkout", s.handleCheckout)

	s.mux.HandleFunc("/admin/categories", s.handleAdminCategories)
	s.mux.HandleFunc("/admin/products", s.handleAdminProducts)
	s.mux.HandleFunc("/admin/orders", s.handleAdminOrders)
	s.mux.HandleFunc("/admin/orders/status", s.handleAdminOrderStatus)
	s.mux.HandleFunc("/admin/export/xlsx", s.handleAdminExportXLSX)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, 404, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrOutOfStock):
		writeJSON(w, 409, map[string]string{"error": "out of stock"})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSlugExhausted):
		writeJSON(w, 409, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrCycle), errors.Is(err, domain.ErrUnknownStatus), errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, 422, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, 500, map[string]string{"error": "internal"})
	}
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminToken == "" {
		return true
	}
	tok := r.Header.Get("X-Admin-Token")
	if subtle.ConstantTimeCompare([]byte(tok), []byte(s.adminToken)) == 1 {
		return true
	}
	writeJSON(w, 401, map[string]string{"error": "unauthorized"})
	return false
}

// --- catalog ---

func (s *Server) handleCategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.catalog.Tree(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"roots": tree})
}

func (s *Server) handleCategoryFlat(w http.ResponseWriter, r *http.Request) {
	flat, err := s.catalog.FlatList(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"categories": flat})
}

// handleCategory serves /categories/{slug} and /categories/{slug}/breadcrumb.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/categories/")
	slug, tail, _ := strings.Cut(rest, "/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}
	if tail == "breadcrumb" {
		crumbs, err := s.catalog.Breadcrumb(r.Context(), slug)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"breadcrumb": crumbs})
		return
	}
	c, err := s.catalog.Categories.FindBySlug(r.Context(), slug)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, c)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	f := domain.ProductFilter{Page: page, PageSize: 24, Query: qv.Get("q"), Sort: qv.Get("sort")}
	if cat := qv.Get("category"); cat != "" {
		if c, err := s.catalog.Categories.FindBySlug(r.Context(), cat); err == nil {
			f.CategoryID = &c.ID
		}
	}
	list, total, err := s.catalog.ListProducts(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"products": list, "total": total, "page": f.Page})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/product/")
	p, err := s.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"product":    p,
		"outOfStock": p.IsOutOfStock(),
		"lowStock":   p.IsLowStock(),
		"maxAddable": p.MaxAddable(),
	})
}

// --- cart (signed cookie, same contract the session store round-trips) ---

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func readCart(r *http.Request) domain.Cart {
	c, err := r.Cookie("cart")
	if err != nil {
		return domain.Cart{}
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return domain.Cart{}
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return domain.Cart{}
	}
	var cart domain.Cart
	_ = json.Unmarshal(payload, &cart)
	return cart
}

func writeCart(w http.ResponseWriter, cart domain.Cart) {
	b, _ := json.Marshal(cart)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "cart", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true})
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, readCart(r))
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", 400)
			return
		}
		slug := r.FormValue("slug")
		if slug == "" {
			http.Error(w, "slug", 400)
			return
		}
		size := r.FormValue("size")
		qty, _ := strconv.Atoi(r.FormValue("qty"))
		cart := readCart(r)
		identity, err := s.cart.Add(r.Context(), &cart, slug, size, qty)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeCart(w, cart)
		writeJSON(w, 200, map[string]any{"cartItemId": identity, "cart": cart})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	identity := r.FormValue("id")
	qty, err := strconv.Atoi(r.FormValue("qty"))
	if identity == "" || err != nil {
		http.Error(w, "id/qty", 400)
		return
	}
	cart := readCart(r)
	if err := s.cart.SetQuantity(r.Context(), &cart, identity, qty); err != nil {
		writeErr(w, err)
		return
	}
	writeCart(w, cart)
	writeJSON(w, 200, cart)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	cart := readCart(r)
	cart.Remove(r.FormValue("id"))
	writeCart(w, cart)
	writeJSON(w, 200, cart)
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	cart := readCart(r)
	cart.Clear()
	writeCart(w, cart)
	writeJSON(w, 200, cart)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	tax, _ := strconv.ParseFloat(r.FormValue("tax"), 64)
	shipping, _ := strconv.ParseFloat(r.FormValue("shipping"), 64)
	discount, _ := strconv.ParseFloat(r.FormValue("discount"), 64)
	cart := readCart(r)
	o, err := s.orders.Checkout(r.Context(), &cart, usecase.CheckoutInfo{
		Email:           r.FormValue("email"),
		Name:            r.FormValue("name"),
		Phone:           r.FormValue("phone"),
		ShippingAddress: r.FormValue("shipping_address"),
		BillingAddress:  r.FormValue("billing_address"),
		Currency:        r.FormValue("currency"),
		Tax:             tax,
		Shipping:        shipping,
		Discount:        discount,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCart(w, domain.Cart{})
	writeJSON(w, 201, map[string]any{
		"order": o,
		"total": domain.FormatCurrency(o.Total, o.Currency),
	})
}

// --- admin ---

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		ParentID string `json:"parentId"`

		Description    string `json:"description"`
		SEOTitle       string `json:"seoTitle"`
		SEODescription string `json:"seoDescription"`
		SEOKeywords    string `json:"seoKeywords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	c := domain.Category{
		Name:           in.Name,
		Slug:           in.Slug,
		Description:    in.Description,
		SEOTitle:       in.SEOTitle,
		SEODescription: in.SEODescription,
		SEOKeywords:    in.SEOKeywords,
	}
	if in.ParentID != "" {
		pid, err := uuid.Parse(in.ParentID)
		if err != nil {
			http.Error(w, "parentId", 400)
			return
		}
		c.ParentID = &pid
	}
	var err error
	if in.ID != "" {
		c.ID, err = uuid.Parse(in.ID)
		if err != nil {
			http.Error(w, "id", 400)
			return
		}
		err = s.catalog.UpdateCategory(r.Context(), &c)
	} else {
		err = s.catalog.CreateCategory(r.Context(), &c)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, c)
}

func (s *Server) handleAdminProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		ID                    string   `json:"id"`
		Name                  string   `json:"name"`
		Slug                  string   `json:"slug"`
		Price                 float64  `json:"price"`
		StockQuantity         *int     `json:"stockQuantity"`
		EnableStockManagement bool     `json:"enableStockManagement"`
		CategoryIDs           []string `json:"categoryIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	p := domain.Product{
		Name:                  in.Name,
		Slug:                  in.Slug,
		Price:                 in.Price,
		StockQuantity:         in.StockQuantity,
		EnableStockManagement: in.EnableStockManagement,
	}
	for _, raw := range in.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "categoryIds", 400)
			return
		}
		p.CategoryIDs = append(p.CategoryIDs, id)
	}
	var err error
	if in.ID != "" {
		p.ID, err = uuid.Parse(in.ID)
		if err != nil {
			http.Error(w, "id", 400)
			return
		}
		err = s.catalog.UpdateProduct(r.Context(), &p)
	} else {
		err = s.catalog.CreateProduct(r.Context(), &p)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	qv := r.URL.Query()
	page, _ := strconv.Atoi(qv.Get("page"))
	f := domain.OrderFilter{Page: page, PageSize: 50}
	if st := qv.Get("status"); st != "" {
		parsed, err := domain.ParseOrderStatus(st)
		if err != nil {
			writeErr(w, err)
			return
		}
		f.Status = parsed
	}
	list, total, err := s.orders.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"orders": list, "total": total})
}

func (s *Server) handleAdminOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "form", 400)
		return
	}
	id, err := uuid.Parse(r.FormValue("id"))
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), id, r.FormValue("status"), r.FormValue("note"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, o)
}

func (s *Server) handleAdminExportXLSX(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	_ = f.SetSheetName("Sheet1", "Products")
	headers := []string{"Slug", "Name", "Price", "Stock", "Managed"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Products", cell, h)
	}
	prods, _, err := s.catalog.ListProducts(r.Context(), domain.ProductFilter{Page: 1, PageSize: 10000})
	if err != nil {
		writeErr(w, err)
		return
	}
	for row, p := range prods {
		stock := ""
		if p.StockQuantity != nil {
			stock = strconv.Itoa(*p.StockQuantity)
		}
		vals := []any{p.Slug, p.Name, p.Price, stock, p.EnableStockManagement}
		for col, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue("Products", cell, v)
		}
	}

	_, _ = f.NewSheet("Orders")
	oHeaders := []string{"Number", "Status", "Email", "Subtotal", "Tax", "Shipping", "Discount", "Total", "Currency", "Created"}
	for i, h := range oHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("Orders", cell, h)
	}
	orders, _, err := s.orders.List(r.Context(), domain.OrderFilter{Page: 1, PageSize: 10000})
	if err != nil {
		writeErr(w, err)
		return
	}
	for row, o := range orders {
		vals := []any{o.OrderNumber, string(o.Status), o.Email, o.Subtotal, o.Tax, o.Shipping, o.Discount, o.Total, o.Currency, o.CreatedAt.Format("2006-01-02 15:04")}
		for col, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue("Orders", cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "vitrina-export.xlsx"))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx export")
	}
}
