package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
	"github.com/Brendan777/Assignment2/pkg/domain/service"
)

var registerFields = []string{"full_name", "email", "password", "repeat_password"}

type Handler struct {
	catalog      model.CatalogRepository
	orders       service.OrderService
	creds        service.CredentialService
	invoices     service.InvoiceService
	templatesDir string
}

func Router(
	catalog model.CatalogRepository,
	orders service.OrderService,
	creds service.CredentialService,
	invoices service.InvoiceService,
	publicDir, templatesDir string,
) http.Handler {
	handler := &Handler{
		catalog:      catalog,
		orders:       orders,
		creds:        creds,
		invoices:     invoices,
		templatesDir: templatesDir,
	}

	r := mux.NewRouter()
	r.HandleFunc("/products.js", handler.productsScriptHandler).Methods(http.MethodGet)
	r.HandleFunc("/invoice.html", handler.invoicePageHandler).Methods(http.MethodGet)
	r.HandleFunc("/process_purchase", handler.processPurchaseHandler).Methods(http.MethodPost)
	r.HandleFunc("/register", handler.registerHandler).Methods(http.MethodPost)
	r.HandleFunc("/process_login", handler.processLoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/forward_to_register_page", handler.forwardHandler("./register.html")).Methods(http.MethodPost)
	r.HandleFunc("/forward_to_thanks_page", handler.forwardHandler("./thankspage.html")).Methods(http.MethodPost)
	r.HandleFunc("/purchase_login", handler.forwardHandler("./login.html")).Methods(http.MethodPost)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))

	return logMiddleware(r)
}

// productsScriptHandler serves the catalog as a JavaScript assignment
// for the static pages that render it.
func (h *Handler) productsScriptHandler(w http.ResponseWriter, _ *http.Request) {
	type productView struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		QtyAvailable int     `json:"qty_available"`
		QtySold      int     `json:"qty_sold"`
		Image        string  `json:"image"`
		Alt          string  `json:"alt"`
	}

	products := h.catalog.Products()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{
			Name:         p.Name,
			Price:        model.CentsToPrice(p.PriceCents),
			QtyAvailable: p.QtyAvailable,
			QtySold:      p.QtySold,
			Image:        p.Image,
			Alt:          p.Alt,
		})
	}

	b, err := json.Marshal(views)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprintf(w, "let products = %s;", b)
}

func (h *Handler) processPurchaseHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	h.finishPurchase(w, r, removeFields(r.PostForm, "error"))
}

func (h *Handler) registerHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := r.PostForm
	items := removeFields(form, append(registerFields, "error")...)

	req := service.RegisterRequest{
		FullName:       form.Get("full_name"),
		Email:          form.Get("email"),
		Password:       form.Get("password"),
		RepeatPassword: form.Get("repeat_password"),
	}
	for _, field := range registerFields {
		if !form.Has(field) {
			req.MissingFields = append(req.MissingFields, field)
		}
	}

	record, err := h.creds.Register(req)
	if err != nil {
		h.redirectCredentialError(w, r, "./register.html", items, err)
		return
	}

	items.Set("name", record.Name)
	h.finishPurchase(w, r, items)
}

func (h *Handler) processLoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := r.PostForm
	items := removeFields(form, "email", "password", "error")

	record, err := h.creds.Login(form.Get("email"), form.Get("password"))
	if err != nil {
		h.redirectCredentialError(w, r, "./login.html", items, err)
		return
	}

	items.Set("name", record.Name)
	h.finishPurchase(w, r, items)
}

// finishPurchase runs the quantity fields of items through the order
// processor and routes the browser to the page for the outcome. The
// redirect always carries the submitted values so the receiving page
// can re-render them, plus one qty{i}_error per rejected line.
func (h *Handler) finishPurchase(w http.ResponseWriter, r *http.Request, items url.Values) {
	submission := submissionFrom(items, h.catalog.Products())

	outcome, err := h.orders.Process(submission)
	if err != nil {
		log.WithError(err).Error("failed to process purchase")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	switch outcome.Kind {
	case model.Accepted:
		http.Redirect(w, r, "./invoice.html?valid&"+items.Encode(), http.StatusSeeOther)
	case model.Rejected:
		withErrors := cloneValues(items)
		for id, msg := range outcome.LineErrors {
			withErrors.Set(fmt.Sprintf("qty%d_error", id), msg)
		}
		http.Redirect(w, r, "./products_display.html?"+withErrors.Encode()+"&inputErr", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "./products_display.html?error", http.StatusSeeOther)
	}
}

func (h *Handler) redirectCredentialError(w http.ResponseWriter, r *http.Request, page string, items url.Values, err error) {
	var credErr service.CredentialError
	code := "server_error"
	if errors.As(err, &credErr) {
		code = credErr.Code()
	} else {
		log.WithError(err).Error("credential operation failed")
	}

	http.Redirect(w, r, page+"?error="+code+"&"+items.Encode(), http.StatusSeeOther)
}

func (h *Handler) forwardHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, page+"?"+r.PostForm.Encode(), http.StatusSeeOther)
	}
}

const noSubmissionPage = `<html>
<head><link rel="stylesheet" href="style.css"></head>
<body style="text-align: center; margin-top: 10%;">
<h2>ERROR: No form submission detected.</h2>
<h4>Return to <a href="index.html">Home</a></h4>
</body>
</html>`

type invoiceLineView struct {
	Image        string
	Alt          string
	Name         string
	Quantity     int
	QtyAvailable int
	Price        string
	Extended     string
}

type invoicePage struct {
	Name     string
	Lines    []invoiceLineView
	Subtotal string
	TaxRate  string
	Tax      string
	Shipping string
	Total    string
}

// invoicePageHandler renders the invoice for an accepted purchase from
// the quantities carried in the redirect query and the catalog as it
// stands after that purchase.
func (h *Handler) invoicePageHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html")

	if !q.Has("valid") {
		fmt.Fprint(w, noSubmissionPage)
		return
	}

	products := h.catalog.Products()
	quantities := make(map[int]int)
	for _, p := range products {
		qty, err := strconv.Atoi(q.Get(fmt.Sprintf("qty%d", p.ID)))
		if err == nil && qty > 0 {
			quantities[p.ID] = qty
		}
	}

	invoice := h.invoices.Compute(quantities, products)

	page := invoicePage{
		Name:     q.Get("name"),
		Subtotal: model.FormatCents(invoice.SubtotalCents),
		TaxRate:  strconv.FormatFloat(invoice.TaxRatePercent, 'f', -1, 64),
		Tax:      model.FormatCents(invoice.TaxCents),
		Shipping: invoice.ShippingDisplay(),
		Total:    model.FormatCents(invoice.TotalCents),
	}
	for _, line := range invoice.Lines {
		page.Lines = append(page.Lines, invoiceLineView{
			Image:        line.Product.Image,
			Alt:          line.Product.Alt,
			Name:         line.Product.Name,
			Quantity:     line.Quantity,
			QtyAvailable: line.Product.QtyAvailable,
			Price:        model.FormatCents(line.Product.PriceCents),
			Extended:     model.FormatCents(line.ExtendedCents),
		})
	}

	tmpl, err := template.ParseFiles(filepath.Join(h.templatesDir, "invoice.html"))
	if err != nil {
		log.WithError(err).Error("could not parse invoice template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, page); err != nil {
		log.WithError(err).Error("could not render invoice")
	}
}

// submissionFrom extracts the quantity fields into an ordered line
// list. Absent and blank fields mean the product is not being ordered
// and produce no line at all.
func submissionFrom(form url.Values, products []model.Product) model.OrderSubmission {
	var lines []model.LineRequest
	for _, p := range products {
		field := fmt.Sprintf("qty%d", p.ID)
		if !form.Has(field) || form.Get(field) == "" {
			continue
		}
		lines = append(lines, model.LineRequest{ProductID: p.ID, Raw: form.Get(field)})
	}
	return model.OrderSubmission{Lines: lines}
}

func removeFields(form url.Values, fields ...string) url.Values {
	items := cloneValues(form)
	for _, field := range fields {
		items.Del(field)
	}
	return items
}

func cloneValues(v url.Values) url.Values {
	clone := url.Values{}
	for key, values := range v {
		for _, value := range values {
			clone.Add(key, value)
		}
	}
	return clone
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
