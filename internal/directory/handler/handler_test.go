package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"rolodex/internal/audit"
	"rolodex/internal/directory/service"
	"rolodex/internal/directory/store/customer"
	"rolodex/internal/directory/store/invoice"
	"rolodex/internal/directory/store/phone"
	"rolodex/internal/platform/config"
	"rolodex/pkg/testutil"
)

// HandlerSuite exercises the REST surface against the real service and
// in-memory stores, so routing, status mapping, and JSON shapes are all
// covered together. Every request carries a pinned clock and request ID, as
// the middleware would attach in production.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	now    time.Time
}

const testRequestID = "req-handler-suite"

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := audit.NewPublisher(audit.NewInMemoryStore())

	svc := service.New(customer.NewInMemory(), invoice.NewInMemory(), phone.NewInMemory(),
		service.WithLogger(logger),
		service.WithAuditPublisher(publisher),
		service.WithValidation(config.ValidationConfig{
			PhoneMinDigits:     8,
			InvoiceDateHorizon: 10 * 365 * 24 * time.Hour,
			TestEmailDomains:   []string{"example.com"},
		}),
	)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req = testutil.WithRequestTime(req, s.now)
	req = testutil.WithRequestID(req, testRequestID)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) createCustomer() string {
	w := s.do(http.MethodPost, "/customers", map[string]string{
		"name":  "Acme Corporation",
		"email": "billing@acme-corporation.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.decode(w)["id"].(string)
}

func (s *HandlerSuite) TestCreateCustomer() {
	w := s.do(http.MethodPost, "/customers", map[string]string{
		"name":  "Acme Corporation",
		"email": "billing@acme-corporation.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	body := s.decode(w)
	s.Equal("Acme Corporation", body["name"])
	s.Equal(false, body["deleted"])
	s.NotEmpty(body["id"])
	s.Equal(s.now.Format(time.RFC3339), body["created_at"],
		"lifecycle timestamps come from the request-scoped clock")
}

func (s *HandlerSuite) TestCreateCustomer_ValidationErrorsListEveryField() {
	w := s.do(http.MethodPost, "/customers", map[string]string{})
	s.Require().Equal(http.StatusBadRequest, w.Code)

	errBody := s.decode(w)["error"].(map[string]any)
	s.Equal("validation", errBody["code"])

	fields := make(map[string]bool)
	for _, raw := range errBody["violations"].([]any) {
		v := raw.(map[string]any)
		fields[v["field"].(string)] = true
	}
	s.True(fields["name"])
	s.True(fields["email"])
}

func (s *HandlerSuite) TestGetCustomer_UnknownIsNotFound() {
	w := s.do(http.MethodGet, "/customers/"+uuid.NewString(), nil)
	s.Require().Equal(http.StatusNotFound, w.Code)
	s.Equal("not_found", s.decode(w)["error"].(map[string]any)["code"])
}

func (s *HandlerSuite) TestGetCustomer_InvalidIDIsBadRequest() {
	w := s.do(http.MethodGet, "/customers/not-a-uuid", nil)
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCustomerLifecycleOverHTTP() {
	id := s.createCustomer()

	s.Run("delete returns 204", func() {
		w := s.do(http.MethodDelete, "/customers/"+id, nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("deleted record is hidden by default", func() {
		w := s.do(http.MethodGet, "/customers/"+id, nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("include_deleted reveals it", func() {
		w := s.do(http.MethodGet, "/customers/"+id+"?include_deleted=true", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		body := s.decode(w)
		s.Equal(true, body["deleted"])
		s.NotEmpty(body["deleted_at"])
	})

	s.Run("second delete conflicts", func() {
		w := s.do(http.MethodDelete, "/customers/"+id, nil)
		s.Require().Equal(http.StatusConflict, w.Code)
		s.Equal("conflict", s.decode(w)["error"].(map[string]any)["code"])
	})

	s.Run("restore reactivates", func() {
		w := s.do(http.MethodPost, "/customers/"+id+"/restore", nil)
		s.Require().Equal(http.StatusOK, w.Code)
		s.Equal(false, s.decode(w)["deleted"])

		w = s.do(http.MethodGet, "/customers/"+id, nil)
		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("restore of active record conflicts", func() {
		w := s.do(http.MethodPost, "/customers/"+id+"/restore", nil)
		s.Equal(http.StatusConflict, w.Code)
	})
}

func (s *HandlerSuite) TestListCustomers_Pagination() {
	for i := 0; i < 3; i++ {
		w := s.do(http.MethodPost, "/customers", map[string]string{
			"name":  fmt.Sprintf("Customer %d", i),
			"email": fmt.Sprintf("c%d@example.com", i),
		})
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/customers?page=1&per_page=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	s.Len(body["data"].([]any), 2)
	s.EqualValues(3, body["total"])
	s.EqualValues(1, body["page"])
	s.EqualValues(2, body["per_page"])
}

func (s *HandlerSuite) TestInvoiceAmountRoundTrip() {
	customerID := s.createCustomer()

	w := s.do(http.MethodPost, "/invoices", map[string]any{
		"customer_id": customerID,
		"number":      "INV-100",
		"amount":      "1250.00",
		"date":        s.now.AddDate(0, -1, 0),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("1250.00", s.decode(w)["amount"])
}

func (s *HandlerSuite) TestInvoiceAmountMalformed() {
	customerID := s.createCustomer()

	w := s.do(http.MethodPost, "/invoices", map[string]any{
		"customer_id": customerID,
		"number":      "INV-101",
		"amount":      "12.345",
		"date":        s.now.AddDate(0, -1, 0),
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)

	errBody := s.decode(w)["error"].(map[string]any)
	violations := errBody["violations"].([]any)
	s.Require().Len(violations, 1)
	s.Equal("amount", violations[0].(map[string]any)["field"])
}

func (s *HandlerSuite) TestInvoiceNumberConflict() {
	customerID := s.createCustomer()

	body := map[string]any{
		"customer_id": customerID,
		"number":      "INV-200",
		"amount":      "10.00",
		"date":        s.now.AddDate(0, -1, 0),
	}
	w := s.do(http.MethodPost, "/invoices", body)
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/invoices", body)
	s.Require().Equal(http.StatusConflict, w.Code)
}

func (s *HandlerSuite) TestCustomerBalance() {
	customerID := s.createCustomer()

	create := func(number, amount string) string {
		w := s.do(http.MethodPost, "/invoices", map[string]any{
			"customer_id": customerID,
			"number":      number,
			"amount":      amount,
			"date":        s.now.AddDate(0, -1, 0),
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		return s.decode(w)["id"].(string)
	}
	create("INV-300", "20.00")
	create("INV-301", "15.00")
	deleted := create("INV-302", "99.99")

	w := s.do(http.MethodDelete, "/invoices/"+deleted, nil)
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/customers/"+customerID+"/balance", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("35.00", s.decode(w)["balance"])
}

func (s *HandlerSuite) TestListInvoices_FilterByCustomer() {
	first := s.createCustomer()
	w := s.do(http.MethodPost, "/customers", map[string]string{
		"name":  "Globex",
		"email": "accounts@globex.example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	second := s.decode(w)["id"].(string)

	for i, owner := range []string{first, first, second} {
		w := s.do(http.MethodPost, "/invoices", map[string]any{
			"customer_id": owner,
			"number":      fmt.Sprintf("INV-40%d", i),
			"amount":      "10.00",
			"date":        s.now.AddDate(0, -1, 0),
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/invoices?customer_id="+first, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, s.decode(w)["total"])

	w = s.do(http.MethodGet, "/invoices?customer_id=not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestPhoneNumberValidation() {
	customerID := s.createCustomer()

	w := s.do(http.MethodPost, "/phone-numbers", map[string]any{
		"customer_id": customerID,
		"category":    "mobile",
		"number":      "123",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)

	errBody := s.decode(w)["error"].(map[string]any)
	violations := errBody["violations"].([]any)
	s.Require().Len(violations, 1)
	s.Equal("number", violations[0].(map[string]any)["field"])
}

func (s *HandlerSuite) TestAuditTrailEndpoint() {
	id := s.createCustomer()

	w := s.do(http.MethodDelete, "/customers/"+id, nil)
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/customers/"+id+"/audit", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	body := s.decode(w)
	events := body["data"].([]any)
	s.Require().Len(events, 2)
	s.Equal("created", events[0].(map[string]any)["action"])
	s.Equal("soft_deleted", events[1].(map[string]any)["action"])
	s.Equal(testRequestID, events[0].(map[string]any)["request_id"],
		"audit events carry the request ID from the request context")
}
