package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"tourbook/src/cms"
	"tourbook/src/lib"
	"tourbook/src/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
)

const catalogFixture = `{"data":[
	{"id":1,"attributes":{"title":"Temple walk","price":3000,"timeOfTour":["morning"],"specials":["Halal"],
		"reviews":{"data":[{"attributes":{"rating":5}},{"attributes":{"rating":4}}]}}},
	{"id":2,"attributes":{"title":"Island hop","price":6000,"timeOfTour":["morning"],
		"reviews":{"data":[{"attributes":{"rating":5}}]}}},
	{"id":3,"attributes":{"title":"Night market","price":2000,"timeOfTour":["afternoon"],
		"reviews":{"data":[{"attributes":{"rating":5}}]}}}
]}`

type TestSuite struct {
	suite.Suite
	cms    *httptest.Server
	router *gin.Engine

	mu          sync.Mutex
	submissions []string
	statusPuts  int
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	registerValidators()
}

func (s *TestSuite) SetupTest() {
	s.submissions = nil
	s.statusPuts = 0

	mux := http.NewServeMux()
	mux.HandleFunc("/api/packages", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("filters[id][$eq]")
		switch {
		case id == "99":
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":{"message":"boom"}}`)
		case id != "":
			item := gjson.Get(catalogFixture, "data.#(id=="+id+")")
			if !item.Exists() {
				io.WriteString(w, `{"data":[]}`)
				return
			}
			io.WriteString(w, `{"data":[`+item.Raw+`]}`)
		default:
			io.WriteString(w, catalogFixture)
		}
	})
	mux.HandleFunc("/api/auth/local", func(w http.ResponseWriter, r *http.Request) {
		s.Empty(r.Header.Get("Authorization"))
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		switch body["identifier"] {
		case "ann":
			io.WriteString(w, `{"jwt":"ann-token","user":{"id":4,"username":"ann","email":"ann@example.com"}}`)
		case "root":
			io.WriteString(w, `{"jwt":"root-token","user":{"id":1,"username":"root","roles":["admin"]}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"message":"Invalid identifier or password"}}`)
		}
	})
	mux.HandleFunc("/api/history-packages", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer ann-token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.submissions = append(s.submissions, string(body))
		s.mu.Unlock()
		io.WriteString(w, `{"data":{"id":42}}`)
	})
	mux.HandleFunc("/api/payments/5", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer root-token", r.Header.Get("Authorization"))
		if r.Method == http.MethodPut {
			s.mu.Lock()
			s.statusPuts++
			s.mu.Unlock()
			io.WriteString(w, `{"data":{"id":5}}`)
			return
		}
		io.WriteString(w, `{"data":{"id":5,"attributes":{"payment_slip":{"data":{"attributes":{"url":"/uploads/slip.png"}}}}}}`)
	})
	mux.HandleFunc("/api/payments", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"id":5,"attributes":{"amount":3000,"payment_status":"Pending","payment_date":"2025-01-02",
			"users_permissions_user":{"data":{"attributes":{"username":"ann"}}},
			"package":{"data":{"attributes":{"title":"Temple walk"}}}}}]}`)
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1},{"id":4}]`)
	})
	s.cms = httptest.NewServer(mux)

	client := cms.NewClient(s.cms.URL+"/api", s.cms.URL, cms.WithRetry(3, time.Millisecond))
	slot := lib.NewMemorySlot()
	svc := newServices(client, slot, lib.NewCatalogCache(nil, client, time.Minute))

	s.router = setupRouter()
	setupRoutes(s.router, svc)
}

func (s *TestSuite) TearDownTest() {
	s.cms.Close()
}

func (s *TestSuite) do(method, path, sessionID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middlewares.SessionHeader, sessionID)
	}
	s.router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) login(identifier string) string {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"identifier":"`+identifier+`","password":"secret"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.True(gjson.Get(w.Body.String(), "session.isLoggedIn").Bool())
	return w.Header().Get(middlewares.SessionHeader)
}

func (s *TestSuite) TestPingRoute() {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	s.router.ServeHTTP(w, req)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestPackagesFilteredAndSorted() {
	w := s.do(http.MethodGet, "/api/v1/packages?price=5000&rating=4&time=morning", "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Equal(int64(1), gjson.Get(body, "count").Int())
	s.Equal("Temple walk", gjson.Get(body, "data.0.name").String())
	s.Equal(4.5, gjson.Get(body, "data.0.rating").Float())

	w = s.do(http.MethodGet, "/api/v1/packages?sort=price_asc", "", "")
	s.Require().Equal(http.StatusOK, w.Code)
	ids := []int64{}
	for _, id := range gjson.Get(w.Body.String(), "data.#.id").Array() {
		ids = append(ids, id.Int())
	}
	s.Equal([]int64{3, 1, 2}, ids)
	s.Equal("Price: Low to High", gjson.Get(w.Body.String(), "sort.label").String())

	w = s.do(http.MethodGet, "/api/v1/packages?time=evening", "", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TestSuite) TestPackageDetailTransportError() {
	w := s.do(http.MethodGet, "/api/v1/packages/99", "", "")
	s.Equal(http.StatusBadGateway, w.Code)
	s.NotEmpty(gjson.Get(w.Body.String(), "error").String())

	w = s.do(http.MethodGet, "/api/v1/packages/1", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("temple-walk", gjson.Get(w.Body.String(), "data.slug").String())
}

func (s *TestSuite) TestCartCheckoutFlow() {
	w := s.do(http.MethodPost, "/api/v1/cart", "", `{"package_id":1}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	sid := w.Header().Get(middlewares.SessionHeader)

	w = s.do(http.MethodPost, "/api/v1/cart", sid, `{"package_id":1,"timeOfTour":"afternoon"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(int64(1), gjson.Get(w.Body.String(), "count").Int())
	s.Equal(int64(2), gjson.Get(w.Body.String(), "data.0.quantity").Int())
	s.Equal("morning", gjson.Get(w.Body.String(), "data.0.timeOfTour").String())
	s.Equal(6000.0, gjson.Get(w.Body.String(), "total").Float())

	w = s.do(http.MethodPost, "/api/v1/cart/checkout", sid, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("please login", gjson.Get(w.Body.String(), "error").String())
	s.Empty(s.submissions)

	w = s.do(http.MethodGet, "/api/v1/cart", sid, "")
	s.Equal(int64(1), gjson.Get(w.Body.String(), "count").Int())

	w = s.do(http.MethodPost, "/api/v1/auth/login", sid, `{"identifier":"ann","password":"secret"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/cart/checkout", sid, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(int64(42), gjson.Get(w.Body.String(), "data.history_id").Int())
	s.Require().Len(s.submissions, 1)
	sub := s.submissions[0]
	s.Equal("Temple walk (2)", gjson.Get(sub, "data.title").String())
	s.Equal(int64(2), gjson.Get(sub, "data.Number").Int())
	s.Equal(6000.0, gjson.Get(sub, "data.price").Float())
	s.Equal("halal", gjson.Get(sub, "data.special").String())
	s.Equal("ann", gjson.Get(sub, "data.username").String())

	w = s.do(http.MethodGet, "/api/v1/cart", sid, "")
	s.Equal(int64(0), gjson.Get(w.Body.String(), "count").Int())

	w = s.do(http.MethodPost, "/api/v1/cart/checkout", sid, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TestSuite) TestLogoutThenCheckout() {
	sid := s.login("ann")
	w := s.do(http.MethodPost, "/api/v1/cart", sid, `{"package_id":3}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/logout", sid, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.False(gjson.Get(w.Body.String(), "session.isLoggedIn").Bool())

	w = s.do(http.MethodPost, "/api/v1/cart/checkout", sid, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodGet, "/api/v1/cart", sid, "")
	s.Equal(int64(1), gjson.Get(w.Body.String(), "count").Int())
}

func (s *TestSuite) TestCartRemoveNeedsConfirmation() {
	w := s.do(http.MethodPost, "/api/v1/cart", "", `{"package_id":2}`)
	sid := w.Header().Get(middlewares.SessionHeader)

	w = s.do(http.MethodDelete, "/api/v1/cart/2", sid, "")
	s.Equal(http.StatusConflict, w.Code)
	w = s.do(http.MethodDelete, "/api/v1/cart/2?confirm=true", sid, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(0), gjson.Get(w.Body.String(), "count").Int())
	w = s.do(http.MethodDelete, "/api/v1/cart/2?confirm=true", sid, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TestSuite) TestPromptPayQRLeavesNoFile() {
	dir := s.T().TempDir()
	s.T().Setenv("TEMP_DIR", dir)
	s.T().Setenv("PROMPTPAY_ID", "0812345678")
	sid := s.login("ann")

	w := s.do(http.MethodGet, "/api/v1/payments/qr?amount=100", sid, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("image/jpeg", w.Header().Get("Content-Type"))
	s.True(strings.HasPrefix(w.Header().Get("X-PromptPay-Payload"), "000201"))
	s.NotZero(w.Body.Len())

	entries, err := os.ReadDir(dir)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *TestSuite) TestLoginFailure() {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"identifier":"nobody","password":"x"}`)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Fail to initiate login", gjson.Get(w.Body.String(), "error").String())
}

func (s *TestSuite) TestProfileValidation() {
	w := s.do(http.MethodPost, "/api/v1/profile/validate", "", `{"firstName":"Ann","lastName":"Lee","email":"ann.example.com","phonePrefix":"+66","phoneNumber":"81"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email must contain a single @", gjson.Get(w.Body.String(), "fields.email").String())
	s.False(gjson.Get(w.Body.String(), "fields.firstName").Exists())
}

func (s *TestSuite) TestAdminRoutes() {
	w := s.do(http.MethodGet, "/api/v1/admin/dashboard", "", "")
	s.Equal(http.StatusUnauthorized, w.Code)

	annSID := s.login("ann")
	w = s.do(http.MethodGet, "/api/v1/admin/dashboard", annSID, "")
	s.Equal(http.StatusForbidden, w.Code)

	sid := s.login("root")
	w = s.do(http.MethodGet, "/api/v1/admin/dashboard", sid, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(3000.0, gjson.Get(w.Body.String(), "data.totalEarnings").Float())
	s.Equal(int64(2), gjson.Get(w.Body.String(), "data.totalCustomers").Int())
	s.Equal("Temple walk", gjson.Get(w.Body.String(), "data.latestBookings.0.tour").String())

	w = s.do(http.MethodGet, "/api/v1/admin/packages/1/bookings", sid, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("ann", gjson.Get(w.Body.String(), "data.0.customerName").String())

	w = s.do(http.MethodPut, "/api/v1/admin/packages/1/bookings/5", sid, `{"status":"Refunded"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Zero(s.statusPuts)

	w = s.do(http.MethodPut, "/api/v1/admin/packages/1/bookings/5", sid, `{"status":"Approved"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Approved", gjson.Get(w.Body.String(), "data.status").String())
	s.Equal(s.cms.URL+"/uploads/slip.png", gjson.Get(w.Body.String(), "data.slipUrl").String())
	s.Equal(1, s.statusPuts)

	w = s.do(http.MethodGet, "/api/v1/admin/ratings", sid, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(int64(3), gjson.Get(w.Body.String(), "count").Int())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
