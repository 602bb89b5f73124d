package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesseract-hub/listing-service/internal/services"
	"github.com/tesseract-hub/listing-service/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func filtersContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/properties?"+rawQuery, nil)
	return c
}

func TestParseFilters(t *testing.T) {
	c := filtersContext(t, "type=villa&listing_type=sale&min_price=100000&max_price=500000&bedrooms=3&bathrooms=2&city=Alicante&search=pool&sort_by=price&sort_order=asc&limit=10&offset=5")

	f := parseFilters(c)
	assert.Equal(t, "villa", f.Type)
	assert.Equal(t, "sale", f.ListingType)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, 100000.0, *f.MinPrice)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 500000.0, *f.MaxPrice)
	require.NotNil(t, f.MinBedrooms)
	assert.Equal(t, 3, *f.MinBedrooms)
	require.NotNil(t, f.MinBathrooms)
	assert.Equal(t, 2, *f.MinBathrooms)
	assert.Equal(t, "Alicante", f.City)
	assert.Equal(t, "pool", f.Search)
	assert.Equal(t, "price", f.SortBy)
	assert.Equal(t, "asc", f.SortOrder)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 5, f.Offset)
}

func TestParseFiltersIgnoresMalformedNumbers(t *testing.T) {
	c := filtersContext(t, "min_price=cheap&bedrooms=many&limit=")

	f := parseFilters(c)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MinBedrooms)
	assert.Zero(t, f.Limit)
}

func testRouter() *gin.Engine {
	logger := testLogger()
	store := memory.NewStore(memory.WithSeedData())

	propertyService := services.NewPropertyService(store, nil, nil, logger)
	customerService := services.NewCustomerService(store, nil, logger)
	userService := services.NewUserService(store, logger)
	waveService := services.NewWaveService(store, logger)

	propertyHandlers := NewPropertyHandlers(propertyService, logger)
	customerHandlers := NewCustomerHandlers(customerService, logger)
	adminHandlers := NewAdminHandlers(userService, waveService, propertyService, logger)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/properties", propertyHandlers.ListProperties)
	v1.GET("/properties/:id", propertyHandlers.GetProperty)
	v1.POST("/properties", propertyHandlers.CreateProperty)
	v1.GET("/customers/:user_id/points", customerHandlers.GetPoints)
	v1.GET("/users/:id/wave-quota", adminHandlers.GetWaveQuota)
	v1.DELETE("/admin/properties", adminHandlers.ClearAllProperties)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListPropertiesEndpoint(t *testing.T) {
	router := testRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/properties?max_price=250000", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
}

func TestGetPropertyEndpoint(t *testing.T) {
	router := testRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/properties/prop-villa-alicante", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "prop-villa-alicante", body["id"])
	assert.NotNil(t, body["agent"])
	assert.NotNil(t, body["customer_contact"])

	w = doRequest(router, http.MethodGet, "/api/v1/properties/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePropertyQuotaConflict(t *testing.T) {
	router := testRouter()

	payload := `{"title":"Waved","price":"100000","agent_id":"user-agent-marco","wave_id":"wave-summer"}`
	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodPost, "/api/v1/properties", payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doRequest(router, http.MethodPost, "/api/v1/properties", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["wave_balance"])
}

func TestWaveQuotaEndpoint(t *testing.T) {
	router := testRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/users/user-agent-elena/wave-quota", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["wave_balance"])
	assert.Equal(t, float64(1), body["usage"])
	assert.Equal(t, float64(9), body["remaining"])

	w = doRequest(router, http.MethodGet, "/api/v1/users/nobody/wave-quota", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearAllPropertiesEndpoint(t *testing.T) {
	router := testRouter()

	w := doRequest(router, http.MethodDelete, "/api/v1/admin/properties", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["deleted"])
}

func TestCustomerPointsEndpoint(t *testing.T) {
	router := testRouter()

	w := doRequest(router, http.MethodGet, "/api/v1/customers/user-customer-dana/points", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(40), body["total_points"])
	assert.Equal(t, "Bronze", body["current_level"])

	w = doRequest(router, http.MethodGet, "/api/v1/customers/nobody/points", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
