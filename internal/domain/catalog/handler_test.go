package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	h := Handlers{
		Categories: NewNamedHandler(NewCategoryService(db)),
		Locations:  NewNamedHandler(NewLocationService(db)),
		Stores:     NewNamedHandler(NewStoreService(db)),
		Units:      NewNamedHandler(NewUnitService(db)),
		Products:   NewProductHandler(NewProductService(db)),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(42))
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_NamedEndpoints(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/stores", map[string]string{"name": "Market"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Data Store `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/stores", map[string]string{"name": "Market"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "NAME_TAKEN")

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/stores", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/stores", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Market")

	rr = doJSONRequest(r, http.MethodPut, "/api/v1/stores/abc", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/stores/9999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Products(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/products", map[string]any{"name": "Milk", "categoryId": 77})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REFERENCE")

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/products", map[string]any{"name": "Milk"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/products?q=mil", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list struct {
		Data struct {
			Products   []Product      `json:"products"`
			Pagination map[string]any `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Data.Products, 1)
	assert.EqualValues(t, 1, list.Data.Pagination["total"])

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/products/_search?q=MIL&take=5", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Milk")
}
