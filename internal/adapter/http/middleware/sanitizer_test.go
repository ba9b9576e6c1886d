package middleware

import (
"encoding/json"
"io"
"net/http"
"net/http/httptest"
"strings"
"testing"

"presale-backend/internal/adapter/http/dto"

"github.com/gin-gonic/gin"
"github.com/stretchr/testify/assert"
"github.com/stretchr/testify/require"
)

func init() {
gin.SetMode(gin.TestMode)
}

const purchaseBody = `{"token_symbol":"GNF10","amount":"20","token_amount_wei":"100000000000000000000","payment_tx_hash":"0x` +
"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" + `"}`

// purchaseRouter binds the body the way the purchase handler does.
func purchaseRouter(limit int64) *gin.Engine {
r := gin.New()
r.Use(MaxBodySize(limit))
r.POST("/api/v1/purchases", func(c *gin.Context) {
var req dto.PurchaseRequest
if err := c.ShouldBindJSON(&req); err != nil {
c.String(http.StatusBadRequest, err.Error())
return
}
c.String(http.StatusOK, req.TokenSymbol)
})
return r
}

func TestMaxBodySize_PurchaseWithinLimit(t *testing.T) {
w := httptest.NewRecorder()
r := purchaseRouter(1 << 10)
r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/purchases", strings.NewReader(purchaseBody)))

assert.Equal(t, http.StatusOK, w.Code)
assert.Equal(t, "GNF10", w.Body.String())
}

func TestMaxBodySize_ExactLimit(t *testing.T) {
w := httptest.NewRecorder()
r := purchaseRouter(int64(len(purchaseBody)))
r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/purchases", strings.NewReader(purchaseBody)))

assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaxBodySize_DeclaredLengthRefused(t *testing.T) {
r := gin.New()
r.Use(MaxBodySize(64))
r.POST("/api/v1/purchases", func(c *gin.Context) {
t.Fatal("handler must not run")
})

w := httptest.NewRecorder()
r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/purchases", strings.NewReader(purchaseBody)))

require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
var resp map[string]interface{}
require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
assert.Equal(t, "VAL_001", resp["error_code"])
}

func TestMaxBodySize_UndeclaredLengthFailsBinding(t *testing.T) {
req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", io.NopCloser(strings.NewReader(purchaseBody)))
req.ContentLength = -1

w := httptest.NewRecorder()
purchaseRouter(64).ServeHTTP(w, req)

assert.Equal(t, http.StatusBadRequest, w.Code)
assert.Contains(t, w.Body.String(), "too large")
}

func TestMaxBodySize_GetWithoutBody(t *testing.T) {
r := gin.New()
r.Use(MaxBodySize(16))
r.GET("/api/v1/tokens", func(c *gin.Context) {
c.String(http.StatusOK, "ok")
})

w := httptest.NewRecorder()
r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tokens", nil))

assert.Equal(t, http.StatusOK, w.Code)
}
