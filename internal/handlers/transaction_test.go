package handlers_test

import (
  "context"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/require"

  "github.com/skillswap-org/skillswap-backend/internal/handlers"
  "github.com/skillswap-org/skillswap-backend/internal/services"
)

type fakeLedgerService struct {
  page services.LedgerPage
}

func (f *fakeLedgerService) List(ctx context.Context, role services.LedgerRole, page, pageSize int) (services.LedgerPage, error) {
  return f.page, nil
}

func (f *fakeLedgerService) ExportCSV(ctx context.Context, role services.LedgerRole) ([]byte, error) {
  return []byte("Date,Video,Role,Credits\n"), nil
}

func (f *fakeLedgerService) ExportXLSX(ctx context.Context, role services.LedgerRole) ([]byte, error) {
  return []byte{0x50, 0x4b}, nil
}

func listRequest(t *testing.T, query string) *httptest.ResponseRecorder {
  t.Helper()
  gin.SetMode(gin.TestMode)
  handler := handlers.NewTransactionHandler(&fakeLedgerService{})

  w := httptest.NewRecorder()
  c, _ := gin.CreateTestContext(w)
  c.Request = httptest.NewRequest(http.MethodGet, "/api/transactions"+query, nil)
  handler.List(c)
  return w
}

func TestListRejectsMalformedPage(t *testing.T) {
  w := listRequest(t, "?page=abc")
  require.Equal(t, http.StatusBadRequest, w.Code)
  require.Contains(t, w.Body.String(), "page must be an integer")
}

func TestListRejectsMalformedPageSize(t *testing.T) {
  w := listRequest(t, "?pageSize=xyz")
  require.Equal(t, http.StatusBadRequest, w.Code)
  require.Contains(t, w.Body.String(), "pageSize must be an integer")
}

func TestListAcceptsNumericPaging(t *testing.T) {
  w := listRequest(t, "?page=2&pageSize=10")
  require.Equal(t, http.StatusOK, w.Code)
}
