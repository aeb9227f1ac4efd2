package handlers

import (
  "fmt"
  "net/http"
  "strconv"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/skillswap-org/skillswap-backend/internal/services"
)

type TransactionHandler struct {
  ledgerService services.LedgerService
}

func NewTransactionHandler(ledgerService services.LedgerService) *TransactionHandler {
  return &TransactionHandler{ledgerService: ledgerService}
}

func (th *TransactionHandler) List(c *gin.Context) {
  role := services.LedgerRole(c.DefaultQuery("role", "all"))
  page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
    return
  }
  pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be an integer"})
    return
  }

  result, err := th.ledgerService.List(c.Request.Context(), role, page, pageSize)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, result)
}

func (th *TransactionHandler) Export(c *gin.Context) {
  role := services.LedgerRole(c.DefaultQuery("role", "all"))
  format := c.DefaultQuery("format", "csv")

  filename := fmt.Sprintf("transactions-%s", time.Now().Format("2006-01-02"))
  switch format {
  case "csv":
    data, err := th.ledgerService.ExportCSV(c.Request.Context(), role)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
      return
    }
    c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
    c.Data(http.StatusOK, "text/csv", data)
  case "xlsx":
    data, err := th.ledgerService.ExportXLSX(c.Request.Context(), role)
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
      return
    }
    c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
    c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
  default:
    c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
  }
}
