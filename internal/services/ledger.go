package services

import (
  "bytes"
  "context"
  "encoding/csv"
  "fmt"
  "strconv"
  "time"

  "github.com/google/uuid"
  "github.com/xuri/excelize/v2"
  "gorm.io/gorm"

  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/requestdata"
  "github.com/skillswap-org/skillswap-backend/internal/types"
)

type LedgerRole string

const (
  LedgerRoleAll     LedgerRole = "all"
  LedgerRoleViewer  LedgerRole = "viewer"
  LedgerRoleCreator LedgerRole = "creator"
)

type LedgerEntry struct {
  ID           uuid.UUID `json:"id"`
  VideoID      uuid.UUID `json:"videoId"`
  VideoTitle   string    `json:"videoTitle"`
  Role         string    `json:"role"`
  CreditsSpent int64     `json:"creditsSpent"`
  CreatedAt    time.Time `json:"createdAt"`
}

type LedgerPage struct {
  Entries     []LedgerEntry `json:"entries"`
  Page        int           `json:"page"`
  PageSize    int           `json:"pageSize"`
  Total       int           `json:"total"`
  TotalSpent  int64         `json:"totalSpent"`
  TotalEarned int64         `json:"totalEarned"`
}

type LedgerService interface {
  List(ctx context.Context, role LedgerRole, page, pageSize int) (LedgerPage, error)
  ExportCSV(ctx context.Context, role LedgerRole) ([]byte, error)
  ExportXLSX(ctx context.Context, role LedgerRole) ([]byte, error)
}

type ledgerService struct {
  db              *gorm.DB
  log             *logger.Logger
  transactionRepo repos.TransactionRepo
}

func NewLedgerService(db *gorm.DB, log *logger.Logger, transactionRepo repos.TransactionRepo) LedgerService {
  serviceLog := log.With("service", "LedgerService")
  return &ledgerService{
    db:              db,
    log:             serviceLog,
    transactionRepo: transactionRepo,
  }
}

func (ls *ledgerService) List(ctx context.Context, role LedgerRole, page, pageSize int) (LedgerPage, error) {
  ls.log.Info("Starting List now...", "role", role, "page", page, "pageSize", pageSize)

  entries, totalSpent, totalEarned, err := ls.loadFiltered(ctx, role)
  if err != nil {
    return LedgerPage{}, err
  }

  if page < 1 {
    page = 1
  }
  if pageSize < 1 {
    pageSize = 50
  }
  total := len(entries)
  start := (page - 1) * pageSize
  if start > total {
    start = total
  }
  end := start + pageSize
  if end > total {
    end = total
  }

  return LedgerPage{
    Entries:     entries[start:end],
    Page:        page,
    PageSize:    pageSize,
    Total:       total,
    TotalSpent:  totalSpent,
    TotalEarned: totalEarned,
  }, nil
}

func (ls *ledgerService) ExportCSV(ctx context.Context, role LedgerRole) ([]byte, error) {
  ls.log.Info("Starting ExportCSV now...", "role", role)

  entries, _, _, err := ls.loadFiltered(ctx, role)
  if err != nil {
    return nil, err
  }

  var buf bytes.Buffer
  w := csv.NewWriter(&buf)
  if err := w.Write([]string{"Date", "Video", "Role", "Credits"}); err != nil {
    return nil, fmt.Errorf("failed to write CSV header: %w", err)
  }
  for _, e := range entries {
    record := []string{
      e.CreatedAt.Format(time.RFC3339),
      e.VideoTitle,
      e.Role,
      strconv.FormatInt(e.CreditsSpent, 10),
    }
    if err := w.Write(record); err != nil {
      return nil, fmt.Errorf("failed to write CSV record: %w", err)
    }
  }
  w.Flush()
  if err := w.Error(); err != nil {
    return nil, fmt.Errorf("failed to flush CSV: %w", err)
  }
  return buf.Bytes(), nil
}

func (ls *ledgerService) ExportXLSX(ctx context.Context, role LedgerRole) ([]byte, error) {
  ls.log.Info("Starting ExportXLSX now...", "role", role)

  entries, _, _, err := ls.loadFiltered(ctx, role)
  if err != nil {
    return nil, err
  }

  f := excelize.NewFile()
  defer f.Close()
  sheet := "Transactions"
  if err := f.SetSheetName("Sheet1", sheet); err != nil {
    return nil, fmt.Errorf("failed to name sheet: %w", err)
  }
  if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", "Video", "Role", "Credits"}); err != nil {
    return nil, fmt.Errorf("failed to write XLSX header: %w", err)
  }
  for i, e := range entries {
    cell := fmt.Sprintf("A%d", i+2)
    row := []interface{}{
      e.CreatedAt.Format(time.RFC3339),
      e.VideoTitle,
      e.Role,
      e.CreditsSpent,
    }
    if err := f.SetSheetRow(sheet, cell, &row); err != nil {
      return nil, fmt.Errorf("failed to write XLSX row: %w", err)
    }
  }
  var buf bytes.Buffer
  if err := f.Write(&buf); err != nil {
    return nil, fmt.Errorf("failed to write XLSX: %w", err)
  }
  return buf.Bytes(), nil
}

// loadFiltered pulls the caller's rows, applies the role filter, and computes
// totals over the filtered set.
func (ls *ledgerService) loadFiltered(ctx context.Context, role LedgerRole) ([]LedgerEntry, int64, int64, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ls.log.Warn("Request Data is not set in context, Cannot proceed.")
    return nil, 0, 0, fmt.Errorf("request data is not set in context")
  }
  if role == "" {
    role = LedgerRoleAll
  }
  if role != LedgerRoleAll && role != LedgerRoleViewer && role != LedgerRoleCreator {
    return nil, 0, 0, fmt.Errorf("invalid role filter: %q", role)
  }

  txns, err := ls.transactionRepo.ListForUser(ctx, nil, rd.UserID)
  if err != nil {
    ls.log.Warn("Failed to list transactions, Cannot proceed. Returning error.", "error", err)
    return nil, 0, 0, err
  }

  var entries []LedgerEntry
  var totalSpent, totalEarned int64
  for _, t := range txns {
    entryRole := entryRoleFor(&t, rd.UserID)
    if role == LedgerRoleViewer && entryRole != string(LedgerRoleViewer) {
      continue
    }
    if role == LedgerRoleCreator && entryRole != string(LedgerRoleCreator) {
      continue
    }
    if t.ViewerID == rd.UserID {
      totalSpent += t.CreditsSpent
    }
    if t.CreatorID == rd.UserID {
      totalEarned += t.CreditsSpent
    }
    title := ""
    if t.Video != nil {
      title = t.Video.Title
    }
    entries = append(entries, LedgerEntry{
      ID:           t.ID,
      VideoID:      t.VideoID,
      VideoTitle:   title,
      Role:         entryRole,
      CreditsSpent: t.CreditsSpent,
      CreatedAt:    t.CreatedAt,
    })
  }
  return entries, totalSpent, totalEarned, nil
}

// entryRoleFor labels the row from the caller's perspective. A self watch or
// an authorship row counts as creator.
func entryRoleFor(t *types.Transaction, userID uuid.UUID) string {
  if t.CreatorID == userID {
    return string(LedgerRoleCreator)
  }
  return string(LedgerRoleViewer)
}
