package services_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/skillswap-org/skillswap-backend/internal/repos"
	"github.com/skillswap-org/skillswap-backend/internal/services"
	"github.com/skillswap-org/skillswap-backend/internal/testutil"
	"github.com/skillswap-org/skillswap-backend/internal/types"
)

func newLedgerFixture(t *testing.T) (*gorm.DB, services.LedgerService) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	svc := services.NewLedgerService(db, log, repos.NewTransactionRepo(db, log))
	return db, svc
}

// seedLedger builds a creator, a viewer, one video, and two rows: the
// creator's authorship row and the viewer's paid watch.
func seedLedger(t *testing.T, db *gorm.DB) (creator, viewer *types.Profile, video *types.Video) {
	t.Helper()
	creator = seedUserProfile(t, db, "author@example.com", "author", 0)
	viewer = seedUserProfile(t, db, "fan@example.com", "fan", 0)
	video = seedVideo(t, db, creator.ID, 7)

	authorship := &types.Transaction{
		ID:           uuid.New(),
		VideoID:      video.ID,
		ViewerID:     creator.ID,
		CreatorID:    creator.ID,
		CreditsSpent: 0,
	}
	require.NoError(t, db.Create(authorship).Error)

	watch := &types.Transaction{
		ID:           uuid.New(),
		VideoID:      video.ID,
		ViewerID:     viewer.ID,
		CreatorID:    creator.ID,
		CreditsSpent: 7,
	}
	require.NoError(t, db.Create(watch).Error)
	return creator, viewer, video
}

func TestLedgerListTotals(t *testing.T) {
	db, svc := newLedgerFixture(t)
	creator, viewer, _ := seedLedger(t, db)

	// viewer side: one spend of 7
	page, err := svc.List(ctxForUser(viewer.ID, viewer.Email), services.LedgerRoleAll, 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.EqualValues(t, 7, page.TotalSpent)
	require.EqualValues(t, 0, page.TotalEarned)
	require.Equal(t, "viewer", page.Entries[0].Role)
	require.Equal(t, "lesson", page.Entries[0].VideoTitle)

	// creator side: the watch earned 7, the authorship row earned 0
	page, err = svc.List(ctxForUser(creator.ID, creator.Email), services.LedgerRoleAll, 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	require.EqualValues(t, 0, page.TotalSpent)
	require.EqualValues(t, 7, page.TotalEarned)
}

func TestLedgerRoleFilter(t *testing.T) {
	db, svc := newLedgerFixture(t)
	creator, _, _ := seedLedger(t, db)

	page, err := svc.List(ctxForUser(creator.ID, creator.Email), services.LedgerRoleCreator, 1, 50)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	for _, e := range page.Entries {
		require.Equal(t, "creator", e.Role)
	}

	page, err = svc.List(ctxForUser(creator.ID, creator.Email), services.LedgerRoleViewer, 1, 50)
	require.NoError(t, err)
	require.Empty(t, page.Entries)
}

func TestLedgerInvalidRole(t *testing.T) {
	db, svc := newLedgerFixture(t)
	_, viewer, _ := seedLedger(t, db)

	_, err := svc.List(ctxForUser(viewer.ID, viewer.Email), services.LedgerRole("bogus"), 1, 50)
	require.Error(t, err)
}

func TestLedgerPagination(t *testing.T) {
	db, svc := newLedgerFixture(t)
	creator, _, _ := seedLedger(t, db)

	page, err := svc.List(ctxForUser(creator.ID, creator.Email), services.LedgerRoleAll, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	require.Equal(t, 2, page.Total)

	page, err = svc.List(ctxForUser(creator.ID, creator.Email), services.LedgerRoleAll, 3, 1)
	require.NoError(t, err)
	require.Empty(t, page.Entries)
	require.Equal(t, 2, page.Total)
}

func TestLedgerExportCSV(t *testing.T) {
	db, svc := newLedgerFixture(t)
	_, viewer, _ := seedLedger(t, db)

	data, err := svc.ExportCSV(ctxForUser(viewer.ID, viewer.Email), services.LedgerRoleAll)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{"Date", "Video", "Role", "Credits"}, records[0])
	require.Equal(t, "lesson", records[1][1])
	require.Equal(t, "viewer", records[1][2])
	require.Equal(t, "7", records[1][3])
}

func TestLedgerExportXLSX(t *testing.T) {
	db, svc := newLedgerFixture(t)
	_, viewer, _ := seedLedger(t, db)

	data, err := svc.ExportXLSX(ctxForUser(viewer.ID, viewer.Email), services.LedgerRoleAll)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"Date", "Video", "Role", "Credits"}, rows[0])
	require.Equal(t, "lesson", rows[1][1])
}
