package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillswap-org/skillswap-backend/internal/repos"
	"github.com/skillswap-org/skillswap-backend/internal/services"
	"github.com/skillswap-org/skillswap-backend/internal/socket"
	"github.com/skillswap-org/skillswap-backend/internal/testutil"
	"github.com/skillswap-org/skillswap-backend/internal/types"
)

func newVideoFixture(t *testing.T) (*gorm.DB, services.VideoService, *fakeBucketService) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	bucket := newFakeBucketService()
	svc := services.NewVideoService(
		db, log,
		repos.NewVideoRepo(db, log),
		repos.NewProfileRepo(db, log),
		repos.NewTransactionRepo(db, log),
		bucket,
		socket.NewHub(log),
	)
	return db, svc, bucket
}

func seedVideo(t *testing.T, db *gorm.DB, creatorID uuid.UUID, cost int64) *types.Video {
	t.Helper()
	video := &types.Video{
		ID:          uuid.New(),
		CreatorID:   creatorID,
		Title:       "lesson",
		BucketKey:   "videos/seed",
		VideoURL:    "https://storage.example.test/videos/seed",
		CostCredits: cost,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func creditsOf(t *testing.T, db *gorm.DB, profileID uuid.UUID) int64 {
	t.Helper()
	var profile types.Profile
	require.NoError(t, db.Where("id = ?", profileID).First(&profile).Error)
	return profile.Credits
}

func TestUploadRequiresFile(t *testing.T) {
	db, svc, bucket := newVideoFixture(t)
	uploader := seedUserProfile(t, db, "uploader@example.com", "uploader", 0)

	_, err := svc.Upload(ctxForUser(uploader.ID, uploader.Email), services.UploadVideoInput{Title: "x"}, nil)
	require.ErrorIs(t, err, services.ErrNoFile)
	require.Empty(t, bucket.objects)
}

func TestUploadCreatesVideoAndAuthorship(t *testing.T) {
	db, svc, bucket := newVideoFixture(t)
	uploader := seedUserProfile(t, db, "maker@example.com", "maker", 0)

	file := makeFileHeader(t, "clip.mp4", []byte("fake video bytes"))
	video, err := svc.Upload(ctxForUser(uploader.ID, uploader.Email), services.UploadVideoInput{
		Title:       "  Intro to knots  ",
		Description: "basics",
		CostCredits: 3,
	}, file)
	require.NoError(t, err)
	require.Equal(t, "Intro to knots", video.Title)
	require.Equal(t, uploader.ID, video.CreatorID)
	require.Contains(t, bucket.objects, video.BucketKey)

	// exactly one zero-cost authorship row
	var txns []types.Transaction
	require.NoError(t, db.Where("video_id = ?", video.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	require.Equal(t, uploader.ID, txns[0].ViewerID)
	require.Equal(t, uploader.ID, txns[0].CreatorID)
	require.EqualValues(t, 0, txns[0].CreditsSpent)
}

func TestWatchTransfersCredits(t *testing.T) {
	db, svc, _ := newVideoFixture(t)
	creator := seedUserProfile(t, db, "creator@example.com", "creator", 0)
	viewer := seedUserProfile(t, db, "viewer@example.com", "viewer", 10)
	video := seedVideo(t, db, creator.ID, 4)

	result, err := svc.Watch(ctxForUser(viewer.ID, viewer.Email), video.ID)
	require.NoError(t, err)
	require.EqualValues(t, 4, result.CreditsSpent)
	require.Equal(t, video.VideoURL, result.Video.VideoURL)

	require.EqualValues(t, 6, creditsOf(t, db, viewer.ID))
	require.EqualValues(t, 4, creditsOf(t, db, creator.ID))

	var txns []types.Transaction
	require.NoError(t, db.Where("video_id = ? AND viewer_id = ?", video.ID, viewer.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	require.EqualValues(t, 4, txns[0].CreditsSpent)
}

func TestWatchInsufficientCredits(t *testing.T) {
	db, svc, _ := newVideoFixture(t)
	creator := seedUserProfile(t, db, "rich@example.com", "rich", 100)
	viewer := seedUserProfile(t, db, "broke@example.com", "broke", 2)
	video := seedVideo(t, db, creator.ID, 5)

	_, err := svc.Watch(ctxForUser(viewer.ID, viewer.Email), video.ID)
	require.ErrorIs(t, err, services.ErrNotEnoughCredits)

	// nothing moved, nothing recorded
	require.EqualValues(t, 2, creditsOf(t, db, viewer.ID))
	require.EqualValues(t, 100, creditsOf(t, db, creator.ID))
	var count int64
	require.NoError(t, db.Model(&types.Transaction{}).Where("video_id = ?", video.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestWatchFreeVideoStillRecords(t *testing.T) {
	db, svc, _ := newVideoFixture(t)
	creator := seedUserProfile(t, db, "free@example.com", "free", 0)
	viewer := seedUserProfile(t, db, "watcher@example.com", "watcher", 0)
	video := seedVideo(t, db, creator.ID, 0)

	result, err := svc.Watch(ctxForUser(viewer.ID, viewer.Email), video.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, result.CreditsSpent)

	var count int64
	require.NoError(t, db.Model(&types.Transaction{}).Where("video_id = ? AND viewer_id = ?", video.ID, viewer.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestWatchUnknownVideo(t *testing.T) {
	db, svc, _ := newVideoFixture(t)
	viewer := seedUserProfile(t, db, "lost@example.com", "lost", 5)

	_, err := svc.Watch(ctxForUser(viewer.ID, viewer.Email), uuid.New())
	require.ErrorIs(t, err, services.ErrVideoNotFound)
}

func TestListFeedNewestFirst(t *testing.T) {
	db, svc, _ := newVideoFixture(t)
	creator := seedUserProfile(t, db, "lister@example.com", "lister", 0)
	first := seedVideo(t, db, creator.ID, 1)
	second := seedVideo(t, db, creator.ID, 2)

	videos, err := svc.ListFeed(ctxForUser(creator.ID, creator.Email))
	require.NoError(t, err)
	require.Len(t, videos, 2)
	// both present; order is newest first
	ids := []uuid.UUID{videos[0].ID, videos[1].ID}
	require.Contains(t, ids, first.ID)
	require.Contains(t, ids, second.ID)
}
