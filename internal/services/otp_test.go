package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillswap-org/skillswap-backend/internal/repos"
	"github.com/skillswap-org/skillswap-backend/internal/services"
	"github.com/skillswap-org/skillswap-backend/internal/testutil"
	"github.com/skillswap-org/skillswap-backend/internal/types"
)

func newOtpFixture(t *testing.T) (*gorm.DB, services.OtpService, *fakeEmailService, *fakeTextService) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	log := testutil.NewTestLogger(t)
	email := &fakeEmailService{}
	text := &fakeTextService{}
	svc := services.NewOtpService(
		db, log,
		repos.NewOneTimeCodeRepo(db, log),
		repos.NewUserRepo(db, log),
		repos.NewProfileRepo(db, log),
		email, text,
	)
	return db, svc, email, text
}

func storedCode(t *testing.T, db *gorm.DB, email string) *types.OneTimeCode {
	t.Helper()
	var otc types.OneTimeCode
	err := db.Where("email = ?", email).First(&otc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &otc
}

func TestSendOtpStoresAndEmails(t *testing.T) {
	db, svc, email, _ := newOtpFixture(t)

	require.NoError(t, svc.SendOtp(context.Background(), "Alice@Example.com ", ""))

	otc := storedCode(t, db, "alice@example.com")
	require.NotNil(t, otc)
	require.Len(t, otc.Code, 6)
	require.Len(t, email.sent, 1)
	require.Equal(t, "alice@example.com", email.sent[0].To)
	require.Contains(t, email.sent[0].PlainText, otc.Code)

	// reissue overwrites, never duplicates
	require.NoError(t, svc.SendOtp(context.Background(), "alice@example.com", ""))
	var count int64
	require.NoError(t, db.Model(&types.OneTimeCode{}).Where("email = ?", "alice@example.com").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSendOtpRequiresEmail(t *testing.T) {
	_, svc, _, _ := newOtpFixture(t)
	err := svc.SendOtp(context.Background(), "   ", "")
	require.ErrorIs(t, err, services.ErrEmailRequired)
}

func TestSendOtpEmailFailureKeepsCode(t *testing.T) {
	db, svc, email, _ := newOtpFixture(t)
	email.fail = true

	err := svc.SendOtp(context.Background(), "bob@example.com", "")
	require.Error(t, err)

	// the stored code survives; the next send overwrites it
	require.NotNil(t, storedCode(t, db, "bob@example.com"))
}

func TestSendOtpSmsFailureIsNonFatal(t *testing.T) {
	_, svc, email, text := newOtpFixture(t)
	text.fail = true

	require.NoError(t, svc.SendOtp(context.Background(), "carol@example.com", "+15550001111"))
	require.Len(t, email.sent, 1)
}

func TestVerifyOtpMissingFields(t *testing.T) {
	_, svc, _, _ := newOtpFixture(t)
	_, err := svc.VerifyOtp(context.Background(), "dan@example.com", "123456", "", "Dan", "dan")
	require.ErrorIs(t, err, services.ErrMissingFields)
}

func TestVerifyOtpNotFound(t *testing.T) {
	_, svc, _, _ := newOtpFixture(t)
	_, err := svc.VerifyOtp(context.Background(), "ghost@example.com", "123456", "pw", "Ghost", "ghost")
	require.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestVerifyOtpHappyPath(t *testing.T) {
	db, svc, _, _ := newOtpFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SendOtp(ctx, "eve@example.com", ""))
	otc := storedCode(t, db, "eve@example.com")
	require.NotNil(t, otc)

	user, err := svc.VerifyOtp(ctx, "eve@example.com", otc.Code, "secret", "Eve Adams", "eve")
	require.NoError(t, err)
	require.True(t, user.EmailVerified)
	require.Equal(t, "eve@example.com", user.Email)

	// profile provisioned with zero credits
	var profile types.Profile
	require.NoError(t, db.Where("id = ?", user.ID).First(&profile).Error)
	require.EqualValues(t, 0, profile.Credits)
	require.Equal(t, "eve", profile.Username)

	// code consumed exactly once
	require.Nil(t, storedCode(t, db, "eve@example.com"))
	_, err = svc.VerifyOtp(ctx, "eve@example.com", otc.Code, "secret", "Eve Adams", "eve")
	require.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestVerifyOtpWrongCodeConsumes(t *testing.T) {
	db, svc, _, _ := newOtpFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SendOtp(ctx, "frank@example.com", ""))

	_, err := svc.VerifyOtp(ctx, "frank@example.com", "000000", "pw", "Frank", "frank")
	require.ErrorIs(t, err, services.ErrOtpInvalid)

	// the failed attempt burned the code
	require.Nil(t, storedCode(t, db, "frank@example.com"))
	_, err = svc.VerifyOtp(ctx, "frank@example.com", "000000", "pw", "Frank", "frank")
	require.ErrorIs(t, err, services.ErrOtpNotFound)

	// no account was provisioned
	var count int64
	require.NoError(t, db.Model(&types.User{}).Where("email = ?", "frank@example.com").Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestVerifyOtpReissueInvalidatesPriorCode(t *testing.T) {
	db, svc, _, _ := newOtpFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.SendOtp(ctx, "iris@example.com", ""))
	first := storedCode(t, db, "iris@example.com")
	require.NotNil(t, first)

	require.NoError(t, svc.SendOtp(ctx, "iris@example.com", ""))
	second := storedCode(t, db, "iris@example.com")
	require.NotNil(t, second)
	require.NotEqual(t, first.Code, second.Code)

	// the superseded code no longer verifies and the attempt burns the row
	_, err := svc.VerifyOtp(ctx, "iris@example.com", first.Code, "pw", "Iris", "iris")
	require.ErrorIs(t, err, services.ErrOtpInvalid)
	require.Nil(t, storedCode(t, db, "iris@example.com"))
}

func TestVerifyOtpExpired(t *testing.T) {
	db, svc, _, _ := newOtpFixture(t)
	ctx := context.Background()

	otc := &types.OneTimeCode{
		ID:       uuid.New(),
		Email:    "gina@example.com",
		Code:     "123456",
		IssuedAt: time.Now().Add(-11 * time.Minute),
	}
	require.NoError(t, db.Create(otc).Error)

	_, err := svc.VerifyOtp(ctx, "gina@example.com", "123456", "pw", "Gina", "gina")
	require.ErrorIs(t, err, services.ErrOtpInvalid)
	require.Nil(t, storedCode(t, db, "gina@example.com"))
}

func TestVerifyOtpLinkingPreservesCredits(t *testing.T) {
	db, svc, _, _ := newOtpFixture(t)
	ctx := context.Background()

	existing := seedUserProfile(t, db, "hank@example.com", "hank", 42)

	require.NoError(t, svc.SendOtp(ctx, "hank@example.com", ""))
	otc := storedCode(t, db, "hank@example.com")
	require.NotNil(t, otc)

	user, err := svc.VerifyOtp(ctx, "hank@example.com", otc.Code, "newpw", "Hank", "hank")
	require.NoError(t, err)
	require.Equal(t, existing.ID, user.ID)

	var profile types.Profile
	require.NoError(t, db.Where("id = ?", existing.ID).First(&profile).Error)
	require.EqualValues(t, 42, profile.Credits)
}
