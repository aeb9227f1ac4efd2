package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillswap-org/skillswap-backend/internal/requestdata"
	"github.com/skillswap-org/skillswap-backend/internal/types"
)

type sentEmail struct {
	To        string
	Subject   string
	PlainText string
	HTML      string
	EmailType string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (f *fakeEmailService) SendEmail(ctx context.Context, toEmail, subject, plainText, htmlContent, emailType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, sentEmail{To: toEmail, Subject: subject, PlainText: plainText, HTML: htmlContent, EmailType: emailType})
	return nil
}

type fakeTextService struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeTextService) SendText(ctx context.Context, toNumber, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("sms unavailable")
	}
	f.sent = append(f.sent, toNumber)
	return nil
}

type fakeBucketService struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	fail    bool
}

func newFakeBucketService() *fakeBucketService {
	return &fakeBucketService{objects: make(map[string][]byte)}
}

func (f *fakeBucketService) UploadFile(ctx context.Context, tx *gorm.DB, key string, r io.Reader, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("bucket unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBucketService) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBucketService) GetPublicURL(key string) string {
	return "https://storage.example.test/" + key
}

// ctxForUser builds the authenticated request context the services expect.
func ctxForUser(userID uuid.UUID, email string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Email:  email,
	})
}

// seedUserProfile inserts a user plus its profile with the given balance.
func seedUserProfile(t *testing.T, db *gorm.DB, email, username string, credits int64) *types.Profile {
	t.Helper()
	user := &types.User{
		ID:            uuid.New(),
		Email:         email,
		Password:      "x",
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	profile := &types.Profile{
		ID:       user.ID,
		Email:    email,
		Name:     username,
		Username: username,
		Credits:  credits,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

// makeFileHeader builds a real multipart.FileHeader around the given bytes.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "application/octet-stream")
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file header, got %d", len(files))
	}
	return files[0]
}
