package service_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamP528/RentManagement-frontend/internal/apitest"
	"github.com/ShubhamP528/RentManagement-frontend/internal/gateway"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/service"
	"github.com/ShubhamP528/RentManagement-frontend/internal/tokenstore"
)

type harness struct {
	api    *apitest.Server
	tokens *tokenstore.Store
	svc    *service.Services
}

// newHarness returns services signed in as alice.
func newHarness(t *testing.T) *harness {
	t.Helper()
	api := apitest.New(t)
	api.AddOwner("alice", "pw123")

	tokens := tokenstore.NewStore(tokenstore.NewMemory())
	gw := gateway.New(api.URL, 5*time.Second, tokens, nil)
	svc := service.New(gw, api.URL+"/app-version", "1.0.0")

	resp, err := svc.Auth.Login(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	require.NoError(t, tokens.Set(context.Background(), resp.Token))

	return &harness{api: api, tokens: tokens, svc: svc}
}

func TestAuthLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.svc.Auth.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.NotEmpty(t, resp.Token)

	_, err = h.svc.Auth.Login(ctx, "alice", "wrong")
	assert.True(t, errors.Is(err, model.ErrInvalidCredentials))
	assert.Equal(t, http.StatusUnauthorized, model.StatusOf(err))

	_, err = h.svc.Auth.Login(ctx, "  ", "pw123")
	assert.ErrorIs(t, err, model.ErrMissingCredentials)
	// harness login, good login, bad login; the empty username never left the client
	assert.Equal(t, 3, h.api.Hits("POST /owner/auth/login"))
}

func TestAuthVerify(t *testing.T) {
	h := newHarness(t)

	resp, err := h.svc.Auth.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	require.NoError(t, h.tokens.Clear(context.Background()))
	_, err = h.svc.Auth.Verify(context.Background())
	assert.Equal(t, http.StatusUnauthorized, model.StatusOf(err))
}

func TestPropertiesAndRooms(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Properties.Add(ctx, "", model.Address{})
	assert.ErrorIs(t, err, model.ErrPropertyNameRequired)

	p, err := h.svc.Properties.Add(ctx, "Green Villa", model.Address{City: "Pune", Pincode: "411001"})
	require.NoError(t, err)
	assert.Equal(t, "Green Villa", p.Name)

	room, err := h.svc.Properties.AddRoom(ctx, p.ID, "101")
	require.NoError(t, err)
	assert.Equal(t, "101", room.Name)

	_, err = h.svc.Properties.AddRoom(ctx, p.ID, " ")
	assert.ErrorIs(t, err, model.ErrRoomNameRequired)

	list, err := h.svc.Properties.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{room.ID}, list[0].RoomIDs)
	assert.Empty(t, list[0].Rooms, "list endpoint returns room ids only")

	detail, err := h.svc.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Rooms, 1)
	assert.Equal(t, "101", detail.Rooms[0].Name)
	assert.Equal(t, "Pune", detail.Address.City)

	_, err = h.svc.Properties.Get(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, model.StatusOf(err))
}

func TestTenantsAndPayments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	prop := h.api.SeedProperty("Green Villa", "101")
	roomID := prop.RoomIDs[0]

	tenant, err := h.svc.Tenants.Add(ctx, roomID, model.AddTenantRequest{
		StartDate:      "2024-01-01",
		Rent:           "5000",
		InitialReading: "120",
		Persons:        []model.Person{{Name: "Ravi", IsHead: true, PhoneNumber: "9999999999"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, tenant.Rent)
	require.NotNil(t, tenant.HeadPerson)
	assert.Equal(t, "Ravi", tenant.HeadPerson.Name)

	tenants, err := h.svc.Properties.RoomTenants(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.True(t, tenants[0].Active())

	req, err := model.NewPaymentRequest(roomID, tenant.ID, "Cash", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 5000, 120, 150)
	require.NoError(t, err)
	assert.Equal(t, 30.0, req.BuildReading)
	assert.Equal(t, 180.0, req.Bill)
	assert.Equal(t, "2024-02-01", req.DOP)

	payment, err := h.svc.Payments.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 5180.0, payment.TotalAmount)

	txs, err := h.svc.Tenants.Transactions(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.PaymentStatusPaid, txs[0].Status)

	require.NoError(t, h.svc.Tenants.Remove(ctx, roomID, tenant.ID, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	tenants, err = h.svc.Properties.RoomTenants(ctx, roomID)
	require.NoError(t, err)
	assert.False(t, tenants[0].Active())
	assert.Equal(t, "2024-03-31", *tenants[0].EndDate)

	assert.ErrorIs(t, h.svc.Tenants.Remove(ctx, roomID, "", time.Now()), service.ErrTenantRequired)
}

func TestPaymentRejectsDecreasingReading(t *testing.T) {
	_, err := model.NewPaymentRequest("r1", "t1", "UPI", time.Now(), 5000, 150, 120)
	assert.ErrorIs(t, err, model.ErrReadingDecreased)

	_, err = model.NewPaymentRequest("", "t1", "UPI", time.Now(), 5000, 1, 2)
	assert.ErrorIs(t, err, model.ErrPaymentTarget)

	h := newHarness(t)
	_, err = h.svc.Payments.Add(context.Background(), model.PaymentRequest{Room: "r1", Tenant: "t1", PreviousReading: 10, CurrentReading: 5})
	assert.ErrorIs(t, err, model.ErrReadingDecreased)
}

func pngPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDocumentUploadDownscalesPhotos(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	doc, err := h.svc.Documents.Upload(ctx, "t1", service.Upload{
		Name:     "Aadhaar",
		FileName: "aadhaar.png",
		Content:  bytes.NewReader(pngPhoto(t, 2048, 1536)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aadhaar", doc.Name)

	up := h.api.LastUpload()
	require.NotNil(t, up)
	assert.Equal(t, model.ContentTypeJPEG, up.ContentType)
	assert.Equal(t, "aadhaar.jpg", up.FileName)
	assert.Equal(t, 1024, up.Width)
	assert.Equal(t, 768, up.Height)

	docs, err := h.svc.Documents.List(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, h.svc.Documents.Delete(ctx, "t1", docs[0].ID))
	docs, err = h.svc.Documents.List(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentUploadSmallPhotoKeepsSize(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Documents.Upload(context.Background(), "t1", service.Upload{
		Name:    "Photo",
		Content: bytes.NewReader(pngPhoto(t, 300, 200)),
	})
	require.NoError(t, err)

	up := h.api.LastUpload()
	assert.Equal(t, 300, up.Width)
	assert.Equal(t, 200, up.Height)
}

func TestDocumentUploadValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Documents.Upload(ctx, "t1", service.Upload{Name: "", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, model.ErrDocumentNameRequired)

	_, err = h.svc.Documents.Upload(ctx, "t1", service.Upload{Name: "notes", Content: strings.NewReader("plain text file")})
	assert.ErrorIs(t, err, model.ErrUnsupportedFileType)

	big := bytes.Repeat([]byte{0}, model.MaxDocumentSizeBytes+1)
	_, err = h.svc.Documents.Upload(ctx, "t1", service.Upload{Name: "big", ContentType: model.ContentTypePDF, Content: bytes.NewReader(big)})
	assert.ErrorIs(t, err, model.ErrFileTooLarge)

	// PDFs go up untouched
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	_, err = h.svc.Documents.Upload(ctx, "t1", service.Upload{Name: "lease", FileName: "lease.pdf", Content: bytes.NewReader(pdf)})
	require.NoError(t, err)
	up := h.api.LastUpload()
	assert.Equal(t, model.ContentTypePDF, up.ContentType)
	assert.Equal(t, "lease.pdf", up.FileName)
	assert.Equal(t, len(pdf), up.Size)
}

func TestVersionCheck(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	status, err := h.svc.Version.Check(ctx)
	require.NoError(t, err)
	assert.False(t, status.UpdateAvailable)

	h.api.SetAppVersion(model.AppVersion{LatestVersion: "1.1.0", Mandatory: true, APKURL: "https://example.com/app.apk"})
	status, err = h.svc.Version.Check(ctx)
	require.NoError(t, err)
	assert.True(t, status.UpdateAvailable)
	assert.True(t, status.Latest.Mandatory)
	assert.Equal(t, "https://example.com/app.apk", status.Latest.APKURL)
}
