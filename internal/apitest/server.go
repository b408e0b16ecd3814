// Package apitest runs an in-process fake of the owner API for tests.
package apitest

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShubhamP528/RentManagement-frontend/internal/httputil"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// Upload records the last document received by the fake.
type Upload struct {
	TenantID    string
	Name        string
	FileName    string
	ContentType string
	Size        int
	Width       int // zero for non-images
	Height      int
}

type roomRecord struct {
	propertyID string
	room       model.Room
}

// Server is a fake owner API. All state is in memory and guarded by one mutex.
type Server struct {
	*httptest.Server

	secret []byte

	mu           sync.Mutex
	owners       map[string][]byte
	revoked      map[string]bool
	rejectAll    bool
	properties   []*model.Property
	rooms        map[string]*roomRecord
	tenants      map[string][]model.Tenant
	transactions map[string][]model.Transaction
	documents    map[string][]model.Document
	version      model.AppVersion
	hits         map[string]int
	lastUpload   *Upload
}

// New starts a fake owner API closed at test cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:       []byte("apitest-secret"),
		owners:       make(map[string][]byte),
		revoked:      make(map[string]bool),
		rooms:        make(map[string]*roomRecord),
		tenants:      make(map[string][]model.Tenant),
		transactions: make(map[string][]model.Transaction),
		documents:    make(map[string][]model.Document),
		version:      model.AppVersion{LatestVersion: "1.0.0"},
		hits:         make(map[string]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count)

	r.Post("/owner/auth/login", s.login)
	r.Get("/app-version", s.appVersion)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/owner/auth/verify", s.verify)
		r.Get("/properties/get-properties", s.listProperties)
		r.Post("/properties/add-property", s.addProperty)
		r.Get("/properties/get-property/{propertyId}", s.getProperty)
		r.Post("/room/addroom/{propertyId}", s.addRoom)
		r.Get("/room/details/{roomId}", s.roomDetails)
		r.Post("/tenant/addTenant/{roomId}", s.addTenant)
		r.Post("/tenant/removeTenant/{roomId}", s.removeTenant)
		r.Get("/tenant/getTransaction/{tenantId}", s.transactionsFor)
		r.Post("/payment/addPayment", s.addPayment)
		r.Get("/tenant/getAllDocuments/{tenantId}", s.listDocuments)
		r.Post("/tenant/addDocument/{tenantId}", s.addDocument)
		r.Delete("/tenant/deleteDocument/{tenantId}/{documentId}", s.deleteDocument)
	})
	return r
}

// AddOwner registers credentials accepted by the login endpoint.
func (s *Server) AddOwner(username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.owners[username] = hash
	s.mu.Unlock()
}

// IssueToken signs a token for username the way login does.
func (s *Server) IssueToken(username string) string {
	claims := jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// Revoke makes later requests with token fail with the 400 logged-out body.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
}

// RejectAll makes every authenticated route answer 401 while on.
func (s *Server) RejectAll(on bool) {
	s.mu.Lock()
	s.rejectAll = on
	s.mu.Unlock()
}

// SetAppVersion changes the published version.
func (s *Server) SetAppVersion(v model.AppVersion) {
	s.mu.Lock()
	s.version = v
	s.mu.Unlock()
}

// Hits returns how many requests reached "METHOD /path".
func (s *Server) Hits(methodPath string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[methodPath]
}

// LastUpload returns the last received document, nil if none.
func (s *Server) LastUpload() *Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpload
}

// SeedProperty creates a property with the named rooms.
func (s *Server) SeedProperty(name string, roomNames ...string) model.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &model.Property{ID: uuid.NewString(), Name: name}
	s.properties = append(s.properties, p)
	for _, rn := range roomNames {
		s.newRoomLocked(p, rn)
	}
	return *p
}

// SeedTenant adds a tenancy to a room and returns it with its id set.
func (s *Server) SeedTenant(roomID string, tenant model.Tenant) model.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}
	s.tenants[roomID] = append(s.tenants[roomID], tenant)
	return tenant
}

func (s *Server) newRoomLocked(p *model.Property, name string) model.Room {
	room := model.Room{ID: uuid.NewString(), Name: name}
	s.rooms[room.ID] = &roomRecord{propertyID: p.ID, room: room}
	p.RoomIDs = append(p.RoomIDs, room.ID)
	p.Rooms = append(p.Rooms, room)
	return room
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		rejectAll := s.rejectAll
		s.mu.Unlock()
		if rejectAll {
			httputil.WriteUnauthorized(w, "Session expired")
			return
		}

		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httputil.WriteUnauthorized(w, "Missing authentication token")
			return
		}
		tokenString := parts[1]

		s.mu.Lock()
		revoked := s.revoked[tokenString]
		s.mu.Unlock()
		if revoked {
			httputil.WriteBadRequest(w, model.LoggedOutMessage)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			httputil.WriteUnauthorized(w, "Invalid authentication token")
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			httputil.WriteUnauthorized(w, "Invalid token claims")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, sub)))
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	s.mu.Lock()
	hash, ok := s.owners[req.Username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		httputil.WriteUnauthorized(w, "Invalid username or password")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LoginResponse{
		Token:    s.IssueToken(req.Username),
		Username: req.Username,
	})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	owner, _ := r.Context().Value(ownerKey).(string)
	httputil.WriteJSON(w, http.StatusOK, model.VerifyResponse{Username: owner})
}

func (s *Server) appVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]model.Property, 0, len(s.properties))
	for _, p := range s.properties {
		// the list endpoint does not expand rooms
		out = append(out, model.Property{ID: p.ID, Name: p.Name, Address: p.Address, RoomIDs: append([]string(nil), p.RoomIDs...)})
	}
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, model.PropertyListResponse{Properties: out})
}

func (s *Server) addProperty(w http.ResponseWriter, r *http.Request) {
	var req model.AddPropertyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.PropertyName) == "" {
		httputil.WriteBadRequest(w, "Property name is required")
		return
	}

	s.mu.Lock()
	p := &model.Property{ID: uuid.NewString(), Name: req.PropertyName, Address: req.Address}
	s.properties = append(s.properties, p)
	for _, rn := range req.Rooms {
		s.newRoomLocked(p, rn)
	}
	out := *p
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusCreated, out)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyId")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.properties {
		if p.ID == id {
			out := *p
			out.Rooms = make([]model.Room, 0, len(p.Rooms))
			for _, room := range p.Rooms {
				room.Tenants = append([]model.Tenant(nil), s.tenants[room.ID]...)
				out.Rooms = append(out.Rooms, room)
			}
			httputil.WriteJSON(w, http.StatusOK, out)
			return
		}
	}
	httputil.WriteNotFound(w, "Property not found")
}

func (s *Server) addRoom(w http.ResponseWriter, r *http.Request) {
	var req model.AddRoomRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || strings.TrimSpace(req.RoomName) == "" {
		httputil.WriteBadRequest(w, "Room name is required")
		return
	}

	id := chi.URLParam(r, "propertyId")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.properties {
		if p.ID == id {
			room := s.newRoomLocked(p, req.RoomName)
			httputil.WriteJSON(w, http.StatusCreated, model.AddRoomResponse{Room: room})
			return
		}
	}
	httputil.WriteNotFound(w, "Property not found")
}

func (s *Server) roomDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roomId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		httputil.WriteNotFound(w, "Room not found")
		return
	}
	tenants := append([]model.Tenant{}, s.tenants[id]...)
	httputil.WriteJSON(w, http.StatusOK, model.RoomDetailsResponse{Tenant: tenants})
}

func (s *Server) addTenant(w http.ResponseWriter, r *http.Request) {
	var req model.AddTenantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	rent, err := strconv.ParseFloat(req.Rent, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Rent must be a number")
		return
	}
	initial, _ := strconv.ParseFloat(req.InitialReading, 64)

	tenant := model.Tenant{
		ID:             uuid.NewString(),
		Persons:        req.Persons,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Rent:           rent,
		InitialReading: initial,
	}
	for i := range req.Persons {
		if req.Persons[i].IsHead {
			head := req.Persons[i]
			tenant.HeadPerson = &head
			break
		}
	}

	roomID := chi.URLParam(r, "roomId")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		httputil.WriteNotFound(w, "Room not found")
		return
	}
	s.tenants[roomID] = append(s.tenants[roomID], tenant)
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

func (s *Server) removeTenant(w http.ResponseWriter, r *http.Request) {
	var req model.RemoveTenantRequest
	if err := httputil.DecodeJSON(r, &req); err != nil || req.TenantID == "" {
		httputil.WriteBadRequest(w, "tenantId is required")
		return
	}

	roomID := chi.URLParam(r, "roomId")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tenants[roomID] {
		if s.tenants[roomID][i].ID == req.TenantID {
			end := req.EndDate
			s.tenants[roomID][i].EndDate = &end
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Tenant removed"})
			return
		}
	}
	httputil.WriteNotFound(w, "Tenant not found")
}

func (s *Server) transactionsFor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantId")
	s.mu.Lock()
	list := append([]model.Transaction{}, s.transactions[id]...)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, model.TransactionListResponse{Transaction: list})
}

func (s *Server) addPayment(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.BuildReading != req.CurrentReading-req.PreviousReading || req.Bill != req.BuildReading*model.UnitRate {
		httputil.WriteBadRequest(w, "Bill does not match readings")
		return
	}

	tx := model.Transaction{
		ID:              uuid.NewString(),
		DOP:             req.DOP,
		MOP:             req.MOP,
		RoomRent:        req.RoomRent,
		CurrentReading:  req.CurrentReading,
		PreviousReading: req.PreviousReading,
		BuildReading:    req.BuildReading,
		Bill:            req.Bill,
		TotalAmount:     req.RoomRent + req.Bill,
		Status:          req.Status,
	}
	s.mu.Lock()
	s.transactions[req.Tenant] = append(s.transactions[req.Tenant], tx)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusCreated, model.PaymentResponse{Payment: tx})
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tenantId")
	s.mu.Lock()
	docs := append([]model.Document{}, s.documents[id]...)
	s.mu.Unlock()
	httputil.WriteJSON(w, http.StatusOK, model.DocumentListResponse{Documents: docs})
}

func (s *Server) addDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(model.MaxDocumentSizeBytes); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		httputil.WriteBadRequest(w, "document file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteInternalError(w, "read document")
		return
	}

	up := &Upload{
		TenantID:    chi.URLParam(r, "tenantId"),
		Name:        r.FormValue("name"),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        len(data),
	}
	if up.Name == "" {
		httputil.WriteBadRequest(w, "name is required")
		return
	}
	if model.IsImageType(up.ContentType) {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			up.Width, up.Height = cfg.Width, cfg.Height
		}
	}

	doc := model.Document{
		ID:         uuid.NewString(),
		URL:        fmt.Sprintf("%s/files/%s", s.URL, header.Filename),
		PublicID:   uuid.NewString(),
		FileType:   up.ContentType,
		Name:       up.Name,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.lastUpload = up
	s.documents[up.TenantID] = append(s.documents[up.TenantID], doc)
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "Document uploaded successfully",
		"document": doc,
	})
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenantId")
	docID := chi.URLParam(r, "documentId")

	s.mu.Lock()
	defer s.mu.Unlock()
	docs := s.documents[tenantID]
	for i := range docs {
		if docs[i].ID == docID {
			s.documents[tenantID] = append(docs[:i], docs[i+1:]...)
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
			return
		}
	}
	httputil.WriteNotFound(w, "Document not found")
}
