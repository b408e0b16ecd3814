package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ShubhamP528/RentManagement-frontend/internal/gateway"
	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// DocumentService manages files attached to a tenant.
type DocumentService struct {
	api API
}

func NewDocumentService(api API) *DocumentService {
	return &DocumentService{api: api}
}

// Upload is one file picked for a tenant.
type Upload struct {
	Name        string // display name entered by the owner
	FileName    string
	ContentType string // detected from content when empty
	Content     io.Reader
}

// List returns a tenant's documents.
func (s *DocumentService) List(ctx context.Context, tenantID string) ([]model.Document, error) {
	var resp model.DocumentListResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/tenant/getAllDocuments/"+url.PathEscape(tenantID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return resp.Documents, nil
}

// Upload validates the file, downscales photos and posts it as multipart form data.
func (s *DocumentService) Upload(ctx context.Context, tenantID string, up Upload) (*model.Document, error) {
	name := strings.TrimSpace(up.Name)
	if name == "" {
		return nil, model.ErrDocumentNameRequired
	}

	data, contentType, err := readAndValidateDocument(up.Content, up.ContentType, model.MaxDocumentSizeBytes)
	if err != nil {
		return nil, err
	}

	fileName := up.FileName
	if fileName == "" {
		fileName = name
	}
	if model.IsImageType(contentType) {
		data, err = downscaleToJPEG(data, model.PhotoMaxWidth, model.PhotoMaxHeight, model.PhotoJPEGQuality)
		if err != nil {
			return nil, err
		}
		contentType = model.ContentTypeJPEG
		fileName = strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".jpg"
	}

	body, formType, err := documentForm(name, fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Do(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        "/tenant/addDocument/" + url.PathEscape(tenantID),
		Body:        body,
		ContentType: formType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	var result struct {
		Message  string         `json:"message"`
		Document model.Document `json:"document"`
	}
	if err := gateway.DecodeJSON(resp, &result); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	log.Printf("[DocumentService] Uploaded document tenant=%s name=%s type=%s size=%d",
		tenantID, name, contentType, len(data))
	return &result.Document, nil
}

// Delete removes one document of a tenant.
func (s *DocumentService) Delete(ctx context.Context, tenantID, documentID string) error {
	path := fmt.Sprintf("/tenant/deleteDocument/%s/%s", url.PathEscape(tenantID), url.PathEscape(documentID))
	if err := s.api.JSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	log.Printf("[DocumentService] Deleted document tenant=%s id=%s", tenantID, documentID)
	return nil
}

// readAndValidateDocument loads the upload into memory with size and type checks.
func readAndValidateDocument(r io.Reader, contentType string, maxSize int64) ([]byte, string, error) {
	if r == nil {
		return nil, "", fmt.Errorf("document has no content")
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", model.ErrFileTooLarge
	}

	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedDocumentType(contentType) {
		return nil, "", model.ErrUnsupportedFileType
	}
	return data, contentType, nil
}

// downscaleToJPEG fits the photo within width x height, keeping aspect
// ratio, and encodes as JPEG. Smaller photos are only re-encoded.
func downscaleToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > width || bounds.Dy() > height {
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func documentForm(name, fileName, contentType string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create document part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write document part: %w", err)
	}
	if err := w.WriteField("name", name); err != nil {
		return nil, "", fmt.Errorf("write name field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
