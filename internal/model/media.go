package model

import "errors"

// Photo constraints applied before a document upload
const (
	MaxDocumentSizeBytes = 10 * 1024 * 1024
	PhotoMaxWidth        = 1024
	PhotoMaxHeight       = 1024
	PhotoJPEGQuality     = 80
)

// Supported content types for document upload
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypePDF  = "application/pdf"
)

var imageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for document operations
var (
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrDocumentNameRequired = errors.New("document name is required")
)

// Document is a file attached to a tenant
type Document struct {
	ID         string `json:"_id"`
	URL        string `json:"url"`
	PublicID   string `json:"public_id"`
	FileType   string `json:"fileType"`
	Name       string `json:"name"`
	UploadedAt string `json:"uploadedAt"`
}

// DocumentListResponse is the body of GET /tenant/getAllDocuments/{tenantId}
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
}

// IsImageType reports if the content type is a photo we downscale
func IsImageType(contentType string) bool {
	_, ok := imageTypes[contentType]
	return ok
}

// IsAllowedDocumentType reports if the content type can be uploaded
func IsAllowedDocumentType(contentType string) bool {
	return IsImageType(contentType) || contentType == ContentTypePDF
}

// AppVersion is the body of GET /app-version
type AppVersion struct {
	LatestVersion string `json:"latestVersion"`
	Mandatory     bool   `json:"mandatory"`
	APKURL        string `json:"apkUrl"`
}
