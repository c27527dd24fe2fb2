package models

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference types documents may attach to.
const (
	DocumentReferenceMaterial = "materials"
	DocumentReferenceProject  = "projects"
)

// Document is an uploaded attachment (site photo, delivery note). The
// project_id column puts attachments under the same scoping rule as the
// entity they belong to.
type Document struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ProjectId     int       `gorm:"index;not null" json:"project_id"`
	ReferenceType string    `gorm:"size:64;not null" json:"reference_type"`
	ReferenceId   int       `gorm:"index;not null" json:"reference_id"`
	DocumentUrl   string    `gorm:"size:1024;not null" json:"document_url"`
	ThumbnailUrl  string    `gorm:"size:1024" json:"thumbnail_url"`
	UploadedBy    int       `gorm:"not null" json:"uploaded_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewDocument struct {
	ReferenceType string `json:"reference_type" binding:"required"`
	ReferenceId   int    `json:"reference_id" binding:"required"`
	// ImageData is the base64 payload handed to the blob store.
	ImageData string `json:"image_data" binding:"required"`
}

func (input *NewDocument) Validate(_ context.Context) error {
	if input.ReferenceType != DocumentReferenceMaterial && input.ReferenceType != DocumentReferenceProject {
		return utils.NewInvalidInput("invalid reference type %q", input.ReferenceType)
	}
	if input.ImageData == "" {
		return utils.NewInvalidInput("image data is required")
	}
	return nil
}

// ObjectName builds a collision-free blob key for the attachment.
func (input *NewDocument) ObjectName() string {
	return fmt.Sprintf("%s/%d/%s.jpg", input.ReferenceType, input.ReferenceId, uuid.NewString())
}

func (d *Document) Store(tx *gorm.DB, ctx context.Context) error {
	return tx.WithContext(ctx).Create(&d).Error
}
