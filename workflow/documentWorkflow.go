package workflow

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

// UploadDocument pushes a base64 image to the blob store and records the
// attachment under the owning project's scope.
func UploadDocument(ctx context.Context, p models.Principal, input models.NewDocument) (*models.Document, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	var projectId int
	switch input.ReferenceType {
	case models.DocumentReferenceMaterial:
		material, err := fetchMaterialUnscoped(ctx, input.ReferenceId)
		if err != nil {
			return nil, err
		}
		projectId = material.ProjectId
	case models.DocumentReferenceProject:
		if err := utils.ValidateResourceId[models.Project](utils.WithoutProjectScope(ctx), input.ReferenceId); err != nil {
			return nil, utils.NewNotFound("project %d not found", input.ReferenceId)
		}
		projectId = input.ReferenceId
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &projectId); err != nil {
		return nil, err
	}

	url, thumbnailUrl, err := utils.SaveImage(ctx, input.ObjectName(), input.ImageData)
	if err != nil {
		return nil, err
	}

	document := models.Document{
		ProjectId:     projectId,
		ReferenceType: input.ReferenceType,
		ReferenceId:   input.ReferenceId,
		DocumentUrl:   url,
		ThumbnailUrl:  thumbnailUrl,
		UploadedBy:    p.ID,
	}
	db := config.GetDB()
	if err := document.Store(db, ctx); err != nil {
		return nil, err
	}
	return &document, nil
}

// DeleteDocument removes the attachment row and best-effort deletes the
// stored blobs. A blob that is already gone does not fail the delete.
func DeleteDocument(ctx context.Context, p models.Principal, documentId int) error {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return err
	}
	document, err := utils.FetchModel[models.Document](utils.WithoutProjectScope(ctx), documentId)
	if err != nil {
		return utils.NewNotFound("document %d not found", documentId)
	}
	if err := models.Authorize(p, scope, models.ActionWrite, &document.ProjectId); err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(document).Error; err != nil {
		return err
	}
	if name := utils.ObjectNameFromURL(document.DocumentUrl); name != "" {
		_ = utils.DeleteObject(ctx, name)
	}
	if name := utils.ObjectNameFromURL(document.ThumbnailUrl); name != "" {
		_ = utils.DeleteObject(ctx, name)
	}
	return nil
}

func ListDocuments(ctx context.Context, p models.Principal, referenceType string, referenceId int) ([]*models.Document, error) {
	ctx, _, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	return utils.FetchAllModelsWhere[models.Document](ctx,
		"reference_type = ? AND reference_id = ?", referenceType, referenceId)
}
