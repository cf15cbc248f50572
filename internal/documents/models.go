package documents

import (
	"time"

	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/uptrace/bun"
)

// Document is a row of the document library.
type Document struct {
	bun.BaseModel `bun:"table:wagtaildocs_document,alias:document"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Title            string    `bun:"title,notnull"`
	File             string    `bun:"file,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
	UploadedByUserID *int64    `bun:"uploaded_by_user_id"`
}

// Type describes the document columns for filtering, ordering and rendering.
var Type = &models.ModelType{
	AppLabel:  "wagtaildocs",
	ModelName: "Document",
	Table:     "wagtaildocs_document",
	Fields: []models.Field{
		{Name: "id", Kind: models.KindInt},
		{Name: "title", Kind: models.KindString},
		{Name: "file", Kind: models.KindString},
		{Name: "created_at", Kind: models.KindDateTime},
		{Name: "uploaded_by_user", Column: "uploaded_by_user_id", Kind: models.KindInt},
	},
	SearchFields: []string{"title"},
}

// Record wraps the document for rendering.
func (d *Document) Record() *models.Record {
	var uploadedBy any
	if d.UploadedByUserID != nil {
		uploadedBy = *d.UploadedByUserID
	}
	return &models.Record{
		ID:   d.ID,
		Type: Type,
		Values: map[string]any{
			"id":                  d.ID,
			"title":               d.Title,
			"file":                d.File,
			"created_at":          d.CreatedAt,
			"uploaded_by_user_id": uploadedBy,
		},
	}
}
