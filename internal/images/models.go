package images

import (
	"time"

	"github.com/goliatone/go-cms-api/internal/models"
	"github.com/uptrace/bun"
)

// Image is a row of the image library.
type Image struct {
	bun.BaseModel `bun:"table:wagtailimages_image,alias:image"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Title            string    `bun:"title,notnull"`
	File             string    `bun:"file,notnull"`
	Width            int       `bun:"width,notnull"`
	Height           int       `bun:"height,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
	UploadedByUserID *int64    `bun:"uploaded_by_user_id"`
	FocalPointX      *int      `bun:"focal_point_x"`
	FocalPointY      *int      `bun:"focal_point_y"`
	FocalPointWidth  *int      `bun:"focal_point_width"`
	FocalPointHeight *int      `bun:"focal_point_height"`
	FileSize         *int64    `bun:"file_size"`
}

// Type describes the image columns for filtering, ordering and rendering.
var Type = &models.ModelType{
	AppLabel:  "wagtailimages",
	ModelName: "Image",
	Table:     "wagtailimages_image",
	Fields: []models.Field{
		{Name: "id", Kind: models.KindInt},
		{Name: "title", Kind: models.KindString},
		{Name: "file", Kind: models.KindString},
		{Name: "width", Kind: models.KindInt},
		{Name: "height", Kind: models.KindInt},
		{Name: "created_at", Kind: models.KindDateTime},
		{Name: "uploaded_by_user", Column: "uploaded_by_user_id", Kind: models.KindInt},
		{Name: "focal_point_x", Kind: models.KindInt},
		{Name: "focal_point_y", Kind: models.KindInt},
		{Name: "focal_point_width", Kind: models.KindInt},
		{Name: "focal_point_height", Kind: models.KindInt},
		{Name: "file_size", Kind: models.KindInt},
	},
	SearchFields: []string{"title"},
}

// Values returns the image columns keyed by column name.
func (i *Image) Values() map[string]any {
	return map[string]any{
		"id":                  i.ID,
		"title":               i.Title,
		"file":                i.File,
		"width":               int64(i.Width),
		"height":              int64(i.Height),
		"created_at":          i.CreatedAt,
		"uploaded_by_user_id": int64Value(i.UploadedByUserID),
		"focal_point_x":       intValue(i.FocalPointX),
		"focal_point_y":       intValue(i.FocalPointY),
		"focal_point_width":   intValue(i.FocalPointWidth),
		"focal_point_height":  intValue(i.FocalPointHeight),
		"file_size":           int64Value(i.FileSize),
	}
}

// Record wraps the image for rendering.
func (i *Image) Record() *models.Record {
	return &models.Record{ID: i.ID, Type: Type, Values: i.Values()}
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func int64Value(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
