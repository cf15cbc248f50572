package pages

import (
	"time"

	"github.com/uptrace/bun"
)

// ContentType is a row of the content type table naming the concrete class of
// a page.
type ContentType struct {
	bun.BaseModel `bun:"table:django_content_type,alias:ct"`

	ID       int64  `bun:"id,pk,autoincrement"`
	AppLabel string `bun:"app_label,notnull"`
	Model    string `bun:"model,notnull"`
}

// Page is a node of the page tree. The tree is stored as a materialised path
// with fixed width steps.
type Page struct {
	bun.BaseModel `bun:"table:wagtailcore_page,alias:page"`

	ID                      int64        `bun:"id,pk,autoincrement"`
	Path                    string       `bun:"path,notnull,unique"`
	Depth                   int          `bun:"depth,notnull"`
	NumChild                int          `bun:"numchild,notnull"`
	Title                   string       `bun:"title,notnull"`
	Slug                    string       `bun:"slug,notnull"`
	Live                    bool         `bun:"live,notnull"`
	HasUnpublishedChanges   bool         `bun:"has_unpublished_changes,notnull"`
	URLPath                 string       `bun:"url_path,type:text,notnull"`
	SeoTitle                string       `bun:"seo_title,notnull"`
	ShowInMenus             bool         `bun:"show_in_menus,notnull"`
	SearchDescription       string       `bun:"search_description,type:text,notnull"`
	GoLiveAt                *time.Time   `bun:"go_live_at"`
	ExpireAt                *time.Time   `bun:"expire_at"`
	Expired                 bool         `bun:"expired,notnull"`
	Locked                  bool         `bun:"locked,notnull"`
	OwnerID                 *int64       `bun:"owner_id"`
	ContentTypeID           int64        `bun:"content_type_id,notnull"`
	FirstPublishedAt        *time.Time   `bun:"first_published_at"`
	LatestRevisionCreatedAt *time.Time   `bun:"latest_revision_created_at"`
	ContentType             *ContentType `bun:"rel:belongs-to,join:content_type_id=id"`
}

// ViewRestriction hides a page and all its descendants from the public.
type ViewRestriction struct {
	bun.BaseModel `bun:"table:wagtailcore_pageviewrestriction,alias:restriction"`

	ID       int64  `bun:"id,pk,autoincrement"`
	PageID   int64  `bun:"page_id,notnull"`
	Password string `bun:"password,notnull"`
}

// StepLength is the width of one step of the materialised path.
const StepLength = 4

// ParentPath returns the path of the parent node, or "" for a tree root.
func (p *Page) ParentPath() string {
	if p == nil || len(p.Path) <= StepLength {
		return ""
	}
	return p.Path[:len(p.Path)-StepLength]
}

// Values returns the page columns keyed by column name.
func (p *Page) Values() map[string]any {
	return map[string]any{
		"id":                         p.ID,
		"path":                       p.Path,
		"depth":                      int64(p.Depth),
		"numchild":                   int64(p.NumChild),
		"title":                      p.Title,
		"slug":                       p.Slug,
		"live":                       p.Live,
		"has_unpublished_changes":    p.HasUnpublishedChanges,
		"url_path":                   p.URLPath,
		"seo_title":                  p.SeoTitle,
		"show_in_menus":              p.ShowInMenus,
		"search_description":         p.SearchDescription,
		"go_live_at":                 timeValue(p.GoLiveAt),
		"expire_at":                  timeValue(p.ExpireAt),
		"expired":                    p.Expired,
		"locked":                     p.Locked,
		"owner_id":                   intValue(p.OwnerID),
		"content_type_id":            p.ContentTypeID,
		"first_published_at":         timeValue(p.FirstPublishedAt),
		"latest_revision_created_at": timeValue(p.LatestRevisionCreatedAt),
	}
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func intValue(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
