package testsupport

import "github.com/uptrace/bun"

// Specific page tables of the demo site described by testdata/models.json.
// They exist so fixtures can insert rows; the API reads them through the
// model definitions.

type HomePage struct {
	bun.BaseModel `bun:"table:demosite_homepage"`

	PagePtrID int64  `bun:"page_ptr_id,pk"`
	Body      string `bun:"body,type:text,notnull"`
}

type BlogIndexPage struct {
	bun.BaseModel `bun:"table:demosite_blogindexpage"`

	PagePtrID int64  `bun:"page_ptr_id,pk"`
	Intro     string `bun:"intro,type:text,notnull"`
}

type BlogEntryPage struct {
	bun.BaseModel `bun:"table:demosite_blogentrypage"`

	PagePtrID   int64  `bun:"page_ptr_id,pk"`
	Date        string `bun:"date,type:date,notnull"`
	Body        string `bun:"body,type:text,notnull"`
	FeedImageID *int64 `bun:"feed_image_id"`
}

type BlogEntryPageRelatedLink struct {
	bun.BaseModel `bun:"table:demosite_blogentrypagerelatedlink"`

	ID           int64  `bun:"id,pk,autoincrement"`
	PageID       int64  `bun:"page_id,notnull"`
	SortOrder    int    `bun:"sort_order,notnull"`
	Title        string `bun:"title,notnull"`
	LinkExternal string `bun:"link_external,notnull"`
}

type EventPage struct {
	bun.BaseModel `bun:"table:demosite_eventpage"`

	PagePtrID int64  `bun:"page_ptr_id,pk"`
	DateFrom  string `bun:"date_from,type:date,notnull"`
	Audience  string `bun:"audience,notnull"`
}

// DemoModels lists the demo site models for registration with bun.
func DemoModels() []any {
	return []any{
		(*HomePage)(nil),
		(*BlogIndexPage)(nil),
		(*BlogEntryPage)(nil),
		(*BlogEntryPageRelatedLink)(nil),
		(*EventPage)(nil),
	}
}
