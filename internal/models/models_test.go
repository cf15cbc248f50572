package models

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/internal/validation"
)

const blogDefinitions = `{
  "types": [
    {
      "app_label": "demosite",
      "model": "BlogEntryPage",
      "table": "demosite_blogentrypage",
      "fields": [
        {"name": "date", "kind": "date"},
        {"name": "body", "kind": "text"},
        {"name": "feed_image", "column": "feed_image_id", "kind": "int"}
      ],
      "api_fields": ["date", "body", "feed_image", "related_links"],
      "search_fields": ["body"],
      "child_relations": [
        {
          "name": "related_links",
          "table": "demosite_blogentrypagerelatedlink",
          "foreign_key": "page_id",
          "order_by": "sort_order",
          "fields": [
            {"name": "title", "kind": "string"},
            {"name": "link_external", "kind": "string"}
          ],
          "api_fields": ["title", "link_external"]
        }
      ]
    }
  ]
}`

func TestLoadDefinitionsRegistersTypes(t *testing.T) {
	registry := NewRegistry()
	fsys := fstest.MapFS{"models.json": {Data: []byte(blogDefinitions)}}

	types, err := LoadDefinitions(registry, fsys, "models.json")
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	if len(types) != 1 || types[0].Name() != "demosite.BlogEntryPage" {
		t.Fatalf("unexpected types %v", types)
	}

	mt, err := registry.Resolve("demosite.blogentrypage")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mt.Parent() != registry.Base() {
		t.Fatal("expected page types to inherit from the base page type")
	}
	if got := registry.ForContentType("demosite", "blogentrypage"); got != mt {
		t.Fatalf("expected content type lookup to find the type, got %v", got)
	}
	if _, err := registry.Resolve("Demosite.BlogEntryPage"); !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected app label to be case sensitive, got %v", err)
	}
	if len(registry.Types()) != 2 {
		t.Fatalf("expected base and blog types, got %d", len(registry.Types()))
	}
}

func TestParseDefinitionsRejectsSchemaViolations(t *testing.T) {
	_, err := ParseDefinitions("bad.json", []byte(`{"types": [{"app_label": "demo", "model": "X", "table": "t", "fields": [{"name": "a", "kind": "blob"}]}]}`))
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestRegisterRejectsUnknownAPIField(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Register(ModelType{
		AppLabel:  "demo",
		ModelName: "EventPage",
		Table:     "demo_eventpage",
		APIFields: []string{"date_from"},
	})
	if !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	def := ModelType{AppLabel: "demo", ModelName: "HomePage", Table: "demo_homepage"}
	registry.MustRegister(def)
	if _, err := registry.Register(def); !errors.Is(err, ErrTypeExists) {
		t.Fatalf("expected ErrTypeExists, got %v", err)
	}
}

func TestResolveRequiresDottedName(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"", "Page", ".Page", "wagtailcore."} {
		if _, err := registry.Resolve(name); !errors.Is(err, ErrTypeNotFound) {
			t.Fatalf("Resolve(%q): expected ErrTypeNotFound, got %v", name, err)
		}
	}
	if mt, err := registry.Resolve("wagtailcore.page"); err != nil || mt != registry.Base() {
		t.Fatalf("expected base type, got %v %v", mt, err)
	}
}

func TestModelTypeInheritance(t *testing.T) {
	registry := NewRegistry()
	fsys := fstest.MapFS{"models.json": {Data: []byte(blogDefinitions)}}
	if _, err := LoadDefinitions(registry, fsys, "models.json"); err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	mt, _ := registry.Resolve("demosite.BlogEntryPage")

	if _, ok := mt.Field("slug"); !ok {
		t.Fatal("expected inherited slug field")
	}
	if _, ok := mt.OwnField("slug"); ok {
		t.Fatal("slug should not be an own field")
	}
	if got := mt.AllSearchFields(); len(got) != 2 || got[0] != "body" || got[1] != "title" {
		t.Fatalf("unexpected search fields %v", got)
	}

	columns := mt.Columns("specific", "page")
	if columns["body"].Expr != "specific.body" {
		t.Fatalf("unexpected body column %+v", columns["body"])
	}
	if columns["owner"].Expr != "page.owner_id" || columns["owner"].Kind != KindInt {
		t.Fatalf("unexpected owner column %+v", columns["owner"])
	}
	if columns["feed_image"].Expr != "specific.feed_image_id" {
		t.Fatalf("unexpected feed_image column %+v", columns["feed_image"])
	}
}

func TestChildRelationSerialize(t *testing.T) {
	rel := ChildRelation{
		Name: "related_links",
		Fields: []Field{
			{Name: "title", Kind: KindString},
			{Name: "link_external", Kind: KindString},
		},
		APIFields: []string{"link_external", "title"},
	}
	objects := rel.Serialize([]map[string]any{
		{"id": int64(1), "title": []byte("Docs"), "link_external": "https://docs.example.com"},
	})
	got, err := serializer.Marshal(objects, 0)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"link_external":"https://docs.example.com","title":"Docs"}]`
	if string(got) != want {
		t.Fatalf("unexpected json %s", got)
	}
}

func TestFieldKindParseFilter(t *testing.T) {
	if v, err := KindInt.ParseFilter(" 12 "); err != nil || v != int64(12) {
		t.Fatalf("int: %v %v", v, err)
	}
	if _, err := KindInt.ParseFilter("abc"); err == nil {
		t.Fatal("expected int parse error")
	}
	if v, err := KindBool.ParseFilter("True"); err != nil || v != true {
		t.Fatalf("bool: %v %v", v, err)
	}
	if v, err := KindBool.ParseFilter("0"); err != nil || v != false {
		t.Fatalf("bool: %v %v", v, err)
	}
	if _, err := KindBool.ParseFilter("maybe"); !errors.Is(err, ErrFilterIgnored) {
		t.Fatalf("expected ErrFilterIgnored, got %v", err)
	}
	if v, err := KindDate.ParseFilter("2014-02-03"); err != nil || v != "2014-02-03" {
		t.Fatalf("date: %v %v", v, err)
	}
	if _, err := KindDate.ParseFilter("03/02/2014"); err == nil {
		t.Fatal("expected date parse error")
	}
	v, err := KindDateTime.ParseFilter("2014-02-03T10:00:00Z")
	if err != nil || !v.(time.Time).Equal(time.Date(2014, 2, 3, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("datetime: %v %v", v, err)
	}
	if v, err := KindString.ParseFilter(" spaced "); err != nil || v != " spaced " {
		t.Fatalf("string filters must be exact: %v %v", v, err)
	}
}

func TestFieldKindNormalize(t *testing.T) {
	ts := time.Date(2014, 2, 3, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		kind FieldKind
		raw  any
		want any
	}{
		{KindBool, int64(1), true},
		{KindBool, int64(0), false},
		{KindBool, true, true},
		{KindInt, []byte("42"), int64(42)},
		{KindInt, int64(7), int64(7)},
		{KindFloat, int64(2), float64(2)},
		{KindString, []byte("bytes"), "bytes"},
		{KindText, "text", "text"},
		{KindDate, ts, serializer.Date(ts)},
		{KindDate, "2014-02-03", serializer.Date(time.Date(2014, 2, 3, 0, 0, 0, 0, time.UTC))},
		{KindDateTime, ts, serializer.DateTime(ts)},
		{KindDateTime, "2014-02-03 10:00:00+00:00", serializer.DateTime(ts)},
		{KindInt, nil, nil},
	}
	for _, tc := range cases {
		got := tc.kind.Normalize(tc.raw)
		if dt, ok := tc.want.(serializer.DateTime); ok {
			gotDT, ok := got.(serializer.DateTime)
			if !ok || !time.Time(gotDT).Equal(time.Time(dt)) {
				t.Fatalf("%s.Normalize(%v) = %v, want %v", tc.kind, tc.raw, got, tc.want)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("%s.Normalize(%v) = %#v, want %#v", tc.kind, tc.raw, got, tc.want)
		}
	}
}

func TestRecordSerialize(t *testing.T) {
	registry := NewRegistry()
	fsys := fstest.MapFS{"models.json": {Data: []byte(blogDefinitions)}}
	if _, err := LoadDefinitions(registry, fsys, "models.json"); err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	mt, err := registry.Resolve("demosite.BlogEntryPage")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	record := &Record{
		ID:   5,
		Type: mt,
		Values: Merge(
			map[string]any{"id": int64(5), "title": "Blog post", "live": int64(1)},
			map[string]any{"date": "2013-12-02", "feed_image_id": nil},
		),
	}
	meta := serializer.NewObject().Set("type", mt.Name())
	got, err := serializer.Marshal(record.Serialize(meta, []string{"title", "feed_image", "live", "related_links", "missing"}), 0)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"id":5,"meta":{"type":"demosite.BlogEntryPage"},"title":"Blog post","feed_image":null,"live":true,"related_links":[]}`
	if string(got) != want {
		t.Fatalf("unexpected json %s", got)
	}

	got, err = serializer.Marshal(record.Serialize(nil, []string{"date"}), 0)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `{"id":5,"date":"2013-12-02"}` {
		t.Fatalf("empty meta is omitted, got %s", got)
	}
}

func TestMergeLaterRowsWin(t *testing.T) {
	merged := Merge(map[string]any{"a": 1, "b": 1}, nil, map[string]any{"b": 2})
	if merged["a"] != 1 || merged["b"] != 2 || len(merged) != 2 {
		t.Fatalf("unexpected merge %v", merged)
	}
}
