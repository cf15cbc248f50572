package images_test

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/goliatone/go-cms-api/internal/images"
	"github.com/goliatone/go-cms-api/internal/query"
	"github.com/goliatone/go-cms-api/internal/serializer"
	"github.com/goliatone/go-cms-api/pkg/testsupport"
	goerrors "github.com/goliatone/go-errors"
)

func newService(t *testing.T, opts ...images.ServiceOption) *images.BunService {
	t.Helper()
	svc, err := images.NewService(testsupport.NewFixtureDB(t), opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func list(t *testing.T, svc images.Service, rawQuery string) *query.Listing {
	t.Helper()
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		t.Fatalf("parse query %q: %v", rawQuery, err)
	}
	listing, err := svc.List(context.Background(), values)
	if err != nil {
		t.Fatalf("list %q: %v", rawQuery, err)
	}
	return listing
}

func ids(listing *query.Listing) []int64 {
	out := []int64{}
	for _, item := range listing.Items {
		id, _ := item.Get("id")
		out = append(out, id.(int64))
	}
	return out
}

func compact(t *testing.T, payload any) string {
	t.Helper()
	raw, err := serializer.Marshal(payload, 0)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(raw)
}

func TestImageListing(t *testing.T) {
	svc := newService(t)

	listing := list(t, svc, "")
	if listing.Total != 3 {
		t.Fatalf("expected 3 images, got %d", listing.Total)
	}
	if got := compact(t, listing.Items[0]); got != `{"id":1,"title":"A dummy image"}` {
		t.Fatalf("listings default to the title, got %s", got)
	}

	listing = list(t, svc, "fields=width,height,file")
	if got := compact(t, listing.Items[1]); got != `{"id":2,"width":1024,"height":768}` {
		t.Fatalf("unexpected item %s", got)
	}
}

func TestImageListingQueries(t *testing.T) {
	svc := newService(t)

	cases := []struct {
		query string
		want  []int64
	}{
		{"order=title", []int64{1, 3, 2}},
		{"order=-width", []int64{2, 1, 3}},
		{"width=480", []int64{3}},
		{"width=wide", []int64{}},
		{"search=SUNSET", []int64{2}},
		{"search=a%25_", []int64{}},
		{"offset=1&limit=1", []int64{2}},
		{"created_at=2014-01-02T10:00:00Z", []int64{2}},
		{"created_at=2014-01-03+10:00:00", []int64{3}},
		{"created_at=2014-01-01T11:00:00%2B01:00", []int64{1}},
		{"created_at=2014-01-05T10:00:00Z", []int64{}},
		{"created_at=yesterday", []int64{}},
		{"limit=abc&limit=2", []int64{1, 2}},
		{"order=nope&order=-height", []int64{2, 3, 1}},
	}
	for _, tc := range cases {
		if got := ids(list(t, svc, tc.query)); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.query, got, tc.want)
		}
	}

	_, err := svc.List(context.Background(), url.Values{"order": {"file"}})
	if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
		t.Fatalf("only api fields can be ordered by, got %v", err)
	}
}

func TestImageDetail(t *testing.T) {
	svc := newService(t, images.WithExtraFields("file_size"))

	image, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := compact(t, image); got != `{"id":3,"title":"Portrait","width":480,"height":640,"file_size":20480}` {
		t.Fatalf("unexpected image %s", got)
	}

	image, err = svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := compact(t, image); got != `{"id":1,"title":"A dummy image","width":640,"height":480,"file_size":null}` {
		t.Fatalf("unexpected image %s", got)
	}

	_, err = svc.Get(context.Background(), 99)
	var notFound *images.NotFoundError
	if !errors.As(err, &notFound) || notFound.Resource != "Image" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImageServiceRejectsUnknownFields(t *testing.T) {
	if _, err := images.NewService(testsupport.NewBunDB(t), images.WithExtraFields("tags")); err == nil {
		t.Fatal("expected error for unknown field")
	}
	svc, err := images.NewService(testsupport.NewBunDB(t), images.WithExtraFields("title", "file"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if got := svc.APIFields(); !reflect.DeepEqual(got, []string{"title", "width", "height", "file"}) {
		t.Fatalf("unexpected api fields %v", got)
	}
}
