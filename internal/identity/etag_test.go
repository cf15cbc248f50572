package identity

import "testing"

func TestETagIsStableAndCaseSensitive(t *testing.T) {
	a := ETag([]byte(`{"title":"Emma"}`))
	if a != ETag([]byte(`{"title":"Emma"}`)) {
		t.Fatal("same body must produce the same tag")
	}
	if a == ETag([]byte(`{"title":"emma"}`)) {
		t.Fatal("bodies differing in case must produce different tags")
	}
	if len(a) != 38 || a[0] != '"' || a[len(a)-1] != '"' {
		t.Fatalf("unexpected tag format %s", a)
	}
}

func TestMatchesETag(t *testing.T) {
	tag := ETag([]byte("body"))
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{tag, true},
		{"W/" + tag, true},
		{`"other", ` + tag, true},
		{"*", true},
		{`"other"`, false},
	}
	for _, tc := range cases {
		if got := MatchesETag(tc.header, tag); got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.header, got, tc.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(" abc "); got != "abc" {
		t.Fatalf("expected header value, got %q", got)
	}
	if a, b := RequestID(""), RequestID(""); a == "" || a == b {
		t.Fatalf("expected random ids, got %q and %q", a, b)
	}
}
