package browser_test

import (
	"testing"
	"webverify/pkg/browser"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{
			name: "lowercase scheme and host; add root path",
			in:   "HTTP://LocalHost:3000",
			out:  "http://localhost:3000/",
			ok:   true,
		},
		{
			name: "remove default http port",
			in:   "http://example.com:80/login",
			out:  "http://example.com/login",
			ok:   true,
		},
		{
			name: "clean path and drop trailing slash",
			in:   "http://localhost:3000//a/./b/../dashboard/",
			out:  "http://localhost:3000/a/dashboard",
			ok:   true,
		},
		{
			name: "sort query keys and values",
			in:   "http://localhost:3000/todo?b=2&a=2&a=1",
			out:  "http://localhost:3000/todo?a=1&a=2&b=2",
			ok:   true,
		},
		{
			name: "remove fragment",
			in:   "http://localhost:3000/login#form",
			out:  "http://localhost:3000/login",
			ok:   true,
		},
		{
			name: "relative url is rejected",
			in:   "/login",
			ok:   false,
		},
		{
			name: "invalid url returns error",
			in:   "http://exa mple.com",
			ok:   false,
		},
	}

	for _, tc := range cases {
		got, err := browser.NormalizeURL(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			if got != tc.out {
				t.Errorf("%s: got %q, want %q", tc.name, got, tc.out)
			}
		} else if err == nil {
			t.Errorf("%s: expected error, got none (result %q)", tc.name, got)
		}
	}
}

func TestJoinURL(t *testing.T) {
	cases := []struct {
		base, ref, out string
	}{
		{"http://localhost:3000", "/signup", "http://localhost:3000/signup"},
		{"http://localhost:3000/", "/login", "http://localhost:3000/login"},
		{"http://localhost:3001", "/", "http://localhost:3001/"},
		{"http://localhost:3001", "", "http://localhost:3001/"},
		{"http://example.com/app/", "/todo", "http://example.com/app/todo"},
		{"http://localhost:3000", "http://other:9000/x", "http://other:9000/x"},
	}

	for _, tc := range cases {
		got, err := browser.JoinURL(tc.base, tc.ref)
		if err != nil {
			t.Fatalf("JoinURL(%q, %q): unexpected error: %v", tc.base, tc.ref, err)
		}
		if got != tc.out {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tc.base, tc.ref, got, tc.out)
		}
	}
}

func TestSameURL(t *testing.T) {
	if !browser.SameURL("http://localhost:3000/login/", "http://LOCALHOST:3000/login") {
		t.Errorf("expected trailing slash and case to be ignored")
	}
	if browser.SameURL("http://localhost:3000/login", "http://localhost:3000/dashboard") {
		t.Errorf("different paths must not match")
	}
	if !browser.SameURL("about:blank", "about:blank") {
		t.Errorf("unparseable inputs should compare literally")
	}
}
