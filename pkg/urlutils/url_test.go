package urlutils

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://itsdaniel.dk/", true},
		{"http://localhost:4321", true},
		{"itsdaniel.dk", false},
		{"/notes/", false},
		{"ftp://itsdaniel.dk/", false},
		{"mailto:hey@itsdaniel.dk", false},
		{"https://", false},
		{"", false},
		{"http://[::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidURL(tt.url); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		ref     string
		want    string
		wantErr bool
	}{
		{"entry path", "https://itsdaniel.dk/", "/notes/hello/", "https://itsdaniel.dk/notes/hello/", false},
		{"relative file", "https://itsdaniel.dk/", "sitemap-index.xml", "https://itsdaniel.dk/sitemap-index.xml", false},
		{"base without slash", "https://itsdaniel.dk", "sitemap-index.xml", "https://itsdaniel.dk/sitemap-index.xml", false},
		{"rooted path replaces base path", "https://example.com/blog/", "/notes/a/", "https://example.com/notes/a/", false},
		{"relative path keeps base path", "https://example.com/blog/", "notes/a/", "https://example.com/blog/notes/a/", false},
		{"absolute ref unchanged", "https://itsdaniel.dk/", "https://github.com/x", "https://github.com/x", false},
		{"root", "https://itsdaniel.dk/", "/", "https://itsdaniel.dk/", false},
		{"bad ref", "https://itsdaniel.dk/", "http://[::1", "", true},
		{"bad base", "http://[::1", "/notes/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
