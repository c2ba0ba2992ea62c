// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNewDisabledWithoutCredentials(t *testing.T) {
	c, err := New("", "fsn1", "", "", "media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("client should be nil when storage is unconfigured")
	}
}

func TestFileURL(t *testing.T) {
	c, err := New("https://s3.example.com/", "fsn1", "ak", "sk", "media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.FileURL("posts/p1.png"); got != "https://s3.example.com/media/posts/p1.png" {
		t.Errorf("FileURL = %q", got)
	}
}

func TestFileURLWithPublicURL(t *testing.T) {
	c, err := New("https://s3.example.com", "fsn1", "ak", "sk", "media", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.FileURL("posts/p1.png"); got != "https://cdn.example.com/posts/p1.png" {
		t.Errorf("FileURL = %q", got)
	}
}

func TestExtractKey(t *testing.T) {
	c, err := New("https://s3.example.com", "fsn1", "ak", "sk", "media", "https://cdn.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		url    string
		key    string
		wantOK bool
	}{
		{"https://cdn.example.com/posts/p1.png", "posts/p1.png", true},
		{"https://s3.example.com/media/posts/p2.png", "posts/p2.png", true},
		{"https://elsewhere.com/x.png", "", false},
	}
	for _, tt := range tests {
		key, ok := c.ExtractKey(tt.url)
		if key != tt.key || ok != tt.wantOK {
			t.Errorf("ExtractKey(%q) = (%q, %v), want (%q, %v)", tt.url, key, ok, tt.key, tt.wantOK)
		}
	}
}
