package storage

import (
	"booking-restaurant-server/config"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadBase64(t *testing.T) {
	var gotPublicID, gotSignature string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		gotPublicID = r.PostForm.Get("public_id")
		gotSignature = r.PostForm.Get("signature")
		w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/restaurants/abc.jpg"}`))
	}))
	defer srv.Close()

	store := NewImageStore(config.ImageConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "restaurants"}, srv.URL)
	url, err := store.UploadBase64(context.Background(), "data:image/png;base64,aGVsbG8=", "abc")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/image/upload/v1/restaurants/abc.jpg" {
		t.Fatalf("unexpected url %s", url)
	}
	if gotPublicID != "restaurants/abc" {
		t.Fatalf("expected folder-prefixed public id, got %s", gotPublicID)
	}
	if gotSignature == "" {
		t.Fatal("expected signed upload")
	}
}

func TestUploadBase64HostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewImageStore(config.ImageConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"}, srv.URL)
	if _, err := store.UploadBase64(context.Background(), "aGVsbG8=", "abc"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestUploadNotConfigured(t *testing.T) {
	store := NewImageStore(config.ImageConfig{}, "")
	if _, err := store.UploadBase64(context.Background(), "aGVsbG8=", "abc"); err != ErrImagesNotConfigured {
		t.Fatalf("expected ErrImagesNotConfigured, got %v", err)
	}
}
