package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeUploadService struct {
	lastName string
	url      string
	err      error
}

func (f *fakeUploadService) GeneratePresignedUpload(ctx context.Context, fileName string) (string, error) {
	f.lastName = fileName
	return f.url, f.err
}

func newImportRouter(service *fakeUploadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := NewImportController(service)
	r.GET("/import", controller.GetImportURL)
	return r
}

func TestGetImportURL(t *testing.T) {
	service := &fakeUploadService{url: "https://example.com/signed"}
	r := newImportRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/import?name=products.csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if service.lastName != "products.csv" {
		t.Fatalf("expected file name to be forwarded, got %q", service.lastName)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["url"] != "https://example.com/signed" {
		t.Fatalf("expected signed url in response, got %q", body["url"])
	}
}

func TestGetImportURLMissingName(t *testing.T) {
	service := &fakeUploadService{}
	r := newImportRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name parameter, got %d", w.Code)
	}
}

func TestGetImportURLIssuerError(t *testing.T) {
	service := &fakeUploadService{err: errors.New("s3 unavailable")}
	r := newImportRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/import?name=products.csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on issuer failure, got %d", w.Code)
	}
}
