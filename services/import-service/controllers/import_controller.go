package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultContextTimeout = 30 * time.Second

// UploadURLIssuer defines the interface for generating presigned upload URLs.
type UploadURLIssuer interface {
	GeneratePresignedUpload(ctx context.Context, fileName string) (string, error)
}

// ImportController handles the import-service HTTP surface.
type ImportController struct {
	uploads UploadURLIssuer
	timeout time.Duration
}

func NewImportController(uploads UploadURLIssuer) *ImportController {
	return &ImportController{
		uploads: uploads,
		timeout: defaultContextTimeout,
	}
}

// GetImportURL returns a presigned PUT URL for the CSV named by the `name`
// query parameter.
func (ic *ImportController) GetImportURL(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameter: name"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ic.timeout)
	defer cancel()

	url, err := ic.uploads.GeneratePresignedUpload(ctx, name)
	if err != nil {
		zap.L().Error("Failed to generate signed URL", zap.Error(err), zap.String("name", name))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
