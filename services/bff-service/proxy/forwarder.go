package proxy

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Forwarder relays requests to downstream services by the first path
// segment: /product/... goes to the product service base URL with the
// segment stripped.
type Forwarder struct {
	services map[string]string
	client   *http.Client
}

func NewForwarder(services map[string]string) *Forwarder {
	return &Forwarder{
		services: services,
		client:   http.DefaultClient,
	}
}

// Handle is mounted on /:service/*any.
func (f *Forwarder) Handle(c *gin.Context) {
	serviceName := c.Param("service")
	base, ok := f.services[serviceName]
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Cannot process request"})
		return
	}

	targetURL := base + c.Param("any")
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	zap.L().Info("Forwarding request",
		zap.String("method", c.Request.Method),
		zap.String("service", serviceName),
		zap.String("url", targetURL),
	)

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		zap.L().Error("Failed to create forward request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}
	for k, v := range c.Request.Header {
		req.Header[k] = v
	}

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Error("Failed to forward request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if isHopByHopHeader(k) {
			continue
		}
		c.Header(k, strings.Join(v, ","))
	}
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		zap.L().Error("Failed to copy response body", zap.Error(err))
	}
}

func isHopByHopHeader(key string) bool {
	switch strings.ToLower(key) {
	case "connection", "keep-alive", "proxy-authenticate", "proxy-authorization",
		"te", "trailers", "transfer-encoding", "upgrade":
		return true
	}
	return false
}
