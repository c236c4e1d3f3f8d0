package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type brotliWriter struct {
	gin.ResponseWriter
	encoder *brotli.Writer
	started bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	if !w.started {
		h := w.Header()
		h.Set("Content-Encoding", "br")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")
		w.encoder = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
		w.started = true
	}
	return w.encoder.Write(data)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *brotliWriter) Flush() {
	if w.started {
		_ = w.encoder.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) close() error {
	if !w.started {
		return nil
	}
	return w.encoder.Close()
}

// Compression brotli-encodes response bodies for clients that accept br.
// Websocket handshakes pass through untouched.
func (m *Middleware) Compression() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.Server.EnableCompression ||
			!strings.Contains(c.GetHeader("Accept-Encoding"), "br") ||
			strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		writer := &brotliWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		defer func() {
			c.Writer = writer.ResponseWriter
			if err := writer.close(); err != nil {
				m.logger.Debug("Failed to finish compressed response", zap.Error(err))
			}
		}()

		c.Next()
	}
}
