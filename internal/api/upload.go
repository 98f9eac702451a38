package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
)

const uploadField = "file"

// readUpload reads the multipart file field into memory, refusing anything
// larger than service.MaxImageSize.
func readUpload(c *gin.Context) (*service.ImageUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request too large", service.ErrInvalidImage)
		}
		return nil, fmt.Errorf("%w: missing %q file field", service.ErrInvalidImage, uploadField)
	}
	if header.Size > service.MaxImageSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", service.ErrInvalidImage, service.MaxImageSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &service.ImageUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
