package storefrontserver

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	mediaports "github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
)

// MaxUploadFileBytes bounds a single uploaded image.
const MaxUploadFileBytes = 10 << 20

// UploadAPI wires multipart uploads with the media service.
type UploadAPI struct {
	service mediaports.Service
}

func NewUploadAPI(service mediaports.Service) UploadAPI {
	return UploadAPI{service: service}
}

// UploadResponse lists the public URLs of the stored images in request order.
type UploadResponse struct {
	Success bool     `json:"success"`
	URLs    []string `json:"urls"`
}

// Post /api/upload
// Stores product images
func (api *UploadAPI) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondBadRequest(c, err)
		return
	}
	input := mediaports.UploadInput{ProductName: domain.DefaultProductName}
	if form != nil {
		if names := form.Value["productName"]; len(names) > 0 && names[0] != "" {
			input.ProductName = names[0]
		}
		for _, header := range form.File["files"] {
			if header.Size > MaxUploadFileBytes {
				respondStatus(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("%s exceeds %d bytes", header.Filename, MaxUploadFileBytes))
				return
			}
			data, err := readPart(header)
			if err != nil {
				respondBadRequest(c, err)
				return
			}
			input.Files = append(input.Files, mediaports.File{Filename: header.Filename, Data: data})
		}
	}
	urls, err := api.service.Upload(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UploadResponse{Success: true, URLs: urls})
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, MaxUploadFileBytes+1))
}
