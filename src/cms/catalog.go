package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"tourbook/src/domain"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/tidwall/gjson"
)

// ListPackages fetches the whole catalog, retrying transient failures.
func (c *Client) ListPackages(ctx context.Context) ([]models.PackageView, error) {
	payload, err := c.getWithRetry(ctx, "/packages?populate=*")
	if err != nil {
		return nil, err
	}
	packages := []models.PackageView{}
	gjson.GetBytes(payload, "data").ForEach(func(_, item gjson.Result) bool {
		packages = append(packages, NormalizePackage(item, c.origin))
		return true
	})
	return packages, nil
}

// GetPackage fetches a single package by id, retrying transient failures.
func (c *Client) GetPackage(ctx context.Context, id uint) (*models.PackageView, error) {
	path := fmt.Sprintf("/packages?filters[id][$eq]=%d&populate=*", id)
	payload, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, err
	}
	item := gjson.GetBytes(payload, "data.0")
	if !item.Exists() {
		return nil, domain.NotFoundError{Resource: "package"}
	}
	view := NormalizePackage(item, c.origin)
	return &view, nil
}

func (c *Client) ListReviews(ctx context.Context, packageID uint) ([]models.Review, error) {
	payload, err := c.get(ctx, fmt.Sprintf("/reviews?filters[package][id][$eq]=%d", packageID))
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	gjson.GetBytes(payload, "data").ForEach(func(_, item gjson.Result) bool {
		reviews = append(reviews, NormalizeReview(item))
		return true
	})
	return reviews, nil
}

// TourImage is one image uploaded along with a tour.
type TourImage struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

func tourAttributes(body *types.TourRequestBody) map[string]any {
	available := "Not Available"
	if body.Available {
		available = "Available"
	}
	attrs := map[string]any{
		"title":        body.Title,
		"description":  RichText(body.Description),
		"price":        body.Price,
		"duration":     body.Duration,
		"capacity":     body.Capacity,
		"capacity_max": body.CapacityMax,
		"timeOfTour":   body.TimeOfTour,
		"specials":     body.Specials,
		"isAvailable":  available,
	}
	if body.StartDate != "" {
		attrs["startDate"] = body.StartDate
	}
	return attrs
}

// CreatePackage posts a tour as multipart: the attributes go in the "data"
// part and each image under "files.images".
func (c *Client) CreatePackage(ctx context.Context, body *types.TourRequestBody, images []TourImage) (uint, error) {
	attrs, err := json.Marshal(tourAttributes(body))
	if err != nil {
		return 0, err
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	if err := w.WriteField("data", string(attrs)); err != nil {
		return 0, err
	}
	for _, img := range images {
		if err := writeFilePart(w, "files.images", img.Filename, img.ContentType, img.Body); err != nil {
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	payload, err := c.do(ctx, http.MethodPost, "/packages", buf, w.FormDataContentType())
	if err != nil {
		return 0, err
	}
	return uint(gjson.GetBytes(payload, "data.id").Uint()), nil
}

func (c *Client) UpdatePackage(ctx context.Context, id uint, body *types.TourRequestBody) error {
	_, err := c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/packages/%d", id), dataEnvelope(tourAttributes(body)))
	return err
}

func (c *Client) DeletePackage(ctx context.Context, id uint) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/packages/%d", id), nil, "")
	return err
}

func writeFilePart(w *multipart.Writer, field, filename, contentType string, body io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, url.PathEscape(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, body)
	return err
}
