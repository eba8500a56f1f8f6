package content

import (
	"fmt"
	"strings"

	"storefront/internal/models"
)

const defaultImageHost = "https://cdn.sanity.io"

// ImageResolver turns opaque image asset references into fetchable URLs.
// It is pure: no network access.
type ImageResolver struct {
	host      string
	projectID string
	dataset   string
}

// NewImageResolver creates a resolver for a project's dataset
func NewImageResolver(projectID, dataset string) *ImageResolver {
	return &ImageResolver{
		host:      defaultImageHost,
		projectID: projectID,
		dataset:   dataset,
	}
}

// URL resolves an image field. Returns "" for a malformed reference.
func (r *ImageResolver) URL(image models.Image) string {
	return r.RefURL(image.Asset.Ref)
}

// RefURL resolves an asset reference of the form image-<id>-<w>x<h>-<ext>
// to <host>/images/<project>/<dataset>/<id>-<w>x<h>.<ext>
func (r *ImageResolver) RefURL(ref string) string {
	if !strings.HasPrefix(ref, "image-") {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(ref, "image-"), "-")
	if len(parts) != 3 {
		return ""
	}
	id, dimensions, ext := parts[0], parts[1], parts[2]
	if id == "" || ext == "" || !validDimensions(dimensions) {
		return ""
	}

	return fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", r.host, r.projectID, r.dataset, id, dimensions, ext)
}

func validDimensions(dimensions string) bool {
	w, h, ok := strings.Cut(dimensions, "x")
	if !ok {
		return false
	}
	return isDigits(w) && isDigits(h)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
