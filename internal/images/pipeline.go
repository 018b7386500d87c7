package images

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PriceScraper/internal/pocketbase"
	"PriceScraper/utils"

	"github.com/sirupsen/logrus"
)

// Pipeline downloads product images and attaches them to a store record. The
// first successfully downloaded image becomes the thumbnail ("image" field),
// the rest become gallery entries ("images" field), uploaded one by one.
type Pipeline struct {
	Store       *pocketbase.Client
	HttpClient  *http.Client
	Log         *logrus.Entry
	TempDir     string
	UserAgent   string
	UploadDelay time.Duration
}

// NewPipeline builds a pipeline that stages downloads under tempDir. The
// caller owns tempDir's lifetime; individual files are removed here after
// each upload attempt.
func NewPipeline(store *pocketbase.Client, tempDir, userAgent string, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		Store:       store,
		HttpClient:  &http.Client{Timeout: 30 * time.Second},
		Log:         log,
		TempDir:     tempDir,
		UserAgent:   userAgent,
		UploadDelay: 500 * time.Millisecond,
	}
}

// AttachImages runs the full download-then-upload sequence for one record.
// Gallery failures are logged and skipped; only a missing thumbnail makes the
// whole run count as failed (returns false).
func (p *Pipeline) AttachImages(recordID string, imageURLs []string, productName string) bool {
	if len(imageURLs) == 0 {
		p.Log.Warnf("No images to upload for product: %s", productName)
		return false
	}

	var thumbnailFile string
	var galleryFiles []string

	for i, imgURL := range imageURLs {
		p.Log.Infof("Processing image %d/%d for %s", i+1, len(imageURLs), productName)
		path, err := p.download(imgURL, productName, i+1)
		if err != nil {
			p.Log.WithError(err).Warnf("Skipping image %d/%d for %s", i+1, len(imageURLs), productName)
			continue
		}
		if thumbnailFile == "" {
			thumbnailFile = path
		} else {
			galleryFiles = append(galleryFiles, path)
		}
	}

	thumbnailUploaded := false
	if thumbnailFile != "" {
		thumbnailUploaded = p.uploadOne(recordID, "image", thumbnailFile)
	}

	for idx, galleryFile := range galleryFiles {
		if ok := p.uploadOne(recordID, "images", galleryFile); !ok {
			p.Log.Errorf("Failed to upload gallery image %d for %s", idx+1, productName)
		}
		time.Sleep(p.UploadDelay)
	}

	if !thumbnailUploaded {
		p.Log.Warnf("Failed to upload thumbnail image for %s", productName)
		return false
	}
	return true
}

// download fetches one image URL into a temp file named from the slugified
// product name and a 1-based index. Non-200 responses and non-image content
// types are rejected.
func (p *Pipeline) download(imgURL, productName string, index int) (string, error) {
	req, err := http.NewRequest("GET", imgURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := p.HttpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("invalid content type %q", contentType)
	}

	filename := fmt.Sprintf("%s-%d.%s", utils.CreateSlug(productName), index, extensionFor(contentType))
	path := filepath.Join(p.TempDir, filename)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// uploadOne PATCHes a single file onto the record and verifies the response
// actually carries the field. The temp file is removed whatever happens.
func (p *Pipeline) uploadOne(recordID, field, path string) (ok bool) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.Log.WithError(err).Warnf("Could not remove temporary file %s", path)
		}
	}()

	rec, err := p.Store.PatchProductFile(recordID, field, path)
	if err != nil {
		p.Log.WithError(err).Errorf("Failed to upload %s for record %s", field, recordID)
		return false
	}

	switch field {
	case "image":
		if rec.Image == "" {
			p.Log.Warnf("Upload accepted but image field is empty in response for %s", recordID)
		} else {
			p.Log.Infof("Verified thumbnail was saved as: %s", rec.Image)
		}
	case "images":
		if len(rec.Images) == 0 {
			p.Log.Warnf("Upload accepted but images field is empty in response for %s", recordID)
		} else {
			p.Log.Infof("Verified gallery saved, record now has %d images", len(rec.Images))
		}
	}
	return true
}

// extensionFor maps a content type to a file extension: jpeg becomes jpg,
// anything unrecognized defaults to webp.
func extensionFor(contentType string) string {
	ext := strings.ToLower(contentType)
	if i := strings.LastIndex(ext, "/"); i >= 0 {
		ext = ext[i+1:]
	}
	if i := strings.Index(ext, ";"); i >= 0 {
		ext = ext[:i]
	}
	switch ext {
	case "jpeg", "jpg":
		return "jpg"
	case "png", "webp", "gif":
		return ext
	default:
		return "webp"
	}
}
