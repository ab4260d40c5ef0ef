package storage

import (
	"booking-restaurant-server/config"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kataras/golog"
)

var Images *ImageStore

var ErrImagesNotConfigured = errors.New("image host is not configured")

// ImageStore uploads restaurant and menu images to Cloudinary using signed requests.
type ImageStore struct {
	cfg     config.ImageConfig
	baseURL string
	client  *http.Client
}

func NewImageStore(cfg config.ImageConfig, baseURL string) *ImageStore {
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com"
	}
	return &ImageStore{cfg: cfg, baseURL: strings.TrimRight(baseURL, "/"), client: &http.Client{Timeout: 30 * time.Second}}
}

func InitializeImages(cfg config.ImageConfig) {
	Images = NewImageStore(cfg, "")
	if cfg.CloudName == "" {
		golog.Warn("⚠️  CLOUDINARY_CLOUD_NAME not set, image uploads disabled")
	}
}

func (s *ImageStore) configured() bool {
	return s != nil && s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

func (s *ImageStore) publicID(id string) string {
	if s.cfg.Folder != "" && id != "" {
		return s.cfg.Folder + "/" + id
	}
	return id
}

// sign builds the Cloudinary SHA1 signature for public_id + timestamp.
func (s *ImageStore) sign(publicID, timestamp string) string {
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, s.cfg.APISecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
}

// UploadBase64 uploads a base64 image (optionally a data URL) and returns its secure URL.
func (s *ImageStore) UploadBase64(ctx context.Context, base64ImageSrc, publicID string) (string, error) {
	if !s.configured() {
		return "", ErrImagesNotConfigured
	}
	if base64ImageSrc == "" {
		return "", errors.New("empty image payload")
	}

	payload := base64ImageSrc
	if i := strings.Index(base64ImageSrc, ","); i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	finalPublicID := s.publicID(publicID)
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", s.cfg.APIKey)
	if finalPublicID != "" {
		form.Add("public_id", finalPublicID)
	}
	form.Add("timestamp", timestamp)
	form.Add("signature", s.sign(finalPublicID, timestamp))

	body, err := s.post(ctx, "/v1_1/"+s.cfg.CloudName+"/image/upload", form)
	if err != nil {
		return "", err
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if cloudRes.Error.Message != "" {
		return "", errors.New(cloudRes.Error.Message)
	}

	urlOut := cloudRes.SecureURL
	if urlOut == "" {
		urlOut = cloudRes.URL
	}
	if urlOut == "" {
		return "", errors.New("no url returned from image host")
	}
	return urlOut, nil
}

// Delete removes an uploaded image given the URL previously returned by UploadBase64.
func (s *ImageStore) Delete(ctx context.Context, imageURL string) error {
	if !s.configured() {
		return ErrImagesNotConfigured
	}
	// URL format: https://res.cloudinary.com/{cloud_name}/image/upload/v{version}/{public_id}.{format}
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return fmt.Errorf("not a hosted image url: %s", imageURL)
	}
	parts := strings.Split(imageURL, "/")
	lastPart := parts[len(parts)-1]
	finalPublicID := s.publicID(strings.Split(lastPart, ".")[0])
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", finalPublicID)
	form.Add("api_key", s.cfg.APIKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", s.sign(finalPublicID, timestamp))

	_, err := s.post(ctx, "/v1_1/"+s.cfg.CloudName+"/image/destroy", form)
	return err
}

func (s *ImageStore) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned status %d: %s", res.StatusCode, string(body))
	}
	return body, nil
}
