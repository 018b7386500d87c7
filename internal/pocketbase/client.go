package pocketbase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to a PocketBase-compatible record API. All writes require a
// bearer token obtained once via Authenticate.
type Client struct {
	BaseURL    string
	HttpClient *http.Client
	Log        *logrus.Entry

	token string
}

// NewClient builds a client for the given store URL.
func NewClient(baseURL string, log *logrus.Entry) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: 60 * time.Second},
		Log:        log,
	}
}

// Authenticate performs the admin login and keeps the returned token for all
// subsequent calls.
func (c *Client) Authenticate(email, password string) error {
	payload := map[string]string{"identity": email, "password": password}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := c.HttpClient.Post(
		c.BaseURL+"/api/admins/auth-with-password",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("auth rejected, status %s: %s", resp.Status, string(bodyBytes))
	}

	var auth authResponse
	if err := json.Unmarshal(bodyBytes, &auth); err != nil {
		return fmt.Errorf("decoding auth response: %w", err)
	}
	if auth.Token == "" {
		return fmt.Errorf("auth response contained no token")
	}

	c.token = auth.Token
	c.Log.Info("Authenticated with store")
	return nil
}

func (c *Client) do(method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("store returned %s for %s %s: %s", resp.Status, method, path, string(bodyBytes))
	}
	return bodyBytes, nil
}

func (c *Client) doJSON(method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	}
	respBytes, err := c.do(method, path, body, "application/json")
	if err != nil {
		return err
	}
	if out != nil {
		return json.Unmarshal(respBytes, out)
	}
	return nil
}

func listPath(collection, filter string, page, perPage int) string {
	q := url.Values{}
	q.Set("filter", filter)
	q.Set("page", fmt.Sprint(page))
	q.Set("perPage", fmt.Sprint(perPage))
	return fmt.Sprintf("/api/collections/%s/records?%s", collection, q.Encode())
}

// ListProducts returns products matching a PocketBase filter expression.
func (c *Client) ListProducts(filter string) ([]ProductRecord, error) {
	var list recordList[ProductRecord]
	if err := c.doJSON("GET", listPath("products", filter, 1, 1), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// ListCategories returns categories matching a PocketBase filter expression.
func (c *Client) ListCategories(filter string) ([]CategoryRecord, error) {
	var list recordList[CategoryRecord]
	if err := c.doJSON("GET", listPath("categories", filter, 1, 1), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// CreateProduct creates a new product record and returns it with its id.
func (c *Client) CreateProduct(rec ProductRecord) (ProductRecord, error) {
	var created ProductRecord
	err := c.doJSON("POST", "/api/collections/products/records", rec, &created)
	return created, err
}

// UpdateProduct overwrites the fields of an existing product record.
func (c *Client) UpdateProduct(id string, rec ProductRecord) (ProductRecord, error) {
	var updated ProductRecord
	err := c.doJSON("PATCH", "/api/collections/products/records/"+id, rec, &updated)
	return updated, err
}

// CreateCategory creates a new category record and returns it with its id.
func (c *Client) CreateCategory(rec CategoryRecord) (CategoryRecord, error) {
	var created CategoryRecord
	err := c.doJSON("POST", "/api/collections/categories/records", rec, &created)
	return created, err
}

// PatchProductFile attaches one local file to a product record via a
// multipart PATCH. field is "image" for the thumbnail or "images" for a
// gallery entry. The updated record is returned so callers can verify the
// field actually got set.
func (c *Client) PatchProductFile(id, field, filePath string) (ProductRecord, error) {
	var rec ProductRecord

	file, err := os.Open(filePath)
	if err != nil {
		return rec, fmt.Errorf("opening upload file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return rec, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return rec, err
	}
	if err := writer.Close(); err != nil {
		return rec, err
	}

	respBytes, err := c.do("PATCH", "/api/collections/products/records/"+id, &buf, writer.FormDataContentType())
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(respBytes, &rec); err != nil {
		return rec, fmt.Errorf("decoding upload response: %w", err)
	}
	return rec, nil
}
