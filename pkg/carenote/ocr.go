package carenote

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// OCRExtract runs OCR over a single local image and returns the recognized
// text without creating a document.
func (c *Client) OCRExtract(ctx context.Context, imagePath string) (*OCRResult, error) {
	raw, err := c.sendMultipart(ctx, "ocr_extract", "/api/ocr/extract", []string{imagePath}, nil)
	if err != nil {
		return nil, err
	}
	var result OCRResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrap(err, "decode ocr result")
	}
	return &result, nil
}

// OCRProcess runs OCR over an image and persists the recognized narrative
// as a new document, which then flows through the normal pipeline.
func (c *Client) OCRProcess(ctx context.Context, imagePath, title string) (*Document, error) {
	fields := map[string]string{"title": title}
	raw, err := c.sendMultipart(ctx, "ocr_process", "/api/ocr/process", []string{imagePath}, fields)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode ocr document")
	}
	return &doc, nil
}

// OCRBatch uploads several images in one multipart request and returns a
// result per file, in upload order.
func (c *Client) OCRBatch(ctx context.Context, imagePaths []string) ([]OCRResult, error) {
	raw, err := c.sendMultipart(ctx, "ocr_batch", "/api/ocr/batch", imagePaths, nil)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		Results []OCRResult `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}
	var results []OCRResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, errors.Wrap(err, "decode ocr batch results")
	}
	return results, nil
}
