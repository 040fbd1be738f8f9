// Package dto defines data transfer objects for the media feature's HTTP transport layer.
package dto

// UploadReq represents the request body for requesting a media upload.
type UploadReq struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// DownloadRes represents the response carrying a presigned download URL.
type DownloadRes struct {
	URL string `json:"url"`
}
