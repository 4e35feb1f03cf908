package domain

type UploadPurpose string

const (
	UploadPurposeVehicle  UploadPurpose = "vehicle"
	UploadPurposeDocument UploadPurpose = "document"
	UploadPurposeChat     UploadPurpose = "chat"
	UploadPurposeAd       UploadPurpose = "ad"
)

type UploadTicket struct {
	Key         string `json:"key"`
	UploadURL   string `json:"upload_url"`
	DownloadURL string `json:"download_url"`
	ContentType string `json:"content_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// StoredObject is a confirmed upload. Identity documents get a signed,
// short-lived URL with ExpiresAt set; everything else a public one.
type StoredObject struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	Size      int64  `json:"size,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
