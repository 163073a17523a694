package domain

import "context"

// Extractor is the external named-entity-recognition service. It may return
// entity types beyond DATE and LOCATION; classification ignores those.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]ExtractedEntity, error)
}

// DataService is the climate data provider. The service layer calls the
// three operations strictly in sequence: Submit → Resolve → Fetch.
type DataService interface {
	// Submit queues a data request and returns the provider's handle for it.
	Submit(ctx context.Context, req DataRequest) (DownloadLink, error)

	// Resolve waits for the request to complete and returns the download URL.
	Resolve(ctx context.Context, link DownloadLink) (string, error)

	// Fetch downloads the result payload.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
