package engine

// Progress is the payload emitted to the observer, at most once every
// 50ms per active download. TransferRate is the cumulative average over
// the whole attempt in bytes per second. Never persisted.
type Progress struct {
	DownloadID   string  `json:"download_id"`
	Transferred  uint64  `json:"transferred"`
	TransferRate float64 `json:"transfer_rate"`
	Percentage   float64 `json:"percentage"`
}

// EmitFunc receives progress payloads. Implementations must not block;
// the aggregator calls it inline.
type EmitFunc func(Progress)
