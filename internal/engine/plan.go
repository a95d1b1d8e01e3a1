package engine

// DefaultConnections is the segment count used for fresh plans.
const DefaultConnections = 8

// SegmentRange is one contiguous byte window of the resource, with Start
// and End inclusive. Downloaded counts bytes already written to the output
// file for this window.
type SegmentRange struct {
	Start      int64 `json:"start"`
	End        int64 `json:"end"`
	Downloaded int64 `json:"downloaded"`
}

func (s SegmentRange) Length() int64 {
	return s.End - s.Start + 1
}

// DownloadPlan describes one download attempt: the target, its total size
// and the ordered partition into segments. Plans loaded from a state file
// keep the concurrency recorded at creation, which may differ from the
// current default.
type DownloadPlan struct {
	ID          string         `json:"id"`
	URL         string         `json:"url"`
	OutputPath  string         `json:"output"`
	TotalSize   int64          `json:"total_size"`
	Connections int            `json:"concurrency"`
	Segments    []SegmentRange `json:"segments"`
}

// NewPlan partitions [0, totalSize) into connections segments. Segment i
// spans [i*part, (i+1)*part-1]; the last segment absorbs the remainder so
// no byte is left unassigned. Connections is clamped so every segment owns
// at least one byte.
func NewPlan(id, url, outputPath string, totalSize int64, connections int) *DownloadPlan {
	if connections <= 0 {
		connections = DefaultConnections
	}
	if int64(connections) > totalSize {
		connections = int(totalSize)
	}
	part := totalSize / int64(connections)
	segments := make([]SegmentRange, connections)
	for i := range segments {
		start := int64(i) * part
		end := start + part - 1
		if i == connections-1 {
			end = totalSize - 1
		}
		segments[i] = SegmentRange{Start: start, End: end}
	}
	return &DownloadPlan{
		ID:          id,
		URL:         url,
		OutputPath:  outputPath,
		TotalSize:   totalSize,
		Connections: connections,
		Segments:    segments,
	}
}

// Transferred sums the recorded per-segment downloaded counts.
func (p *DownloadPlan) Transferred() int64 {
	var total int64
	for _, seg := range p.Segments {
		total += seg.Downloaded
	}
	return total
}
