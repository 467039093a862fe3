package model

// ChunkSourceTranscript tags chunks produced by transcript ingestion.
const ChunkSourceTranscript = "transcript"

type ChunkMetadata struct {
	Source  string `json:"source"`
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
	FileKey string `json:"file_key,omitempty"`
}

// TranscriptChunk is one embedded text segment in the vector store.
// Chunks are immutable once stored; re-ingestion appends new ones.
type TranscriptChunk struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Embedding []float32     `json:"-"`
	Metadata  ChunkMetadata `json:"metadata"`
	Ctime     int64         `json:"ctime"`
}
