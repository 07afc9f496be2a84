package executor

// Chunk represents one segment of a remote agent's response stream. Concrete
// chunk types implement the unexported isChunk marker enabling a closed set.
type Chunk interface{ isChunk() }

// TextChunk is a plain text response fragment.
type TextChunk struct {
	Text string
}

// isChunk implements the Chunk interface for TextChunk.
func (TextChunk) isChunk() {}

// DataChunk is a structured response segment (a JSON object map).
type DataChunk struct {
	Data map[string]any
}

// isChunk implements the Chunk interface for DataChunk.
func (DataChunk) isChunk() {}
