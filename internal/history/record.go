package history

import "time"

// Record is one completed processing run. Immutable after Save assigns its
// identifier and timestamp.
type Record struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	SourceFile  string    `json:"source_file"`
	FileType    string    `json:"file_type"`
	Language    string    `json:"language"`
	Transcript  string    `json:"transcript"`
	Titles      []string  `json:"titles,omitempty"`
	Description string    `json:"description,omitempty"`
	BlogPost    string    `json:"blog_post,omitempty"`
}
