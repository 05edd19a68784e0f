package propsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// Board is the on-disk board format: a snapshot timestamp plus the props a
// slip product currently offers.
type Board struct {
	UpdatedAt time.Time     `json:"updated_at"`
	Props     []models.Prop `json:"props"`
}

// FileSource reads the board from a JSON file on every call, so an external
// board scraper can rewrite the file between scans without a restart.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed board source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Props loads and parses the board file
func (s *FileSource) Props(ctx context.Context) ([]models.Prop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	var board Board
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("failed to parse board file %s: %w", s.path, err)
	}

	return board.Props, nil
}
