package settings

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/telemetry"
)

const DefaultFileName = "settings.json"

// FileRepo persists one Settings value as JSON in the data directory.
type FileRepo struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
	pub    telemetry.Publisher
}

func NewFileRepo(dataDir, fileName string, logger *log.Logger, pub telemetry.Publisher) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if fileName == "" {
		fileName = DefaultFileName
	}
	if logger == nil {
		logger = log.Default()
	}
	if pub == nil {
		pub = telemetry.Discard{}
	}
	return &FileRepo{
		path:   filepath.Join(dataDir, fileName),
		logger: logger,
		pub:    pub,
	}, nil
}

func (r *FileRepo) Path() string {
	return r.path
}

// Load reads the file through the anti-tamper loader. A missing file yields
// defaults.
func (r *FileRepo) Load() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Printf("settings: read %s: %v", r.path, err)
		}
		return Default()
	}
	return Load(b, r.logger)
}

func (r *FileRepo) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := Save(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, b, 0o644); err != nil {
		return err
	}
	r.pub.Publish(telemetry.New(telemetry.EventSettingSaved, telemetry.EventMetadata{
		"path":       r.path,
		"difficulty": s.DifficultyLevel,
	}))
	return nil
}
