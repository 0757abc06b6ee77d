package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/creatorstation/postdesk/internal/models"
	"golang.org/x/exp/slices"
)

// CreatedAtLayout is how created_at is written to the CSV ledger.
const CreatedAtLayout = "2006-01-02 15:04:05"

// CSVStore keeps the whole ledger in one CSV file. Every mutation loads the
// file, changes it in memory and rewrites it completely.
type CSVStore struct {
	*ImageDir

	path string
	mu   sync.Mutex
}

func NewCSVStore(path string, images *ImageDir) *CSVStore {
	return &CSVStore{ImageDir: images, path: path}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Initialize(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensure(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return unavailable("create ledger directory", err)
		}
	}

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return unavailable("stat ledger", err)
	}
	return s.persist(nil)
}

func (s *CSVStore) LoadAll(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *CSVStore) Append(_ context.Context, post models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.Text = NormalizeText(post.Text)

	posts, err := s.load()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(posts, func(p models.Post) bool { return p.ID == post.ID }) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
	}
	if err := s.requireImage(post.Image); err != nil {
		return err
	}

	return s.persist(append(posts, post))
}

func (s *CSVStore) UpdateStatus(_ context.Context, id string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.load()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(posts, func(p models.Post) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err := checkTransition(posts[i].Status, status); err != nil {
		return err
	}

	posts[i].Status = status
	return s.persist(posts)
}

func (s *CSVStore) load() ([]models.Post, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, unavailable("open ledger", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, unavailable("parse ledger", err)
	}
	if len(rows) == 0 {
		return nil, unavailable("parse ledger", errors.New("missing header row"))
	}
	if !slices.Equal(rows[0], Columns) {
		return nil, unavailable("parse ledger", fmt.Errorf("unexpected header %v", rows[0]))
	}

	posts := make([]models.Post, 0, len(rows)-1)
	for n, row := range rows[1:] {
		post, err := decodeRow(row)
		if err != nil {
			return nil, unavailable("parse ledger", fmt.Errorf("row %d: %w", n+2, err))
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// persist writes the ledger to a temp file next to it and renames it into
// place, so readers never see a half-written ledger.
func (s *CSVStore) persist(posts []models.Post) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return unavailable("encode ledger", err)
	}
	for _, p := range posts {
		if err := w.Write(encodeRow(p)); err != nil {
			return unavailable("encode ledger", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return unavailable("encode ledger", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.csv")
	if err != nil {
		return unavailable("write ledger", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return unavailable("write ledger", err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write ledger", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return unavailable("write ledger", err)
	}
	return nil
}

func encodeRow(p models.Post) []string {
	return []string{
		p.ID,
		string(p.Platform),
		string(p.Type),
		p.Text,
		p.Image,
		string(p.Status),
		p.ScheduledTime,
		p.CreatedAt.Format(CreatedAtLayout),
	}
}

func decodeRow(row []string) (models.Post, error) {
	createdAt, err := time.ParseInLocation(CreatedAtLayout, row[7], time.Local)
	if err != nil {
		return models.Post{}, fmt.Errorf("created_at: %w", err)
	}
	post := models.Post{
		ID:            row[0],
		Platform:      models.Platform(row[1]),
		Type:          models.PostType(row[2]),
		Text:          row[3],
		Image:         row[4],
		Status:        models.Status(row[5]),
		ScheduledTime: row[6],
		CreatedAt:     createdAt,
	}
	if post.ID == "" {
		return models.Post{}, errors.New("empty id")
	}
	if !post.Status.Valid() {
		return models.Post{}, fmt.Errorf("unknown status %q", row[5])
	}
	return post, nil
}
