package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/blogtext"
)

// Ensure FileStore implements blogtext.PostStore at compile time.
var _ blogtext.PostStore = (*FileStore)(nil)

// FileStore implements blogtext.PostStore. Posts are staged in a sibling
// temporary directory and moved into the output directory on Commit, so an
// aborted run leaves the output directory untouched.
type FileStore struct {
	baseDir  string
	name     string
	detector blogtext.LanguageDetector
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLanguageDetector records each post's detected language in its
// front matter.
func WithLanguageDetector(d blogtext.LanguageDetector) Option {
	return func(s *FileStore) {
		s.detector = d
	}
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		name:    name,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes post to the temporary directory.
func (s *FileStore) Save(ctx context.Context, post *blogtext.ExtractedPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post == nil {
		return blogtext.Errorf(blogtext.EINVALID, "post required")
	}

	var language string
	if s.detector != nil {
		language = s.detector.DetectLanguage(post.Content)
	}

	content, err := formatPost(post, language)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.tempDir(), FileName(post)), []byte(content), 0644)
}

// Commit moves everything saved so far into the output directory,
// creating it when missing. Files already there are kept unless a saved
// post has the same file name, in which case it is overwritten.
func (s *FileStore) Commit() error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(s.finalDir(), 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(s.tempDir())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Rename(filepath.Join(s.tempDir(), e.Name()), filepath.Join(s.finalDir(), e.Name())); err != nil {
			return err
		}
	}
	return os.RemoveAll(s.tempDir())
}

// Abort discards everything saved so far.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
