package lesson

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DirName is the per-workspace directory holding all codewalk state.
	DirName = ".codewalk"

	masterFile = "lessons.json"
	bodyDir    = "lessons"
)

// Store is the sole authority for lesson identity, persistence and
// active-lesson selection. Reads are fail-soft: a missing or hand-mangled
// file behaves like an empty store rather than an error, because the files
// are plain JSON and editing them by hand is a supported workflow. Write
// failures are real errors and propagate.
type Store struct {
	dir      string // <workspace-root>/.codewalk
	onChange func(active *Summary)
}

// NewStore returns a Store rooted at the given workspace root. Nothing is
// created on disk until the first write.
func NewStore(root string) *Store {
	return &Store{dir: filepath.Join(root, DirName)}
}

// FindRoot walks up from dir to the nearest directory containing DirName and
// returns it. When no store exists anywhere above, dir itself is the root
// (a fresh workspace).
func FindRoot(dir string) string {
	cur := dir
	for {
		if info, err := os.Stat(filepath.Join(cur, DirName)); err == nil && info.IsDir() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// Dir returns the state directory this store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// Subscribe registers fn to run after every successful mutation, with the
// summary of the lesson that is active afterwards (nil when none). A single
// slot: a later call replaces the earlier registration.
func (s *Store) Subscribe(fn func(active *Summary)) {
	s.onChange = fn
}

// Create trims title, assigns the next id, persists an empty lesson and
// makes it the active one.
func (s *Store) Create(title string) (*Lesson, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Msg: "lesson title is empty"}
	}

	st := s.loadMaster()
	id := st.nextID()
	l := &Lesson{ID: id, Title: title, Notes: []Note{}}
	if err := s.writeBody(l); err != nil {
		return nil, err
	}

	st.Lessons = append(st.Lessons, Summary{ID: id, Title: title})
	st.ActiveID = &id
	st.NextID = id + 1
	if err := s.writeMaster(st); err != nil {
		return nil, err
	}
	s.notify(st)
	return l, nil
}

// Active resolves the active lesson. Nil when none is set or when the
// referenced body is missing or unparsable.
func (s *Store) Active() *Lesson {
	st := s.loadMaster()
	if st.ActiveID == nil {
		return nil
	}
	return s.Get(*st.ActiveID)
}

// ActiveSummary returns the index entry of the active lesson without loading
// its body. Nil when none is set.
func (s *Store) ActiveSummary() *Summary {
	return s.loadMaster().activeSummary()
}

// Get loads the full lesson body for id. Nil when absent or unparsable.
func (s *Store) Get(id int) *Lesson {
	data, err := os.ReadFile(s.bodyPath(id))
	if err != nil {
		return nil
	}
	var l Lesson
	if err := json.Unmarshal(data, &l); err != nil {
		return nil
	}
	if l.Notes == nil {
		l.Notes = []Note{}
	}
	return &l
}

// List returns the lesson summaries in creation order.
func (s *Store) List() []Summary {
	return s.loadMaster().Lessons
}

// SetActive marks id as the lesson new notes are appended to.
func (s *Store) SetActive(id int) error {
	st := s.loadMaster()
	if st.summaryByID(id) == nil {
		return ErrNotFound
	}
	st.ActiveID = &id
	if err := s.writeMaster(st); err != nil {
		return err
	}
	s.notify(st)
	return nil
}

// Save overwrites the stored body for l.ID with the given value. The index
// is untouched: id and title are assumed unchanged.
func (s *Store) Save(l *Lesson) error {
	if err := s.writeBody(l); err != nil {
		return err
	}
	s.notify(s.loadMaster())
	return nil
}

// Delete removes the lesson body and its index entry. When the deleted
// lesson was active, the first remaining lesson in creation order becomes
// active, or none when the store is empty afterwards. The freed id is never
// reassigned.
func (s *Store) Delete(id int) error {
	st := s.loadMaster()
	if st.summaryByID(id) == nil {
		return ErrNotFound
	}

	// A body that is already gone is not an error.
	if err := os.Remove(s.bodyPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lesson body: %w", err)
	}

	kept := make([]Summary, 0, len(st.Lessons))
	for _, sum := range st.Lessons {
		if sum.ID != id {
			kept = append(kept, sum)
		}
	}
	st.Lessons = kept

	if st.ActiveID != nil && *st.ActiveID == id {
		st.ActiveID = nil
		if len(kept) > 0 {
			first := kept[0].ID
			st.ActiveID = &first
		}
	}

	if err := s.writeMaster(st); err != nil {
		return err
	}
	s.notify(st)
	return nil
}

// masterState is the persisted index: which lesson ids exist, which one is
// active, and the high-water id counter. NextID survives deletion of the
// highest lesson so freed ids are never reused; when a hand-written file
// omits it, the counter re-seeds from the highest indexed id.
type masterState struct {
	ActiveID *int      `json:"activeLessonId"`
	NextID   int       `json:"nextId,omitempty"`
	Lessons  []Summary `json:"lessons"`
}

func (st *masterState) summaryByID(id int) *Summary {
	for i := range st.Lessons {
		if st.Lessons[i].ID == id {
			return &st.Lessons[i]
		}
	}
	return nil
}

func (st *masterState) activeSummary() *Summary {
	if st.ActiveID == nil {
		return nil
	}
	if sum := st.summaryByID(*st.ActiveID); sum != nil {
		out := *sum
		return &out
	}
	return nil
}

func (st *masterState) nextID() int {
	next := 1
	for _, sum := range st.Lessons {
		if sum.ID >= next {
			next = sum.ID + 1
		}
	}
	if st.NextID > next {
		next = st.NextID
	}
	return next
}

// loadMaster reads the index, folding missing or unparsable content to the
// empty state. An active pointer that no longer resolves to an indexed
// lesson is dropped rather than surfaced.
func (s *Store) loadMaster() *masterState {
	empty := &masterState{Lessons: []Summary{}}
	data, err := os.ReadFile(filepath.Join(s.dir, masterFile))
	if err != nil {
		return empty
	}
	var st masterState
	if err := json.Unmarshal(data, &st); err != nil {
		return empty
	}
	if st.Lessons == nil {
		st.Lessons = []Summary{}
	}
	if st.ActiveID != nil && st.summaryByID(*st.ActiveID) == nil {
		st.ActiveID = nil
	}
	return &st
}

func (s *Store) writeMaster(st *masterState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lesson index: %w", err)
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, masterFile), data)
}

func (s *Store) writeBody(l *Lesson) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lesson %d: %w", l.ID, err)
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	return writeFileAtomic(s.bodyPath(l.ID), data)
}

// ensureDir performs the lazy idempotent setup before any write.
func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.bodyDirPath(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

func (s *Store) bodyDirPath() string {
	return filepath.Join(s.dir, bodyDir)
}

func (s *Store) bodyPath(id int) string {
	return filepath.Join(s.bodyDirPath(), fmt.Sprintf("lesson-%d.json", id))
}

func (s *Store) notify(st *masterState) {
	if s.onChange == nil {
		return
	}
	s.onChange(st.activeSummary())
}

// writeFileAtomic writes data to path via a temp file in the same directory
// so the final os.Rename is atomic and a crash cannot leave a half-written
// file at path.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to persist %s: %w", filepath.Base(path), err)
	}
	return nil
}
