package inmem

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

// History keeps evaluation records in memory. Used by tests and by
// deployments that run without a database.
type History struct {
	mu      sync.RWMutex
	records []domain.EvalRecord
	byID    map[uuid.UUID]int
}

func NewHistory() *History {
	return &History{byID: make(map[uuid.UUID]int)}
}

func (s *History) Append(_ context.Context, record domain.EvalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[record.ID] = len(s.records)
	s.records = append(s.records, record)
	return nil
}

func (s *History) List(_ context.Context, page, size int) ([]domain.EvalRecord, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(newestFirst(s.records), page, size)
}

func (s *History) Get(_ context.Context, id uuid.UUID) (*domain.EvalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, apperr.NewNotFound("evaluation", id.String())
	}
	record := s.records[idx]
	return &record, nil
}

func (s *History) Search(_ context.Context, query string, page, size int) ([]domain.EvalRecord, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var matched []domain.EvalRecord
	for _, r := range s.records {
		if strings.Contains(strings.ToLower(r.Prompt), q) || strings.Contains(strings.ToLower(r.ModelOutput), q) {
			matched = append(matched, r)
		}
	}
	return paginate(newestFirst(matched), page, size)
}

func newestFirst(records []domain.EvalRecord) []domain.EvalRecord {
	ordered := make([]domain.EvalRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	return ordered
}

func paginate(records []domain.EvalRecord, page, size int) ([]domain.EvalRecord, int64, error) {
	total := int64(len(records))
	offset := (page - 1) * size
	if offset >= len(records) {
		return []domain.EvalRecord{}, total, nil
	}
	end := offset + size
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], total, nil
}

// Prompts keeps judge prompt versions in memory. Activation swaps the
// active flag under one lock so readers always observe exactly one active
// version.
type Prompts struct {
	mu            sync.RWMutex
	prompts       map[int64]domain.JudgePromptVersion
	nextVersion   int64
	activeVersion int64

	// history backs Stats; nil disables per-version aggregates.
	history *History
}

func NewPrompts(history *History) *Prompts {
	return &Prompts{
		prompts:     make(map[int64]domain.JudgePromptVersion),
		nextVersion: 1,
		history:     history,
	}
}

func (s *Prompts) Create(_ context.Context, name, template, description string, setActive bool) (*domain.JudgePromptVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.nextVersion
	s.nextVersion++

	// The first version is always active so the store never exists in a
	// zero-active state once seeded.
	if len(s.prompts) == 0 {
		setActive = true
	}

	if setActive {
		s.deactivateAllLocked()
	}

	prompt := domain.JudgePromptVersion{
		Version:     version,
		Name:        name,
		Template:    template,
		Description: description,
		IsActive:    setActive,
		CreatedAt:   time.Now().UTC(),
	}
	s.prompts[version] = prompt
	if setActive {
		s.activeVersion = version
	}

	return &prompt, nil
}

func (s *Prompts) Activate(_ context.Context, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.prompts[version]
	if !ok {
		return apperr.NewNotFound("judge prompt version", strconv.FormatInt(version, 10))
	}

	s.deactivateAllLocked()
	target.IsActive = true
	s.prompts[version] = target
	s.activeVersion = version
	return nil
}

func (s *Prompts) Get(_ context.Context, version int64) (*domain.JudgePromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompt, ok := s.prompts[version]
	if !ok {
		return nil, apperr.NewNotFound("judge prompt version", strconv.FormatInt(version, 10))
	}
	return &prompt, nil
}

func (s *Prompts) GetActive(_ context.Context) (*domain.JudgePromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompt, ok := s.prompts[s.activeVersion]
	if !ok {
		return nil, apperr.NewNotFound("active judge prompt", "none")
	}
	return &prompt, nil
}

func (s *Prompts) List(_ context.Context) ([]domain.JudgePromptVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompts := make([]domain.JudgePromptVersion, 0, len(s.prompts))
	for _, p := range s.prompts {
		prompts = append(prompts, p)
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Version < prompts[j].Version })
	return prompts, nil
}

func (s *Prompts) Stats(_ context.Context, version int64) (*domain.PromptStats, error) {
	stats := &domain.PromptStats{Version: version}
	if s.history == nil {
		return stats, nil
	}

	s.history.mu.RLock()
	defer s.history.mu.RUnlock()

	var latencySum, judgeLatencySum float64
	var latencyCount, judgeLatencyCount int64

	for _, r := range s.history.records {
		if r.JudgePromptVersion == nil || *r.JudgePromptVersion != version {
			continue
		}
		stats.TotalEvaluations++
		if r.Status == domain.StatusPassed {
			stats.Passed++
		}
		if r.LatencyMs != nil {
			latencySum += float64(*r.LatencyMs)
			latencyCount++
		}
		if r.JudgeLatencyMs != nil {
			judgeLatencySum += float64(*r.JudgeLatencyMs)
			judgeLatencyCount++
		}
	}

	if latencyCount > 0 {
		stats.AvgLatencyMs = latencySum / float64(latencyCount)
	}
	if judgeLatencyCount > 0 {
		stats.AvgJudgeLatencyMs = judgeLatencySum / float64(judgeLatencyCount)
	}
	return stats, nil
}

func (s *Prompts) deactivateAllLocked() {
	for v, p := range s.prompts {
		if p.IsActive {
			p.IsActive = false
			s.prompts[v] = p
		}
	}
}
