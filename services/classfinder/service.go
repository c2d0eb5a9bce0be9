// Package classfinder locates the course sections a student is
// enrolled in by scanning every (course, section) roster page of the
// catalog against one NRP.
package classfinder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"classfinder-backend/lib/scrapers/akademik"
	"classfinder-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = telemetry.Tracer("classfinder.services.classfinder")

var (
	ErrMissingInput   = fmt.Errorf("an NRP and a session id are required")
	ErrInvalidSession = fmt.Errorf("invalid or expired session")
)

// Match is one section the student was found in. json tags follow the
// portal front end's historical field names.
type Match struct {
	CourseCode string `json:"mk_id"`
	Semester   int    `json:"semester"`
	Section    string `json:"kelas"`
	Name       string `json:"name"`
	Course     string `json:"course_name"`
	Credits    int    `json:"credits"`
}

type Options struct {
	// courses scanned per batch, defaults to 3. this is the
	// politeness margin against the upstream, not a protocol limit.
	BatchSize int
	// wall clock budget for a whole scan, defaults to 60s
	ScanBudget time.Duration
}

type Service struct {
	client     *akademik.Client
	catalog    Catalog
	batchSize  int
	scanBudget time.Duration
}

func NewService(client *akademik.Client, catalog Catalog, opts Options) Service {
	if opts.BatchSize == 0 {
		opts.BatchSize = 3
	}
	if opts.ScanBudget == 0 {
		opts.ScanBudget = time.Minute
	}
	return Service{
		client:     client,
		catalog:    catalog,
		batchSize:  opts.BatchSize,
		scanBudget: opts.ScanBudget,
	}
}

func (s Service) Catalog() Catalog {
	return s.catalog
}

// Scan validates the session once, then walks the catalog in batches,
// fanning out one roster fetch per section of each course. sections
// whose fetches fail every retry contribute no match and do not abort
// the scan. results come back in catalog order regardless of request
// completion order.
func (s Service) Scan(ctx context.Context, nrp, sessionID string) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "service:Scan")
	defer span.End()

	if nrp == "" || sessionID == "" {
		return nil, ErrMissingInput
	}
	span.SetAttributes(attribute.String("nrp", nrp))

	if !s.client.CheckSession(ctx, sessionID) {
		span.SetStatus(codes.Error, ErrInvalidSession.Error())
		return nil, ErrInvalidSession
	}

	ctx, cancel := context.WithTimeout(ctx, s.scanBudget)
	defer cancel()

	results := []Match{}
	for _, batch := range batches(s.catalog.Courses, s.batchSize) {
		for _, course := range batch {
			found, err := s.scanCourse(ctx, course.Code, nrp, sessionID)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			for _, match := range found {
				results = append(results, s.enrich(match))
			}
		}
	}

	span.SetAttributes(attribute.Int("matches", len(results)))
	return results, nil
}

// scanCourse checks every allowed section of one course concurrently.
// only context cancellation is an error here, a dead section is logged
// and skipped.
func (s Service) scanCourse(ctx context.Context, courseCode, nrp, sessionID string) ([]Match, error) {
	group, ctx := errgroup.WithContext(ctx)

	found := make([]*Match, len(s.catalog.Sections))
	var mu sync.Mutex

	for i, section := range s.catalog.Sections {
		i, section := i, section
		group.Go(func() error {
			students, err := s.client.FetchRoster(ctx, akademik.RosterQuery{
				Department:     s.catalog.Department,
				CourseCode:     courseCode,
				Section:        section,
				Semester:       s.catalog.Semester,
				Year:           s.catalog.Year,
				CurriculumYear: s.catalog.CurriculumYear,
			}, sessionID)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.DebugContext(
					ctx, "section skipped",
					"course", courseCode,
					"section", section,
					"err", err,
				)
				return nil
			}

			for _, student := range students {
				if student.NRP != nrp {
					continue
				}
				mu.Lock()
				found[i] = &Match{
					CourseCode: courseCode,
					Semester:   s.catalog.Semester,
					Section:    section,
					Name:       student.Name,
					Course:     student.Course,
				}
				mu.Unlock()
				break
			}
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	// section-label order, independent of completion order
	var matches []Match
	for _, match := range found {
		if match != nil {
			matches = append(matches, *match)
		}
	}
	return matches, nil
}

// credit hours come from the static catalog, not the roster page. kept
// apart from the matching loop so the lookup stays swappable.
func (s Service) enrich(match Match) Match {
	match.Credits = s.catalog.Credits(match.CourseCode)
	return match
}

func batches(courses []Course, size int) [][]Course {
	var out [][]Course
	for start := 0; start < len(courses); start += size {
		end := start + size
		if end > len(courses) {
			end = len(courses)
		}
		out = append(out, courses[start:end])
	}
	return out
}
