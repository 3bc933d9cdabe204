// Package store persists surveys and completed responses.
//
// Store is the SQLite-backed catalogue of published surveys and their
// response records. DocumentStore writes individual survey documents as
// pretty-printed JSON files for hand-off to other tools.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a survey id does not exist.
var ErrNotFound = errors.New("survey not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Config holds store settings.
type Config struct {
	DataDir string
	// SeedDemo inserts the built-in demo survey on first open.
	SeedDemo bool
}

// StoredSurvey is a published survey with catalogue metadata.
type StoredSurvey struct {
	ID          string         `json:"id"`
	Adaptive    bool           `json:"adaptive"`
	AIGenerated bool           `json:"ai_generated"`
	CreatedAt   string         `json:"created_at"`
	Survey      *survey.Survey `json:"survey"`
}

// SurveySummary is a compact catalogue row.
type SurveySummary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Domain        string          `json:"domain"`
	Region        string          `json:"region"`
	AreaType      survey.AreaType `json:"area_type"`
	Adaptive      bool            `json:"adaptive"`
	AIGenerated   bool            `json:"ai_generated"`
	QuestionCount int             `json:"question_count"`
	ResponseCount int             `json:"response_count"`
	CreatedAt     string          `json:"created_at"`
}

// AddSurveyParams holds the input for publishing a survey.
type AddSurveyParams struct {
	// ID is generated when empty.
	ID          string
	Survey      *survey.Survey
	Adaptive    bool
	AIGenerated bool
}

// Stats aggregates the responses of one survey, or of all surveys when
// SurveyID is empty.
type Stats struct {
	SurveyID        string  `json:"survey_id,omitempty"`
	Responses       int     `json:"responses"`
	AvgQuality      float64 `json:"avg_quality"`
	AvgDuration     float64 `json:"avg_duration"`
	HighQualityRate float64 `json:"high_quality_rate"`
}

// HighQualityThreshold is the score at or above which a response counts as
// high quality in Stats.
const HighQualityThreshold = 0.8

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the survey catalogue backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a Store. It creates the data directory if needed, opens
// SQLite with WAL mode, runs migrations and optionally seeds the demo survey.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "mospi.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	if cfg.SeedDemo {
		if err := s.seedDemo(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: seed demo: %w", err)
		}
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS surveys (
			id           TEXT PRIMARY KEY,
			title        TEXT    NOT NULL,
			domain       TEXT    NOT NULL,
			region       TEXT    NOT NULL,
			area_type    TEXT    NOT NULL,
			language     TEXT    NOT NULL,
			adaptive     INTEGER NOT NULL DEFAULT 0,
			ai_generated INTEGER NOT NULL DEFAULT 0,
			document     TEXT    NOT NULL,
			created_at   TEXT    NOT NULL
		);

		CREATE TABLE IF NOT EXISTS responses (
			id            TEXT PRIMARY KEY,
			survey_id     TEXT NOT NULL,
			respondent_id TEXT NOT NULL,
			answers       TEXT NOT NULL,
			duration      REAL NOT NULL,
			quality_score REAL NOT NULL,
			completed_at  TEXT NOT NULL,
			FOREIGN KEY (survey_id) REFERENCES surveys(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_surveys_created ON surveys(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_responses_survey ON responses(survey_id);
	`)
	return err
}

func (s *Store) seedDemo() error {
	demo := survey.DemoSurvey()
	doc, err := json.Marshal(demo)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR IGNORE INTO surveys (id, title, domain, region, area_type, language, adaptive, ai_generated, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, 0, ?, ?)`,
		survey.DemoSurveyID, demo.Title, demo.Domain, demo.Region, string(demo.AreaType), demo.Language, string(doc), now(),
	)
	return err
}

// ─── Surveys ─────────────────────────────────────────────────────────────────

// AddSurvey publishes a survey and returns its id.
func (s *Store) AddSurvey(p AddSurveyParams) (string, error) {
	if p.Survey == nil {
		return "", errors.New("store: survey is required")
	}
	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	doc, err := json.Marshal(p.Survey)
	if err != nil {
		return "", fmt.Errorf("store: encode survey: %w", err)
	}
	sv := p.Survey
	_, err = s.db.Exec(
		`INSERT INTO surveys (id, title, domain, region, area_type, language, adaptive, ai_generated, document, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sv.Title, sv.Domain, sv.Region, string(sv.AreaType), sv.Language,
		boolInt(p.Adaptive), boolInt(p.AIGenerated), string(doc), now(),
	)
	if err != nil {
		return "", fmt.Errorf("store: insert survey %q: %w", id, err)
	}
	return id, nil
}

// GetSurvey retrieves a published survey by id.
func (s *Store) GetSurvey(id string) (*StoredSurvey, error) {
	row := s.db.QueryRow(
		`SELECT id, adaptive, ai_generated, document, created_at FROM surveys WHERE id = ?`, id,
	)
	var (
		ss          StoredSurvey
		adaptive    int
		aiGenerated int
		doc         string
	)
	if err := row.Scan(&ss.ID, &adaptive, &aiGenerated, &doc, &ss.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, err
	}
	ss.Adaptive = adaptive != 0
	ss.AIGenerated = aiGenerated != 0
	if err := json.Unmarshal([]byte(doc), &ss.Survey); err != nil {
		return nil, fmt.Errorf("store: decode survey %q: %w", id, err)
	}
	return &ss, nil
}

// ListSurveys returns catalogue rows, newest first.
func (s *Store) ListSurveys() ([]SurveySummary, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.title, s.domain, s.region, s.area_type, s.adaptive, s.ai_generated,
		       s.document, s.created_at, COUNT(r.id)
		FROM surveys s
		LEFT JOIN responses r ON r.survey_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SurveySummary
	for rows.Next() {
		var (
			sum         SurveySummary
			area        string
			adaptive    int
			aiGenerated int
			doc         string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Domain, &sum.Region, &area,
			&adaptive, &aiGenerated, &doc, &sum.CreatedAt, &sum.ResponseCount); err != nil {
			return nil, err
		}
		sum.AreaType = survey.AreaType(area)
		sum.Adaptive = adaptive != 0
		sum.AIGenerated = aiGenerated != 0
		var sv survey.Survey
		if err := json.Unmarshal([]byte(doc), &sv); err == nil {
			sum.QuestionCount = len(sv.Questions)
		}
		results = append(results, sum)
	}
	return results, rows.Err()
}

// DeleteSurvey removes a survey and its responses.
func (s *Store) DeleteSurvey(id string) error {
	res, err := s.db.Exec(`DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete survey %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// ─── Responses ───────────────────────────────────────────────────────────────

// AddResponse stores a completed session record. It returns ErrNotFound
// when the survey was deleted while the session was open.
func (s *Store) AddResponse(rec *session.Record) error {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM surveys WHERE id = ?`, rec.SurveyID).Scan(&n); err != nil {
		return fmt.Errorf("store: check survey %q: %w", rec.SurveyID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, rec.SurveyID)
	}

	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("store: encode answers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO responses (id, survey_id, respondent_id, answers, duration, quality_score, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SurveyID, rec.RespondentID, string(answers), rec.Duration, rec.QualityScore, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("store: insert response %q: %w", rec.ID, err)
	}
	return nil
}

// Responses returns the records of one survey, or of all surveys when
// surveyID is empty, oldest first.
func (s *Store) Responses(surveyID string) ([]session.Record, error) {
	query := `SELECT id, survey_id, respondent_id, answers, duration, quality_score, completed_at FROM responses`
	var args []any
	if surveyID != "" {
		query += ` WHERE survey_id = ?`
		args = append(args, surveyID)
	}
	query += ` ORDER BY completed_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []session.Record
	for rows.Next() {
		var (
			rec     session.Record
			answers string
		)
		if err := rows.Scan(&rec.ID, &rec.SurveyID, &rec.RespondentID, &answers,
			&rec.Duration, &rec.QualityScore, &rec.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return nil, fmt.Errorf("store: decode answers of %q: %w", rec.ID, err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// ResponseStats aggregates response counts, average quality and average
// duration for one survey, or for all surveys when surveyID is empty.
func (s *Store) ResponseStats(surveyID string) (*Stats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(quality_score), 0),
		       COALESCE(AVG(duration), 0),
		       COALESCE(SUM(CASE WHEN quality_score >= ? THEN 1 ELSE 0 END), 0)
		FROM responses`
	args := []any{HighQualityThreshold}
	if surveyID != "" {
		query += ` WHERE survey_id = ?`
		args = append(args, surveyID)
	}

	stats := &Stats{SurveyID: surveyID}
	var high int
	if err := s.db.QueryRow(query, args...).Scan(&stats.Responses, &stats.AvgQuality, &stats.AvgDuration, &high); err != nil {
		return nil, fmt.Errorf("store: response stats: %w", err)
	}
	if stats.Responses > 0 {
		stats.HighQualityRate = float64(high) / float64(stats.Responses)
	}
	return stats, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
