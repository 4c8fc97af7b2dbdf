package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matsen/bipscrape/internal/paper"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite query index. papers.jsonl stays the source of truth;
// the index is rebuilt from it and can be deleted at any time.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `id, doi, title, authors, pub_time, pub_type,
	publication, volume, number, pages, publisher,
	tags_json, note, pdf_path`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			doi TEXT,
			doi_norm TEXT,
			title TEXT NOT NULL,
			authors TEXT,
			pub_time TEXT,
			pub_type INTEGER NOT NULL,
			publication TEXT,
			volume TEXT,
			number TEXT,
			pages TEXT,
			publisher TEXT,
			tags_json TEXT,
			note TEXT,
			pdf_path TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi_norm) WHERE doi_norm IS NOT NULL AND doi_norm != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			authors,
			publication
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	drafts, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers_fts"); err != nil {
		return 0, fmt.Errorf("clearing papers_fts table: %w", err)
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (
			id, doi, doi_norm, title, authors, pub_time, pub_type,
			publication, volume, number, pages, publisher,
			tags_json, note, pdf_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO papers_fts (id, title, authors, publication) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, p := range drafts {
		var tagsJSON []byte
		if len(p.Tags) > 0 {
			tagsJSON, err = json.Marshal(p.Tags)
			if err != nil {
				return 0, fmt.Errorf("marshaling tags for %s: %w", p.ID, err)
			}
		}

		_, err = papersStmt.Exec(
			p.ID, p.DOI, nullableStringValue(paper.NormalizeDOI(p.DOI)), p.Title, p.Authors, p.PubTime, int(p.PubType),
			p.Publication, p.Volume, p.Number, p.Pages, p.Publisher,
			nullableString(tagsJSON), p.Note, p.PDFPath,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}

		if _, err := ftsStmt.Exec(p.ID, p.Title, p.Authors, p.Publication); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(drafts), nil
}

// GetByID retrieves a paper by its ID. Returns nil if not found.
func (d *DB) GetByID(id string) (*paper.Draft, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE id = ?`, id)
	return scanDraft(row)
}

// GetByDOI retrieves a paper by DOI, compared normalized. Returns nil if not found.
func (d *DB) GetByDOI(doi string) (*paper.Draft, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE doi_norm = ?`, paper.NormalizeDOI(doi))
	return scanDraft(row)
}

// Search performs a full-text search over title, authors and publication.
func (d *DB) Search(query string, limit int) ([]paper.Draft, error) {
	return d.SearchWithFilters(query, limit, SearchFilter{})
}

// SearchFilter narrows a full-text search. PubType is matched in SQL; Match
// is applied to each candidate row before the limit is counted.
type SearchFilter struct {
	PubType *paper.PubType
	Match   func(paper.Draft) bool
}

// SearchWithFilters performs a full-text search and returns at most limit
// papers that also pass f. A limit of zero or less means no limit.
func (d *DB) SearchWithFilters(query string, limit int, f SearchFilter) ([]paper.Draft, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	sqlQuery := `
		SELECT ` + selectPaperFields + `
		FROM papers
		WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)`
	args := []interface{}{ftsQuery}
	if f.PubType != nil {
		sqlQuery += ` AND pub_type = ?`
		args = append(args, int(*f.PubType))
	}
	sqlQuery += ` ORDER BY id`
	// Rows rejected by Match must not count against the limit.
	if f.Match == nil && limit > 0 {
		sqlQuery += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []paper.Draft
	for rows.Next() {
		p, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		if p == nil || (f.Match != nil && !f.Match(*p)) {
			continue
		}
		results = append(results, *p)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, rows.Err()
}

// ListByPubType returns papers of the given publication type.
func (d *DB) ListByPubType(t paper.PubType, limit int) ([]paper.Draft, error) {
	rows, err := d.db.Query(`SELECT `+selectPaperFields+` FROM papers WHERE pub_type = ? ORDER BY id LIMIT ?`, int(t), limit)
	if err != nil {
		return nil, fmt.Errorf("listing %s papers: %w", t, err)
	}
	defer rows.Close()

	return scanDrafts(rows)
}

// Count returns the total number of papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(s scanner) (*paper.Draft, error) {
	var p paper.Draft
	var pubType int
	var doi, authors, pubTime, publication, volume, number, pages, publisher sql.NullString
	var tagsJSON, note, pdfPath sql.NullString

	err := s.Scan(
		&p.ID, &doi, &p.Title, &authors, &pubTime, &pubType,
		&publication, &volume, &number, &pages, &publisher,
		&tagsJSON, &note, &pdfPath,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.DOI = doi.String
	p.Authors = authors.String
	p.PubTime = pubTime.String
	p.PubType = paper.PubType(pubType)
	p.Publication = publication.String
	p.Volume = volume.String
	p.Number = number.String
	p.Pages = pages.String
	p.Publisher = publisher.String
	p.Note = note.String
	p.PDFPath = pdfPath.String

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &p.Tags); err != nil {
			return nil, fmt.Errorf("parsing tags JSON for %s: %w", p.ID, err)
		}
	}

	return &p, nil
}

func scanDrafts(rows *sql.Rows) ([]paper.Draft, error) {
	var drafts []paper.Draft
	for rows.Next() {
		p, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			drafts = append(drafts, *p)
		}
	}
	return drafts, rows.Err()
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~./") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
