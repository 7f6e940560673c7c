package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type BlacklistEntry struct {
	Domain   string    `json:"domain"`
	Severity string    `json:"severity"`
	Source   string    `json:"source"`
	Reason   string    `json:"reason"`
	ListedAt time.Time `json:"listed_at"`
}

// GetBlacklistEntry returns nil without error when the domain is not listed.
func (d *Database) GetBlacklistEntry(ctx context.Context, domain string) (*BlacklistEntry, error) {
	var e BlacklistEntry
	err := d.Pool.QueryRow(ctx,
		`SELECT domain, severity, source, reason, listed_at
		 FROM blacklist_entries WHERE domain = $1`, domain,
	).Scan(&e.Domain, &e.Severity, &e.Source, &e.Reason, &e.ListedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}
	return &e, nil
}

type Exchange struct {
	Domain  string `json:"domain"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (d *Database) GetVerifiedExchange(ctx context.Context, domain string) (*Exchange, error) {
	var e Exchange
	err := d.Pool.QueryRow(ctx,
		`SELECT domain, name, country FROM verified_exchanges WHERE domain = $1`, domain,
	).Scan(&e.Domain, &e.Name, &e.Country)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("exchange lookup: %w", err)
	}
	return &e, nil
}

// CountReports returns how many community reports exist for domain and when
// the most recent one was filed.
func (d *Database) CountReports(ctx context.Context, domain string) (int, *time.Time, error) {
	var count int
	var last *time.Time
	err := d.Pool.QueryRow(ctx,
		`SELECT count(*), max(created_at) FROM domain_reports WHERE domain = $1`, domain,
	).Scan(&count, &last)
	if err != nil {
		return 0, nil, fmt.Errorf("report count: %w", err)
	}
	return count, last, nil
}

func (d *Database) InsertReport(ctx context.Context, id, domain, category, description, reporterIP string) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO domain_reports (id, domain, category, description, reporter_ip)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, domain, category, description, reporterIP,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

type EvaluationRow struct {
	ID         int64           `json:"id"`
	Domain     string          `json:"domain"`
	Mode       string          `json:"mode"`
	FinalScore int             `json:"final_score"`
	Status     string          `json:"status"`
	FullResult json.RawMessage `json:"full_result"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (d *Database) InsertEvaluation(ctx context.Context, domain, mode string, finalScore int, status string, fullResult []byte) error {
	_, err := d.Pool.Exec(ctx,
		`INSERT INTO evaluations (domain, mode, final_score, status, full_result)
		 VALUES ($1, $2, $3, $4, $5)`,
		domain, mode, finalScore, status, fullResult,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (d *Database) ListRecentEvaluations(ctx context.Context, limit int) ([]EvaluationRow, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT id, domain, mode, final_score, status, full_result, created_at
		 FROM evaluations ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var result []EvaluationRow
	for rows.Next() {
		var r EvaluationRow
		if err := rows.Scan(&r.ID, &r.Domain, &r.Mode, &r.FinalScore, &r.Status, &r.FullResult, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
