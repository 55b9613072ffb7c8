package credential

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// SQLStore persists the ledger in sqlite or postgres. Issuance order
// is kept by a monotonic seq column. Every append also writes an
// issuance event to the audit log.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, sessionID string, c Credential) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq),0)+1 FROM credentials WHERE session_id=$1`, sessionID).Scan(&seq); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO credentials (id,session_id,seq,course_id,course_name,issue_date,token_id,verified,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, sessionID, seq, c.CourseID, c.CourseName, c.IssueDate, c.TokenID, c.Verified, time.Now().Unix()); err != nil {
		return err
	}
	payload, _ := json.Marshal(c)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		"CredentialIssued", c.ID, string(payload), time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) List(ctx context.Context, sessionID string) ([]Credential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,course_id,course_name,issue_date,token_id,verified
		 FROM credentials WHERE session_id=$1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.ID, &c.CourseID, &c.CourseName, &c.IssueDate, &c.TokenID, &c.Verified); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) HasCourse(ctx context.Context, sessionID, courseID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM credentials WHERE session_id=$1 AND course_id=$2`, sessionID, courseID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
