package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/finbook/investment-ledger/internal/interfaces"
	"github.com/finbook/investment-ledger/internal/models"
	"github.com/finbook/investment-ledger/internal/xerrors"
)

// PostgresLedgerStore persists accounts, entries and lines via database/sql.
// SaveEntry runs supersession and insert inside one transaction.
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{db: db}
}

const accountColumns = `id, owner_id, name, type, currency, role, linked_account_id, created_at`

func scanAccount(row *sql.Row) (*models.GLAccount, error) {
	var acct models.GLAccount
	var role, linked sql.NullString
	err := row.Scan(
		&acct.ID,
		&acct.OwnerID,
		&acct.Name,
		&acct.Type,
		&acct.Currency,
		&role,
		&linked,
		&acct.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	acct.Role = models.AccountRole(role.String)
	acct.LinkedAccountID = linked.String
	return &acct, nil
}

func (p *PostgresLedgerStore) GetGLAccount(ctx context.Context, id string) (*models.GLAccount, error) {
	const query = `SELECT ` + accountColumns + ` FROM gl_accounts WHERE id = $1`
	return scanAccount(p.db.QueryRowContext(ctx, query, id))
}

func (p *PostgresLedgerStore) FindAccountByLink(ctx context.Context, linkedAccountID string) (*models.GLAccount, error) {
	const query = `SELECT ` + accountColumns + ` FROM gl_accounts WHERE linked_account_id = $1 LIMIT 1`
	return scanAccount(p.db.QueryRowContext(ctx, query, linkedAccountID))
}

func (p *PostgresLedgerStore) FindAccountByRole(ctx context.Context, ownerID string, role models.AccountRole, currency models.Currency) (*models.GLAccount, error) {
	if currency != "" {
		const query = `SELECT ` + accountColumns + ` FROM gl_accounts
		WHERE owner_id = $1 AND role = $2 AND currency = $3 LIMIT 1`
		return scanAccount(p.db.QueryRowContext(ctx, query, ownerID, string(role), string(currency)))
	}
	const query = `SELECT ` + accountColumns + ` FROM gl_accounts
	WHERE owner_id = $1 AND role = $2 LIMIT 1`
	return scanAccount(p.db.QueryRowContext(ctx, query, ownerID, string(role)))
}

func (p *PostgresLedgerStore) FindAccountByName(ctx context.Context, ownerID, fragment string) (*models.GLAccount, error) {
	const query = `SELECT ` + accountColumns + ` FROM gl_accounts
	WHERE owner_id = $1 AND name LIKE '%' || $2 || '%' LIMIT 1`
	return scanAccount(p.db.QueryRowContext(ctx, query, ownerID, fragment))
}

// SaveEntry soft-deletes the active entries for (owner, reference id) and
// inserts the new entry with its lines, all in one transaction. Serializable
// isolation keeps two concurrent re-posts of the same reference from both
// staying active.
func (p *PostgresLedgerStore) SaveEntry(ctx context.Context, entry models.GLEntry) error {
	dbTx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if entry.ReferenceID != "" {
		const supersede = `UPDATE gl_entries
		SET is_deleted = TRUE, deleted_at = $3
		WHERE owner_id = $1 AND reference_id = $2 AND is_deleted = FALSE`
		if _, err = dbTx.ExecContext(ctx, supersede, entry.OwnerID, entry.ReferenceID, time.Now()); err != nil {
			return err
		}
	}

	const insertEntry = `INSERT INTO gl_entries (id, owner_id, date, memo, source, reference_id, is_deleted, created_at)
	VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),FALSE,$7)`
	if _, err = dbTx.ExecContext(ctx, insertEntry,
		entry.ID, entry.OwnerID, entry.Date, entry.Memo, entry.Source, entry.ReferenceID, entry.CreatedAt,
	); err != nil {
		return err
	}

	const insertLine = `INSERT INTO gl_lines (id, entry_id, account_id, side, amount, currency, note)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, l := range entry.Lines {
		if _, err = dbTx.ExecContext(ctx, insertLine,
			l.ID, l.EntryID, l.AccountID, string(l.Side), l.Amount, string(l.Currency), l.Note,
		); err != nil {
			return err
		}
	}

	return dbTx.Commit()
}

const entryColumns = `id, owner_id, date, memo, source, COALESCE(reference_id, ''), is_deleted, deleted_at, created_at`

func (p *PostgresLedgerStore) ListEntries(ctx context.Context, ownerID string) ([]models.GLEntry, error) {
	const query = `SELECT ` + entryColumns + ` FROM gl_entries
	WHERE owner_id = $1 AND is_deleted = FALSE
	ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.GLEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		lines, err := p.linesByEntry(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

func (p *PostgresLedgerStore) ActiveEntryByReference(ctx context.Context, ownerID, referenceID string) (*models.GLEntry, error) {
	const query = `SELECT ` + entryColumns + ` FROM gl_entries
	WHERE owner_id = $1 AND reference_id = $2 AND is_deleted = FALSE
	LIMIT 1`

	rows, err := p.db.QueryContext(ctx, query, ownerID, referenceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, xerrors.ErrNotFound
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = p.linesByEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (p *PostgresLedgerStore) ListLinesByAccount(ctx context.Context, accountID string) ([]models.GLLine, error) {
	const query = `SELECT l.id, l.entry_id, l.account_id, l.side, l.amount, l.currency, l.note
	FROM gl_lines l
	JOIN gl_entries e ON e.id = l.entry_id
	WHERE l.account_id = $1 AND e.is_deleted = FALSE
	ORDER BY e.created_at ASC`

	rows, err := p.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.GLLine
	for rows.Next() {
		var l models.GLLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Side, &l.Amount, &l.Currency, &l.Note); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (p *PostgresLedgerStore) linesByEntry(ctx context.Context, entryID string) ([]models.GLLine, error) {
	const query = `SELECT id, entry_id, account_id, side, amount, currency, note
	FROM gl_lines WHERE entry_id = $1 ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.GLLine
	for rows.Next() {
		var l models.GLLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Side, &l.Amount, &l.Currency, &l.Note); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanEntry(rows *sql.Rows) (*models.GLEntry, error) {
	var entry models.GLEntry
	var deletedAt sql.NullTime
	err := rows.Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.Date,
		&entry.Memo,
		&entry.Source,
		&entry.ReferenceID,
		&entry.Deleted,
		&deletedAt,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		entry.DeletedAt = &deletedAt.Time
	}
	return &entry, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
