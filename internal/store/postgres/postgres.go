package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/agentpay/agentpay/internal/engine"
	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// registryRowID pins the registry to a single row; the primary-key
// constraint makes duplicate initialization lose at the INSERT.
const registryRowID = 1

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store {
	return &pgStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// NewWithDBClock is NewWithDB with an injectable clock, for tests that need
// to move the spending window.
func NewWithDBClock(db *sql.DB, now func() time.Time) store.Store {
	return &pgStore{db: db, now: now}
}

type pgStore struct {
	db  *sql.DB
	now func() time.Time
}

func (s *pgStore) Registry() store.Registries { return &registries{s} }
func (s *pgStore) Agents() store.Agents       { return &agents{s} }
func (s *pgStore) Requests() store.Requests   { return &requests{s} }
func (s *pgStore) Accounts() store.Accounts   { return &accounts{s} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// Schema setup is handled by deployment migrations, so this is ping-only.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Ledger helpers (run inside the caller's transaction) ---

func debit(ctx context.Context, tx *sql.Tx, address string, amount uint64) error {
	res, err := tx.ExecContext(ctx, `
        UPDATE accounts SET balance = balance - $2 WHERE address = $1 AND balance >= $2
    `, address, int64(amount))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrInsufficientFunds
	}
	return nil
}

func credit(ctx context.Context, tx *sql.Tx, address string, amount uint64) error {
	_, err := tx.ExecContext(ctx, `
        INSERT INTO accounts (address, balance) VALUES ($1, $2)
        ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
    `, address, int64(amount))
	return err
}

// --- Row scanners ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRegistry(row rowScanner) (*model.Registry, error) {
	var out model.Registry
	var count, volume int64
	if err := row.Scan(&out.Authority, &count, &volume, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.AgentCount = uint64(count)
	out.TotalVolume = uint64(volume)
	return &out, nil
}

func scanAgent(row rowScanner) (*model.Agent, error) {
	var out model.Agent
	var limit, spent, received, sent int64
	err := row.Scan(&out.AgentID, &out.Owner, &out.Operator, &limit, &spent,
		&out.WindowStart, &out.IsActive, &received, &sent, &out.CreationTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.DailyLimit = uint64(limit)
	out.DailySpent = uint64(spent)
	out.TotalReceived = uint64(received)
	out.TotalSent = uint64(sent)
	return &out, nil
}

func scanRequest(row rowScanner) (*model.PaymentRequest, error) {
	var out model.PaymentRequest
	var amount int64
	var status string
	var processed sql.NullTime
	err := row.Scan(&out.RequestID, &out.AgentID, &out.Operator, &out.Owner,
		&out.Recipient, &amount, &out.Purpose, &status, &out.RequestedAt, &processed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.Amount = uint64(amount)
	out.Status = model.PaymentStatus(status)
	if processed.Valid {
		t := processed.Time
		out.ProcessedAt = &t
	}
	return &out, nil
}

const agentColumns = `agent_id, owner, operator, daily_limit, daily_spent, window_start, is_active, total_received, total_sent, creation_time`
const requestColumns = `request_id, agent_id, operator, owner, recipient, amount, purpose, status, requested_at, processed_at`

// --- Registries ---

type registries struct{ s *pgStore }

func (r *registries) Init(ctx context.Context, authority string) (*model.Registry, error) {
	now := r.s.now()
	_, err := r.s.db.ExecContext(ctx, `
        INSERT INTO registry (registry_id, authority, agent_count, total_volume, creation_time)
        VALUES ($1, $2, 0, 0, $3)
    `, registryRowID, authority, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyInitialized
		}
		return nil, err
	}
	return &model.Registry{Authority: authority, CreationTime: now}, nil
}

func (r *registries) Get(ctx context.Context) (*model.Registry, error) {
	row := r.s.db.QueryRowContext(ctx, `
        SELECT authority, agent_count, total_volume, creation_time FROM registry WHERE registry_id = $1
    `, registryRowID)
	return scanRegistry(row)
}

// --- Agents ---

type agents struct{ s *pgStore }

func (a *agents) Register(ctx context.Context, owner, operator string, dailyLimit uint64) (*model.Agent, *model.Registry, error) {
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := a.s.now()
	agent := &model.Agent{
		AgentID:      engine.AgentID(owner, operator),
		Owner:        owner,
		Operator:     operator,
		DailyLimit:   dailyLimit,
		WindowStart:  now,
		IsActive:     true,
		CreationTime: now,
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO agents (`+agentColumns+`)
        VALUES ($1,$2,$3,$4,0,$5,TRUE,0,0,$6)
    `, agent.AgentID, owner, operator, int64(dailyLimit), now, now); err != nil {
		if isUniqueViolation(err) {
			return nil, nil, model.ErrDuplicateAgent
		}
		return nil, nil, err
	}

	reg, err := scanRegistry(tx.QueryRowContext(ctx, `
        UPDATE registry SET agent_count = agent_count + 1 WHERE registry_id = $1
        RETURNING authority, agent_count, total_volume, creation_time
    `, registryRowID))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, fmt.Errorf("registry not initialized: %w", model.ErrNotFound)
		}
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return agent, reg, nil
}

func (a *agents) Get(ctx context.Context, agentID string) (*model.Agent, error) {
	row := a.s.db.QueryRowContext(ctx, `
        SELECT `+agentColumns+` FROM agents WHERE agent_id = $1
    `, agentID)
	return scanAgent(row)
}

func (a *agents) ListByOwner(ctx context.Context, owner string) ([]*model.Agent, error) {
	rows, err := a.s.db.QueryContext(ctx, `
        SELECT `+agentColumns+` FROM agents WHERE owner = $1 ORDER BY creation_time DESC
    `, owner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Agent
	for rows.Next() {
		ag, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ag)
	}
	return out, rows.Err()
}

func (a *agents) lockAgent(ctx context.Context, tx *sql.Tx, agentID string) (*model.Agent, error) {
	row := tx.QueryRowContext(ctx, `
        SELECT `+agentColumns+` FROM agents WHERE agent_id = $1 FOR UPDATE
    `, agentID)
	return scanAgent(row)
}

func (a *agents) UpdateDailyLimit(ctx context.Context, caller, agentID string, newLimit uint64) (*model.Agent, error) {
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	agent, err := a.lockAgent(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	if err := engine.EvaluateOwnerAction(agent, caller); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE agents SET daily_limit = $2 WHERE agent_id = $1
    `, agentID, int64(newLimit)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	agent.DailyLimit = newLimit
	return agent, nil
}

func (a *agents) Deactivate(ctx context.Context, caller, agentID string) (*model.Agent, error) {
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	agent, err := a.lockAgent(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	if err := engine.EvaluateOwnerAction(agent, caller); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE agents SET is_active = FALSE WHERE agent_id = $1
    `, agentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	agent.IsActive = false
	return agent, nil
}

func (a *agents) Pay(ctx context.Context, payer, agentID string, amount uint64) (*model.Agent, *model.Registry, error) {
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	agent, err := a.lockAgent(ctx, tx, agentID)
	if err != nil {
		return nil, nil, err
	}
	if err := engine.EvaluateReceipt(agent, amount); err != nil {
		return nil, nil, err
	}
	if err := debit(ctx, tx, payer, amount); err != nil {
		return nil, nil, err
	}
	if err := credit(ctx, tx, agent.Owner, amount); err != nil {
		return nil, nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE agents SET total_received = total_received + $2 WHERE agent_id = $1
    `, agentID, int64(amount)); err != nil {
		return nil, nil, err
	}
	reg, err := scanRegistry(tx.QueryRowContext(ctx, `
        UPDATE registry SET total_volume = total_volume + $2 WHERE registry_id = $1
        RETURNING authority, agent_count, total_volume, creation_time
    `, registryRowID, int64(amount)))
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	agent.TotalReceived += amount
	return agent, reg, nil
}

func (a *agents) Spend(ctx context.Context, caller, agentID, recipient string, amount uint64) (*model.Agent, error) {
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	agent, err := a.lockAgent(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	plan, err := engine.EvaluateSpend(agent, caller, amount, a.s.now())
	if err != nil {
		return nil, err
	}
	if err := debit(ctx, tx, agent.Owner, amount); err != nil {
		return nil, err
	}
	if err := credit(ctx, tx, recipient, amount); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE agents SET daily_spent = $2, window_start = $3, total_sent = $4 WHERE agent_id = $1
    `, agentID, int64(plan.DailySpent), plan.WindowStart, int64(plan.TotalSent)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	agent.DailySpent = plan.DailySpent
	agent.WindowStart = plan.WindowStart
	agent.TotalSent = plan.TotalSent
	return agent, nil
}

// --- Requests ---

type requests struct{ s *pgStore }

func (r *requests) Create(ctx context.Context, caller, agentID, recipient string, amount uint64, purpose string) (*model.PaymentRequest, error) {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	agent, err := scanAgent(tx.QueryRowContext(ctx, `
        SELECT `+agentColumns+` FROM agents WHERE agent_id = $1
    `, agentID))
	if err != nil {
		return nil, err
	}
	req, err := engine.NewPaymentRequest(agent, caller, recipient, amount, purpose, r.s.now())
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO payment_requests (`+requestColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULL)
    `, req.RequestID, req.AgentID, req.Operator, req.Owner, req.Recipient,
		int64(req.Amount), req.Purpose, string(req.Status), req.RequestedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *requests) Get(ctx context.Context, requestID string) (*model.PaymentRequest, error) {
	row := r.s.db.QueryRowContext(ctx, `
        SELECT `+requestColumns+` FROM payment_requests WHERE request_id = $1
    `, requestID)
	return scanRequest(row)
}

func (r *requests) ListByAgent(ctx context.Context, agentID string) ([]*model.PaymentRequest, error) {
	return r.list(ctx, `
        SELECT `+requestColumns+` FROM payment_requests WHERE agent_id = $1 ORDER BY requested_at DESC
    `, agentID)
}

func (r *requests) ListPendingByOwner(ctx context.Context, owner string) ([]*model.PaymentRequest, error) {
	return r.list(ctx, `
        SELECT `+requestColumns+` FROM payment_requests WHERE owner = $1 AND status = 'PENDING' ORDER BY requested_at DESC
    `, owner)
}

func (r *requests) list(ctx context.Context, query string, arg interface{}) ([]*model.PaymentRequest, error) {
	rows, err := r.s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.PaymentRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (r *requests) lockRequest(ctx context.Context, tx *sql.Tx, requestID string) (*model.PaymentRequest, error) {
	row := tx.QueryRowContext(ctx, `
        SELECT `+requestColumns+` FROM payment_requests WHERE request_id = $1 FOR UPDATE
    `, requestID)
	return scanRequest(row)
}

func (r *requests) Approve(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error) {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	req, err := r.lockRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if err := engine.EvaluateResolution(req, caller); err != nil {
		return nil, err
	}
	if err := debit(ctx, tx, req.Owner, req.Amount); err != nil {
		return nil, err
	}
	if err := credit(ctx, tx, req.Recipient, req.Amount); err != nil {
		return nil, err
	}
	now := r.s.now()
	if _, err := tx.ExecContext(ctx, `
        UPDATE payment_requests SET status = $2, processed_at = $3 WHERE request_id = $1
    `, requestID, string(model.StatusApproved), now); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
        UPDATE agents SET total_sent = total_sent + $2 WHERE agent_id = $1
    `, req.AgentID, int64(req.Amount)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	req.Status = model.StatusApproved
	req.ProcessedAt = &now
	return req, nil
}

func (r *requests) Reject(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error) {
	tx, err := r.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	req, err := r.lockRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if err := engine.EvaluateResolution(req, caller); err != nil {
		return nil, err
	}
	now := r.s.now()
	if _, err := tx.ExecContext(ctx, `
        UPDATE payment_requests SET status = $2, processed_at = $3 WHERE request_id = $1
    `, requestID, string(model.StatusRejected), now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	req.Status = model.StatusRejected
	req.ProcessedAt = &now
	return req, nil
}

// --- Accounts ---

type accounts struct{ s *pgStore }

func (a *accounts) Get(ctx context.Context, address string) (*model.Account, error) {
	var balance int64
	row := a.s.db.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE address = $1`, address)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &model.Account{Address: address, Balance: uint64(balance)}, nil
}

func (a *accounts) Deposit(ctx context.Context, address string, amount uint64) (*model.Account, error) {
	if amount == 0 {
		return nil, model.ErrInvalidAmount
	}
	var balance int64
	row := a.s.db.QueryRowContext(ctx, `
        INSERT INTO accounts (address, balance) VALUES ($1, $2)
        ON CONFLICT (address) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
        RETURNING balance
    `, address, int64(amount))
	if err := row.Scan(&balance); err != nil {
		return nil, err
	}
	return &model.Account{Address: address, Balance: uint64(balance)}, nil
}

func (a *accounts) Transfer(ctx context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return model.ErrInvalidAmount
	}
	tx, err := a.s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := debit(ctx, tx, from, amount); err != nil {
		return err
	}
	if err := credit(ctx, tx, to, amount); err != nil {
		return err
	}
	return tx.Commit()
}
