package ingest

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantool/plan"
)

//go:embed sql/schema.sql
var schemaSQL string

var storeColumns = []string{
	"business_year", "state_code", "issuer_id", "source_name", "import_date",
	"standard_component_id", "plan_id", "benefit_name",
	"copay_inn_tier1", "copay_inn_tier2", "copay_outof_net",
	"coins_inn_tier1", "coins_inn_tier2", "coins_outof_net",
	"is_ehb", "is_covered", "quant_limit_on_svc", "limit_qty", "limit_unit",
	"exclusions", "explanation", "ehb_var_reason",
	"is_excl_from_inn_moop", "is_excl_from_oon_moop",
}

// Store keeps benefit records in the plan_benefits table.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect opens a small pool and checks the server is reachable.
func Connect(ctx context.Context, connStr string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	logger.Debug("connected to postgres")
	return &Store{pool: pool, logger: logger}, nil
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

func (s *Store) Close() { s.pool.Close() }

// Migrate creates the plan_benefits table and its plan_id index.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Import copies every record from r into the store, committing every batchSize
// records. It returns the number of records written.
func (s *Store) Import(ctx context.Context, r Reader, batchSize int) (int64, error) {
	if batchSize < 1 {
		batchSize = 10000
	}
	start := time.Now()
	lastLog := start

	var (
		total   int64
		pending [][]any
	)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"plan_benefits"}, storeColumns, pgx.CopyFromRows(pending))
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("copy plan_benefits: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		total += n
		pending = pending[:0]
		return nil
	}

	for {
		b, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, err
		}
		row, err := benefitValues(b)
		if err != nil {
			return total, err
		}
		pending = append(pending, row)
		if len(pending) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}

		if time.Since(lastLog) >= 5*time.Second {
			s.logger.Info("import progress", "rows", total+int64(len(pending)),
				"rows_per_sec", float64(total)/time.Since(start).Seconds())
			lastLog = time.Now()
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	s.logger.Info("import complete", "rows", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return total, nil
}

func benefitValues(b plan.Benefit) ([]any, error) {
	date, err := time.Parse(time.DateOnly, b.ImportDate)
	if err != nil {
		return nil, fmt.Errorf("plan %s benefit %q: import date %q: %w", b.PlanID, b.Name, b.ImportDate, err)
	}
	return []any{
		int32(b.BusinessYear),
		sanitizeUTF8(b.StateCode),
		sanitizeUTF8(b.IssuerID),
		sanitizeUTF8(b.SourceName),
		pgtype.Date{Time: date, Valid: true},
		sanitizeUTF8(b.StandardComponentID),
		sanitizeUTF8(b.PlanID),
		sanitizeUTF8(b.Name),
		optToPgText(b.CopayInnTier1),
		optToPgText(b.CopayInnTier2),
		optToPgText(b.CopayOutOfNet),
		optToPgText(b.CoinsInnTier1),
		optToPgText(b.CoinsInnTier2),
		optToPgText(b.CoinsOutOfNet),
		enumToPgText(b.EHB),
		enumToPgText(b.Coverage),
		enumToPgText(b.QuantityLimit),
		floatToPg(b.LimitQty),
		optToPgText(b.LimitUnit),
		optToPgText(b.Exclusions),
		optToPgText(b.Explanation),
		optToPgText(b.EHBVarReason),
		enumToPgText(b.ExclFromInnMOOP),
		enumToPgText(b.ExclFromOonMOOP),
	}, nil
}

// LoadBenefits returns the stored records in insertion order, restricted to
// planIDs when any are given.
func (s *Store) LoadBenefits(ctx context.Context, planIDs ...string) ([]plan.Benefit, error) {
	query := "SELECT " + strings.Join(storeColumns, ", ") + " FROM plan_benefits"
	var args []any
	if len(planIDs) > 0 {
		query += " WHERE plan_id = ANY($1)"
		args = append(args, planIDs)
	}
	query += " ORDER BY id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plan_benefits: %w", err)
	}
	defer rows.Close()

	var out []plan.Benefit
	for rows.Next() {
		var (
			b                                     plan.Benefit
			year                                  int32
			date                                  pgtype.Date
			ehb, covered, quant, exclInn, exclOon pgtype.Text
			qty                                   pgtype.Float8
			copay1, copay2, copayOON              pgtype.Text
			coins1, coins2, coinsOON              pgtype.Text
			unit, excl, expl, varReason           pgtype.Text
		)
		if err := rows.Scan(&year, &b.StateCode, &b.IssuerID, &b.SourceName, &date,
			&b.StandardComponentID, &b.PlanID, &b.Name,
			&copay1, &copay2, &copayOON, &coins1, &coins2, &coinsOON,
			&ehb, &covered, &quant, &qty, &unit,
			&excl, &expl, &varReason, &exclInn, &exclOon); err != nil {
			return nil, fmt.Errorf("scan plan_benefits: %w", err)
		}
		b.BusinessYear = int(year)
		b.ImportDate = date.Time.Format(time.DateOnly)
		b.CopayInnTier1, b.CopayInnTier2, b.CopayOutOfNet = pgToOpt(copay1), pgToOpt(copay2), pgToOpt(copayOON)
		b.CoinsInnTier1, b.CoinsInnTier2, b.CoinsOutOfNet = pgToOpt(coins1), pgToOpt(coins2), pgToOpt(coinsOON)
		b.EHB = plan.ParseEHB(ehb.String)
		b.Coverage = plan.ParseCoverage(covered.String)
		b.QuantityLimit = plan.ParseFlag(quant.String)
		if qty.Valid {
			v := qty.Float64
			b.LimitQty = &v
		}
		b.LimitUnit = pgToOpt(unit)
		b.Exclusions = pgToOpt(excl)
		b.Explanation = pgToOpt(expl)
		b.EHBVarReason = pgToOpt(varReason)
		b.ExclFromInnMOOP = plan.ParseFlag(exclInn.String)
		b.ExclFromOonMOOP = plan.ParseFlag(exclOon.String)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan_benefits: %w", err)
	}
	return out, nil
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with spaces.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}

func optToPgText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: sanitizeUTF8(*s), Valid: true}
}

func enumToPgText[T ~string](v T) pgtype.Text {
	return pgtype.Text{String: string(v), Valid: v != ""}
}

func floatToPg(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: *f, Valid: true}
}

func pgToOpt(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
