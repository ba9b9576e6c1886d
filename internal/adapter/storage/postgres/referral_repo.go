package postgres

import (
	"context"
	"errors"
	"fmt"

	"presale-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReferralRepo implements ports.ReferralRepository using PostgreSQL.
// Link purchases live in referral_purchases; bonus_amount on the link is
// their running sum.
type ReferralRepo struct {
	pool Pool
}

// NewReferralRepo creates a new ReferralRepo.
func NewReferralRepo(pool Pool) *ReferralRepo {
	return &ReferralRepo{pool: pool}
}

// CreateIfAbsent inserts link unless the (referrer, referred) pair exists.
func (r *ReferralRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, link *domain.ReferralLink) (*domain.ReferralLink, bool, error) {
	q := conn(r.pool, tx)

	tag, err := q.Exec(ctx,
		`INSERT INTO referral_links (id, referrer, referred, bonus_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (referrer, referred) DO NOTHING`,
		link.ID, link.Referrer, link.Referred, link.BonusAmount, link.Timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert referral link: %w", err)
	}
	if tag.RowsAffected() == 1 {
		created := *link
		if created.Purchases == nil {
			created.Purchases = []domain.ReferralPurchase{}
		}
		return &created, true, nil
	}

	existing, err := r.getByPair(ctx, q, link.Referrer, link.Referred)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("referral link %s -> %s vanished after conflict", link.Referrer, link.Referred)
	}
	return existing, false, nil
}

// GetByPair returns the link of a referrer/referred pair, or nil.
func (r *ReferralRepo) GetByPair(ctx context.Context, referrer, referred string) (*domain.ReferralLink, error) {
	return r.getByPair(ctx, r.pool, referrer, referred)
}

// AddPurchase records a referred purchase and accrues its bonus.
func (r *ReferralRepo) AddPurchase(ctx context.Context, tx pgx.Tx, linkID uuid.UUID, purchase domain.ReferralPurchase) error {
	q := conn(r.pool, tx)

	_, err := q.Exec(ctx,
		`INSERT INTO referral_purchases (link_id, amount, bonus, created_at) VALUES ($1, $2, $3, $4)`,
		linkID, purchase.Amount, purchase.Bonus, purchase.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert referral purchase: %w", err)
	}

	tag, err := q.Exec(ctx,
		`UPDATE referral_links SET bonus_amount = bonus_amount + $2 WHERE id = $1`,
		linkID, purchase.Bonus,
	)
	if err != nil {
		return fmt.Errorf("accrue referral bonus: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("referral link %s not found", linkID)
	}
	return nil
}

// ListByReferrer returns all links of a referrer with their purchases.
func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrer string) ([]domain.ReferralLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, referrer, referred, bonus_amount, created_at FROM referral_links
		 WHERE referrer = $1 ORDER BY created_at ASC`,
		referrer,
	)
	if err != nil {
		return nil, fmt.Errorf("list referral links: %w", err)
	}

	var links []domain.ReferralLink
	for rows.Next() {
		link, err := scanReferralLink(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		links = append(links, *link)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referral links: %w", err)
	}
	if len(links) == 0 {
		return links, nil
	}

	ids := make([]string, len(links))
	for i := range links {
		ids[i] = links[i].ID.String()
	}
	byLink, err := r.loadPurchases(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range links {
		links[i].Purchases = byLink[links[i].ID]
		if links[i].Purchases == nil {
			links[i].Purchases = []domain.ReferralPurchase{}
		}
	}
	return links, nil
}

func (r *ReferralRepo) getByPair(ctx context.Context, q querier, referrer, referred string) (*domain.ReferralLink, error) {
	link, err := scanReferralLink(q.QueryRow(ctx,
		`SELECT id, referrer, referred, bonus_amount, created_at FROM referral_links
		 WHERE referrer = $1 AND referred = $2`,
		referrer, referred,
	))
	if err != nil || link == nil {
		return link, err
	}

	byLink, err := r.loadPurchases(ctx, q, []string{link.ID.String()})
	if err != nil {
		return nil, err
	}
	link.Purchases = byLink[link.ID]
	if link.Purchases == nil {
		link.Purchases = []domain.ReferralPurchase{}
	}
	return link, nil
}

func (r *ReferralRepo) loadPurchases(ctx context.Context, q querier, linkIDs []string) (map[uuid.UUID][]domain.ReferralPurchase, error) {
	rows, err := q.Query(ctx,
		`SELECT link_id, amount, bonus, created_at FROM referral_purchases
		 WHERE link_id = ANY($1::uuid[]) ORDER BY created_at ASC, id ASC`,
		linkIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list referral purchases: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.ReferralPurchase, len(linkIDs))
	for rows.Next() {
		var (
			linkID uuid.UUID
			p      domain.ReferralPurchase
		)
		if err := rows.Scan(&linkID, &p.Amount, &p.Bonus, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan referral purchase: %w", err)
		}
		out[linkID] = append(out[linkID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referral purchases: %w", err)
	}
	return out, nil
}

func scanReferralLink(row pgx.Row) (*domain.ReferralLink, error) {
	var link domain.ReferralLink
	err := row.Scan(&link.ID, &link.Referrer, &link.Referred, &link.BonusAmount, &link.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan referral link: %w", err)
	}
	return &link, nil
}
