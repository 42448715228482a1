package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affiliatebot/internal/model"
)

// ProductStore persists products keyed by (id, platform). The same native
// id may exist on several platforms as distinct records.
type ProductStore struct {
	DB *pgxpool.Pool
}

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS products (
		id                  TEXT NOT NULL,
		platform            TEXT NOT NULL,
		title               TEXT NOT NULL DEFAULT '',
		price               DOUBLE PRECISION NOT NULL DEFAULT 0,
		original_price      DOUBLE PRECISION,
		discount_percentage DOUBLE PRECISION,
		url                 TEXT NOT NULL DEFAULT '',
		affiliate_url       TEXT NOT NULL DEFAULT '',
		image_url           TEXT NOT NULL DEFAULT '',
		rating              DOUBLE PRECISION,
		review_count        INTEGER,
		category            TEXT NOT NULL DEFAULT '',
		description         TEXT NOT NULL DEFAULT '',
		last_updated        TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (id, platform)
	)`

func (s *ProductStore) Init(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

// Save upserts the product under its (id, platform) key, refreshing
// last_updated. The write runs in a transaction so a failure never leaves
// a half-updated record visible; concurrent saves to the same key are
// last-writer-wins.
func (s *ProductStore) Save(ctx context.Context, p model.Product) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save product %s/%s: %w", p.Platform, p.ID, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO products
			(id, platform, title, price, original_price, discount_percentage,
			 url, affiliate_url, image_url, rating, review_count, category,
			 description, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id, platform) DO UPDATE SET
			title = excluded.title,
			price = excluded.price,
			original_price = excluded.original_price,
			discount_percentage = excluded.discount_percentage,
			url = excluded.url,
			affiliate_url = excluded.affiliate_url,
			image_url = excluded.image_url,
			rating = excluded.rating,
			review_count = excluded.review_count,
			category = excluded.category,
			description = excluded.description,
			last_updated = excluded.last_updated
	`, p.ID, p.Platform, p.Title, p.Price, p.OriginalPrice, p.DiscountPercentage,
		p.URL, p.AffiliateURL, p.ImageURL, p.Rating, p.ReviewCount, p.Category,
		p.Description, time.Now())
	if err != nil {
		return fmt.Errorf("save product %s/%s: %w", p.Platform, p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("save product %s/%s: %w", p.Platform, p.ID, err)
	}
	return nil
}

// List returns all saved products, filtered to one platform when platform
// is non-empty. Order is unspecified.
func (s *ProductStore) List(ctx context.Context, platform string) ([]model.Product, error) {
	query := `
		SELECT id, platform, title, price, original_price, discount_percentage,
		       url, affiliate_url, image_url, rating, review_count, category,
		       description, last_updated
		FROM products`
	args := []any{}
	if platform != "" {
		query += " WHERE platform = $1"
		args = append(args, platform)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get looks up one product by its composite key. Returns (nil, nil) when
// no record matches.
func (s *ProductStore) Get(ctx context.Context, id, platform string) (*model.Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, platform, title, price, original_price, discount_percentage,
		       url, affiliate_url, image_url, rating, review_count, category,
		       description, last_updated
		FROM products
		WHERE id = $1 AND platform = $2
	`, id, platform)
	if err != nil {
		return nil, fmt.Errorf("get product %s/%s: %w", platform, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get product %s/%s: %w", platform, id, err)
		}
		return nil, nil
	}

	p, err := scanProduct(rows)
	if err != nil {
		return nil, fmt.Errorf("get product %s/%s: %w", platform, id, err)
	}
	return &p, nil
}

func scanProduct(rows pgx.Rows) (model.Product, error) {
	var p model.Product
	err := rows.Scan(&p.ID, &p.Platform, &p.Title, &p.Price, &p.OriginalPrice,
		&p.DiscountPercentage, &p.URL, &p.AffiliateURL, &p.ImageURL,
		&p.Rating, &p.ReviewCount, &p.Category, &p.Description, &p.LastUpdated)
	return p, err
}
