package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brickco/brickco-api/internal/domain/entity"
	"github.com/brickco/brickco-api/internal/domain/repository"
	"github.com/lib/pq"
)

const (
	brickColumns = `id, name, sku, material, size, color, length, width, height, price, stock,
		min_stock_threshold, manufacturer, storage_location, image, description, featured, created_at, updated_at`

	listBricksQuery     = `SELECT ` + brickColumns + ` FROM bricks ORDER BY seq`
	getBrickByIDQuery   = `SELECT ` + brickColumns + ` FROM bricks WHERE id = $1`
	getBricksByIDsQuery = `SELECT ` + brickColumns + ` FROM bricks WHERE id = ANY($1) ORDER BY seq`
	insertBrickQuery    = `
		INSERT INTO bricks (id, name, sku, material, size, color, length, width, height, price, stock,
			min_stock_threshold, manufacturer, storage_location, image, description, featured, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`
	updateBrickQuery = `
		UPDATE bricks
		SET name = $2, sku = $3, material = $4, size = $5, color = $6,
			length = $7, width = $8, height = $9, price = $10, stock = $11,
			min_stock_threshold = $12, manufacturer = $13, storage_location = $14,
			image = $15, description = $16, featured = $17, updated_at = $18
		WHERE id = $1
	`
	deleteBrickQuery = `DELETE FROM bricks WHERE id = $1`
)

type scanner interface {
	Scan(dest ...any) error
}

func scanBrick(row scanner) (entity.Brick, error) {
	var b entity.Brick
	err := row.Scan(&b.ID, &b.Name, &b.SKU, &b.Material, &b.Size, &b.Color,
		&b.Dimensions.Length, &b.Dimensions.Width, &b.Dimensions.Height,
		&b.Price, &b.Stock, &b.MinStockThreshold, &b.Manufacturer, &b.StorageLocation,
		&b.Image, &b.Description, &b.Featured, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

type brickRepo struct{ t *tx }

func (r brickRepo) query(ctx context.Context, query string, args ...any) ([]entity.Brick, error) {
	rows, err := r.t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Brick, 0)
	for rows.Next() {
		b, err := scanBrick(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r brickRepo) List(ctx context.Context) ([]entity.Brick, error) {
	return r.query(ctx, listBricksQuery)
}

func (r brickRepo) GetByID(ctx context.Context, id string) (entity.Brick, error) {
	b, err := scanBrick(r.t.q.QueryRowContext(ctx, getBrickByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Brick{}, repository.ErrNotFound
	}
	return b, err
}

func (r brickRepo) GetByIDs(ctx context.Context, ids []string) ([]entity.Brick, error) {
	if len(ids) == 0 {
		return []entity.Brick{}, nil
	}
	return r.query(ctx, getBricksByIDsQuery, pq.Array(ids))
}

func (r brickRepo) Create(ctx context.Context, b entity.Brick) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	_, err := r.t.q.ExecContext(ctx, insertBrickQuery,
		b.ID, b.Name, b.SKU, b.Material, b.Size, b.Color,
		b.Dimensions.Length, b.Dimensions.Width, b.Dimensions.Height,
		b.Price, b.Stock, b.MinStockThreshold, b.Manufacturer, b.StorageLocation,
		b.Image, b.Description, b.Featured, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r brickRepo) Update(ctx context.Context, b entity.Brick) error {
	return r.t.exec(ctx, updateBrickQuery,
		b.ID, b.Name, b.SKU, b.Material, b.Size, b.Color,
		b.Dimensions.Length, b.Dimensions.Width, b.Dimensions.Height,
		b.Price, b.Stock, b.MinStockThreshold, b.Manufacturer, b.StorageLocation,
		b.Image, b.Description, b.Featured, b.UpdatedAt)
}

func (r brickRepo) Delete(ctx context.Context, id string) error {
	return r.t.exec(ctx, deleteBrickQuery, id)
}
