package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xkilldash9x/homegrid/api/schemas"
	"go.uber.org/zap"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store is the PostgreSQL-backed workspace record store. It persists the
// favorites table the loader reads and the app catalog table behind the
// paged all-apps view.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const favoriteColumns = `id, container, screen, cell_x, cell_y, span_x, span_y, item_type,
		title, intent, icon, icon_type, icon_package, icon_resource, order_id, widget_id, uri, display_mode`

// QueryAll returns every favorites row in store order.
func (s *Store) QueryAll(ctx context.Context) ([]schemas.FavoriteRow, error) {
	query := `SELECT ` + favoriteColumns + ` FROM favorites ORDER BY id ASC;`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var out []schemas.FavoriteRow
	for rows.Next() {
		var r schemas.FavoriteRow
		err := rows.Scan(
			&r.ID, &r.Container, &r.Screen, &r.CellX, &r.CellY, &r.SpanX, &r.SpanY, &r.ItemType,
			&r.Title, &r.Intent, &r.Icon, &r.IconType, &r.IconPackage, &r.IconResource,
			&r.OrderID, &r.WidgetID, &r.URI, &r.DisplayMode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorites row: %w", err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return out, nil
}

// AddItem writes the placement into the item, persists it, and stamps the
// generated id back onto the item. The in-memory item is mutated before the
// insert so a persistence failure never leaves it pointing at stale cells.
func (s *Store) AddItem(ctx context.Context, item schemas.Item, container int64, screen, cellX, cellY int) error {
	info := item.Info()
	info.Container = container
	info.Screen = screen
	info.CellX = cellX
	info.CellY = cellY

	row, err := rowFromItem(item)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO favorites (container, screen, cell_x, cell_y, span_x, span_y, item_type,
            title, intent, icon, icon_type, icon_package, icon_resource, order_id, widget_id, uri, display_mode)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id;
    `
	var id int64
	err = s.pool.QueryRow(ctx, query,
		row.Container, row.Screen, row.CellX, row.CellY, row.SpanX, row.SpanY, row.ItemType,
		row.Title, row.Intent, row.Icon, row.IconType, row.IconPackage, row.IconResource,
		row.OrderID, row.WidgetID, row.URI, row.DisplayMode,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	info.ID = id
	s.log.Debug("Item added",
		zap.Int64("id", id),
		zap.Stringer("type", info.ItemType),
		zap.Int64("container", container),
		zap.Int("screen", screen))
	return nil
}

// MoveItem updates the item's placement in memory first, then persists the
// placement columns.
func (s *Store) MoveItem(ctx context.Context, item schemas.Item, container int64, screen, cellX, cellY int) error {
	info := item.Info()
	info.Container = container
	info.Screen = screen
	info.CellX = cellX
	info.CellY = cellY

	query := `
        UPDATE favorites
        SET container = $1, screen = $2, cell_x = $3, cell_y = $4, order_id = $5
        WHERE id = $6;
    `
	if _, err := s.pool.Exec(ctx, query, container, screen, cellX, cellY, info.OrderID, info.ID); err != nil {
		return fmt.Errorf("failed to move item %d: %w", info.ID, err)
	}
	return nil
}

// AddOrMoveItem inserts items that have never been persisted and moves the
// rest.
func (s *Store) AddOrMoveItem(ctx context.Context, item schemas.Item, container int64, screen, cellX, cellY int) error {
	if item.Info().ID == schemas.NoID {
		return s.AddItem(ctx, item, container, screen, cellX, cellY)
	}
	return s.MoveItem(ctx, item, container, screen, cellX, cellY)
}

// UpdateItem rewrites the full row for an already persisted item.
func (s *Store) UpdateItem(ctx context.Context, item schemas.Item) error {
	info := item.Info()
	if info.ID == schemas.NoID {
		return fmt.Errorf("cannot update unpersisted item of type %s", info.ItemType)
	}

	row, err := rowFromItem(item)
	if err != nil {
		return err
	}

	query := `
        UPDATE favorites
        SET container = $1, screen = $2, cell_x = $3, cell_y = $4, span_x = $5, span_y = $6,
            item_type = $7, title = $8, intent = $9, icon = $10, icon_type = $11,
            icon_package = $12, icon_resource = $13, order_id = $14, widget_id = $15,
            uri = $16, display_mode = $17
        WHERE id = $18;
    `
	_, err = s.pool.Exec(ctx, query,
		row.Container, row.Screen, row.CellX, row.CellY, row.SpanX, row.SpanY, row.ItemType,
		row.Title, row.Intent, row.Icon, row.IconType, row.IconPackage, row.IconResource,
		row.OrderID, row.WidgetID, row.URI, row.DisplayMode, info.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item %d: %w", info.ID, err)
	}
	return nil
}

// DeleteItem removes a single row by id.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}

// DeleteItems removes a set of rows in one batch. Missing ids are not an
// error, so the loader's self-heal deletions stay idempotent.
func (s *Store) DeleteItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`DELETE FROM favorites WHERE id = $1;`, id)
	}

	br := s.pool.SendBatch(ctx, batch)
	if br == nil {
		return fmt.Errorf("failed to send delete batch: batch results is nil")
	}
	defer func() {
		_ = br.Close()
	}()

	for i := range ids {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to execute batch delete for id %d: %w", ids[i], err)
		}
	}

	s.log.Debug("Items deleted", zap.Int("count", len(ids)))
	return nil
}

// DeleteFolderContents removes a folder row together with every row living
// inside it, in one transaction.
func (s *Store) DeleteFolderContents(ctx context.Context, folderID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE container = $1;`, folderID); err != nil {
		return fmt.Errorf("failed to delete folder contents of %d: %w", folderID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE id = $1;`, folderID); err != nil {
		return fmt.Errorf("failed to delete folder %d: %w", folderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ShortcutExists reports whether a shortcut with this title and intent is
// already on the workspace, so duplicate installs can be skipped.
func (s *Store) ShortcutExists(ctx context.Context, title, intent string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE title = $1 AND intent = $2);`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, title, intent).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check shortcut existence: %w", err)
	}
	return exists, nil
}

// MaxScreen returns the highest desktop screen index in use, or -1 when the
// desktop is empty.
func (s *Store) MaxScreen(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(screen), -1) FROM favorites WHERE container = $1;`

	var max int
	if err := s.pool.QueryRow(ctx, query, schemas.ContainerDesktop).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to query max screen: %w", err)
	}
	return max, nil
}
